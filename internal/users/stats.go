package users

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/seddikfer4/Mcdial/internal/database"
)

// RoleLabel maps a user level to its display name.
func RoleLabel(level int) string {
	switch level {
	case 1:
		return "Agent"
	case 2:
		return "Manager"
	case 3:
		return "Supervisor"
	case 4:
		return "Admin"
	case 9:
		return "Super Admin"
	default:
		return fmt.Sprintf("Level %d", level)
	}
}

// ActiveRate is the percentage of active users, rounded to the nearest
// integer; 0 when there are no users at all.
func ActiveRate(active, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(active) / float64(total) * 100))
}

// RawStats bundles the unaggregated per-user history the userStats endpoint
// returns. Every log query is LIMIT-capped; the tables are append-only and
// grow without bound.
type RawStats struct {
	UserInfo       map[string]any   `json:"userInfo"`
	CallData       []map[string]any `json:"callData"`
	CloserData     []map[string]any `json:"closerData"`
	UserLogData    []map[string]any `json:"userLogData"`
	TimeclockData  []map[string]any `json:"timeclockData"`
	UserCloserData []map[string]any `json:"userCloserData"`
}

func (r *Repo) RawStats(ctx context.Context, user string, limit int) (*RawStats, error) {
	out := &RawStats{}

	userRows, err := r.DB.Query(ctx, `SELECT * FROM vicidial_users WHERE "user" = $1`, user)
	if err != nil {
		return nil, err
	}
	userInfo, err := database.CollectMaps(userRows)
	if err != nil {
		return nil, err
	}
	if len(userInfo) > 0 {
		out.UserInfo = userInfo[0]
	}

	for _, q := range []struct {
		table string
		dest  *[]map[string]any
	}{
		{"vicidial_log", &out.CallData},
		{"vicidial_closer_log", &out.CloserData},
		{"vicidial_user_log", &out.UserLogData},
		{"vicidial_timeclock_log", &out.TimeclockData},
		{"vicidial_user_closer_log", &out.UserCloserData},
	} {
		rows, err := r.DB.Query(ctx,
			fmt.Sprintf(`SELECT * FROM %s WHERE "user" = $1 LIMIT $2`, q.table),
			user, limit,
		)
		if err != nil {
			return nil, err
		}
		maps, err := database.CollectMaps(rows)
		if err != nil {
			return nil, err
		}
		*q.dest = maps
	}

	return out, nil
}

type CallStats struct {
	TotalCalls      int64    `json:"total_calls"`
	SuccessfulCalls int64    `json:"successful_calls"`
	AvgCallDuration *float64 `json:"avg_call_duration"`
	LongestCall     *int64   `json:"longest_call"`
	ShortestCall    *int64   `json:"shortest_call"`
}

type CloserStats struct {
	TotalCloserCalls      int64 `json:"total_closer_calls"`
	SuccessfulCloserCalls int64 `json:"successful_closer_calls"`
}

type UserLogStats struct {
	TotalUserLogEntries int64      `json:"total_user_log_entries"`
	FirstLogin          *time.Time `json:"first_login"`
	LastLogin           *time.Time `json:"last_login"`
}

type TimeclockStats struct {
	TotalTimeclockEntries int64 `json:"total_timeclock_entries"`
	TotalLogins           int64 `json:"total_logins"`
	TotalLogouts          int64 `json:"total_logouts"`
}

type UserCloserStats struct {
	TotalUserCloserEntries int64 `json:"total_user_closer_entries"`
	SuccessfulCloserEntries int64 `json:"successful_closer_entries"`
}

// Statistics is the aggregated per-user view. Success in the call tables
// means status SALE or CONFIRMED.
type Statistics struct {
	UserInfo        map[string]any  `json:"userInfo"`
	CallStats       CallStats       `json:"callStats"`
	CloserStats     CloserStats     `json:"closerStats"`
	UserLogStats    UserLogStats    `json:"userLogStats"`
	TimeclockStats  TimeclockStats  `json:"timeclockStats"`
	UserCloserStats UserCloserStats `json:"userCloserStats"`
}

func (r *Repo) Aggregated(ctx context.Context, user string) (*Statistics, error) {
	userRows, err := r.DB.Query(ctx, `SELECT * FROM vicidial_users WHERE "user" = $1`, user)
	if err != nil {
		return nil, err
	}
	userInfo, err := database.CollectMaps(userRows)
	if err != nil {
		return nil, err
	}
	if len(userInfo) == 0 {
		return nil, ErrNotFound
	}

	stats := &Statistics{UserInfo: userInfo[0]}

	err = r.DB.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status IN ('SALE', 'CONFIRMED') THEN 1 ELSE 0 END), 0),
		       AVG(length_in_sec),
		       MAX(length_in_sec),
		       MIN(length_in_sec)
		FROM vicidial_log
		WHERE "user" = $1`,
		user,
	).Scan(
		&stats.CallStats.TotalCalls,
		&stats.CallStats.SuccessfulCalls,
		&stats.CallStats.AvgCallDuration,
		&stats.CallStats.LongestCall,
		&stats.CallStats.ShortestCall,
	)
	if err != nil {
		return nil, err
	}

	err = r.DB.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status IN ('SALE', 'CONFIRMED') THEN 1 ELSE 0 END), 0)
		FROM vicidial_closer_log
		WHERE "user" = $1`,
		user,
	).Scan(&stats.CloserStats.TotalCloserCalls, &stats.CloserStats.SuccessfulCloserCalls)
	if err != nil {
		return nil, err
	}

	err = r.DB.QueryRow(ctx, `
		SELECT COUNT(*), MIN(event_time), MAX(event_time)
		FROM vicidial_user_log
		WHERE "user" = $1`,
		user,
	).Scan(
		&stats.UserLogStats.TotalUserLogEntries,
		&stats.UserLogStats.FirstLogin,
		&stats.UserLogStats.LastLogin,
	)
	if err != nil {
		return nil, err
	}

	err = r.DB.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN event_type = 'LOGIN' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN event_type = 'LOGOUT' THEN 1 ELSE 0 END), 0)
		FROM vicidial_timeclock_log
		WHERE "user" = $1`,
		user,
	).Scan(
		&stats.TimeclockStats.TotalTimeclockEntries,
		&stats.TimeclockStats.TotalLogins,
		&stats.TimeclockStats.TotalLogouts,
	)
	if err != nil {
		return nil, err
	}

	err = r.DB.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status IN ('SALE', 'CONFIRMED') THEN 1 ELSE 0 END), 0)
		FROM vicidial_user_closer_log
		WHERE "user" = $1`,
		user,
	).Scan(
		&stats.UserCloserStats.TotalUserCloserEntries,
		&stats.UserCloserStats.SuccessfulCloserEntries,
	)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

type LevelCount struct {
	UserLevel int    `json:"user_level"`
	LevelName string `json:"level_name"`
	Count     int64  `json:"count"`
}

type RecentLogin struct {
	User          string    `json:"user"`
	FullName      string    `json:"full_name"`
	LastLoginDate time.Time `json:"last_login_date"`
	UserLevel     int       `json:"user_level"`
	LevelName     string    `json:"level_name"`
}

type Dashboard struct {
	TotalUsers   int64         `json:"totalUsers"`
	ActiveUsers  int64         `json:"activeUsers"`
	ActiveRate   int           `json:"activeRate"`
	UsersByLevel []LevelCount  `json:"usersByLevel"`
	RecentLogins []RecentLogin `json:"recentLogins"`
}

func (r *Repo) Dashboard(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{}

	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM vicidial_users`).Scan(&d.TotalUsers); err != nil {
		return nil, err
	}
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM vicidial_users WHERE active = 'Y'`).Scan(&d.ActiveUsers); err != nil {
		return nil, err
	}
	d.ActiveRate = ActiveRate(d.ActiveUsers, d.TotalUsers)

	levelRows, err := r.DB.Query(ctx, `
		SELECT user_level, COUNT(*)
		FROM vicidial_users
		GROUP BY user_level
		ORDER BY user_level`)
	if err != nil {
		return nil, err
	}
	defer levelRows.Close()
	d.UsersByLevel = []LevelCount{}
	for levelRows.Next() {
		var lc LevelCount
		if err := levelRows.Scan(&lc.UserLevel, &lc.Count); err != nil {
			return nil, err
		}
		lc.LevelName = RoleLabel(lc.UserLevel)
		d.UsersByLevel = append(d.UsersByLevel, lc)
	}
	if err := levelRows.Err(); err != nil {
		return nil, err
	}

	recentRows, err := r.DB.Query(ctx, `
		SELECT "user", full_name, last_login_date, user_level
		FROM vicidial_users
		WHERE last_login_date IS NOT NULL
		ORDER BY last_login_date DESC
		LIMIT 5`)
	if err != nil {
		return nil, err
	}
	defer recentRows.Close()
	d.RecentLogins = []RecentLogin{}
	for recentRows.Next() {
		var rl RecentLogin
		if err := recentRows.Scan(&rl.User, &rl.FullName, &rl.LastLoginDate, &rl.UserLevel); err != nil {
			return nil, err
		}
		rl.LevelName = RoleLabel(rl.UserLevel)
		d.RecentLogins = append(d.RecentLogins, rl)
	}
	if err := recentRows.Err(); err != nil {
		return nil, err
	}

	return d, nil
}

type ActiveUser struct {
	User         string    `json:"user"`
	FullName     string    `json:"full_name"`
	Active       string    `json:"active"`
	LastActivity time.Time `json:"last_activity"`
	Status       string    `json:"status"`
}

type ActiveSnapshot struct {
	ActiveUsersCount    int64        `json:"activeUsersCount"`
	InactiveUsersCount  int64        `json:"inactiveUsersCount"`
	TotalUsersCount     int64        `json:"totalUsersCount"`
	LoggedInTodayCount  int64        `json:"loggedInTodayCount"`
	CurrentlyLoggedIn   int64        `json:"currentlyLoggedIn"`
	RecentlyActiveUsers []ActiveUser `json:"recentlyActiveUsers"`
}

// ActiveSnapshot computes the live activity view. Time windows are computed
// on the server clock and passed as parameters, as the original reporting
// tool did, so "today" means the service's local date.
func (r *Repo) ActiveSnapshot(ctx context.Context, now time.Time) (*ActiveSnapshot, error) {
	s := &ActiveSnapshot{}

	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN active = 'Y' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN active = 'N' THEN 1 ELSE 0 END), 0),
		       COUNT(*)
		FROM vicidial_users`,
	).Scan(&s.ActiveUsersCount, &s.InactiveUsersCount, &s.TotalUsersCount)
	if err != nil {
		return nil, err
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	err = r.DB.QueryRow(ctx, `
		SELECT COUNT(DISTINCT "user")
		FROM vicidial_user_log
		WHERE event_date >= $1 AND event_date < $2`,
		midnight, midnight.Add(24*time.Hour),
	).Scan(&s.LoggedInTodayCount)
	if err != nil {
		return nil, err
	}

	err = r.DB.QueryRow(ctx, `
		SELECT COUNT(DISTINCT "user")
		FROM vicidial_user_log
		WHERE event_date > $1 AND event = 'LOGIN'`,
		now.Add(-30*time.Minute),
	).Scan(&s.CurrentlyLoggedIn)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT vul."user", vu.full_name, vu.active, MAX(vul.event_date) AS last_activity
		FROM vicidial_user_log vul
		JOIN vicidial_users vu ON vul."user" = vu."user"
		WHERE vul.event_date > $1
		GROUP BY vul."user", vu.full_name, vu.active
		ORDER BY last_activity DESC
		LIMIT 5`,
		now.Add(-24*time.Hour),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	s.RecentlyActiveUsers = []ActiveUser{}
	for rows.Next() {
		var au ActiveUser
		if err := rows.Scan(&au.User, &au.FullName, &au.Active, &au.LastActivity); err != nil {
			return nil, err
		}
		if au.Active == "Y" {
			au.Status = "Actif"
		} else {
			au.Status = "Inactif"
		}
		s.RecentlyActiveUsers = append(s.RecentlyActiveUsers, au)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return s, nil
}
