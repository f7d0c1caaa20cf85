package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seddikfer4/Mcdial/internal/database/dbtest"
)

func TestRoleLabel(t *testing.T) {
	cases := map[int]string{
		1:  "Agent",
		2:  "Manager",
		3:  "Supervisor",
		4:  "Admin",
		9:  "Super Admin",
		5:  "Level 5",
		7:  "Level 7",
		0:  "Level 0",
		-3: "Level -3",
	}
	for level, want := range cases {
		assert.Equal(t, want, RoleLabel(level), "level %d", level)
	}
}

func TestActiveRate(t *testing.T) {
	assert.Equal(t, 0, ActiveRate(0, 0))
	assert.Equal(t, 0, ActiveRate(5, 0))
	assert.Equal(t, 100, ActiveRate(10, 10))
	assert.Equal(t, 50, ActiveRate(5, 10))
	// 2/3 = 66.67 rounds up, 1/3 = 33.33 rounds down.
	assert.Equal(t, 67, ActiveRate(2, 3))
	assert.Equal(t, 33, ActiveRate(1, 3))
	assert.Equal(t, 1, ActiveRate(1, 200))
}

func TestDashboard(t *testing.T) {
	db := &dbtest.DB{Results: []dbtest.Result{
		{Rows: [][]any{{int64(10)}}},
		{Rows: [][]any{{int64(7)}}},
		{Columns: []string{"user_level", "count"}, Rows: [][]any{
			{int64(1), int64(5)},
			{int64(4), int64(3)},
			{int64(9), int64(2)},
		}},
		{Columns: []string{"user", "full_name", "last_login_date", "user_level"}, Rows: [][]any{
			{"6666", "Admin One", time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), int64(9)},
		}},
	}}

	d, err := NewRepo(db).Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(10), d.TotalUsers)
	assert.Equal(t, int64(7), d.ActiveUsers)
	assert.Equal(t, 70, d.ActiveRate)
	require.Len(t, d.UsersByLevel, 3)
	assert.Equal(t, "Agent", d.UsersByLevel[0].LevelName)
	assert.Equal(t, "Admin", d.UsersByLevel[1].LevelName)
	assert.Equal(t, "Super Admin", d.UsersByLevel[2].LevelName)
	require.Len(t, d.RecentLogins, 1)
	assert.Equal(t, "Super Admin", d.RecentLogins[0].LevelName)
}

func TestAggregatedUnknownUser(t *testing.T) {
	db := &dbtest.DB{Results: []dbtest.Result{
		{Columns: []string{"user"}}, // zero rows
	}}

	_, err := NewRepo(db).Aggregated(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, db.Calls, 1, "no aggregate queries after a missing user")
}

func TestAggregated(t *testing.T) {
	firstLogin := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	lastLogin := time.Date(2024, 3, 4, 17, 30, 0, 0, time.UTC)

	db := &dbtest.DB{Results: []dbtest.Result{
		{Columns: []string{"user", "full_name"}, Rows: [][]any{{"1001", "Agent Smith"}}},
		{Rows: [][]any{{int64(30), int64(12), 45.5, int64(300), int64(5)}}},
		{Rows: [][]any{{int64(8), int64(3)}}},
		{Rows: [][]any{{int64(20), firstLogin, lastLogin}}},
		{Rows: [][]any{{int64(40), int64(20), int64(20)}}},
		{Rows: [][]any{{int64(4), int64(2)}}},
	}}

	stats, err := NewRepo(db).Aggregated(context.Background(), "1001")
	require.NoError(t, err)

	assert.Equal(t, "Agent Smith", stats.UserInfo["full_name"])
	assert.Equal(t, int64(30), stats.CallStats.TotalCalls)
	assert.Equal(t, int64(12), stats.CallStats.SuccessfulCalls)
	require.NotNil(t, stats.CallStats.AvgCallDuration)
	assert.InDelta(t, 45.5, *stats.CallStats.AvgCallDuration, 0.001)
	require.NotNil(t, stats.CallStats.LongestCall)
	assert.Equal(t, int64(300), *stats.CallStats.LongestCall)
	assert.Equal(t, int64(8), stats.CloserStats.TotalCloserCalls)
	require.NotNil(t, stats.UserLogStats.FirstLogin)
	assert.Equal(t, firstLogin, *stats.UserLogStats.FirstLogin)
	assert.Equal(t, int64(20), stats.TimeclockStats.TotalLogins)
	assert.Equal(t, int64(2), stats.UserCloserStats.SuccessfulCloserEntries)
}

func TestActiveSnapshotLabels(t *testing.T) {
	lastSeen := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	db := &dbtest.DB{Results: []dbtest.Result{
		{Rows: [][]any{{int64(3), int64(1), int64(4)}}},
		{Rows: [][]any{{int64(2)}}},
		{Rows: [][]any{{int64(1)}}},
		{Columns: []string{"user", "full_name", "active", "last_activity"}, Rows: [][]any{
			{"1001", "Agent Smith", "Y", lastSeen},
			{"1002", "Agent Jones", "N", lastSeen},
		}},
	}}

	s, err := NewRepo(db).ActiveSnapshot(context.Background(), time.Now())
	require.NoError(t, err)

	assert.Equal(t, int64(3), s.ActiveUsersCount)
	assert.Equal(t, int64(1), s.InactiveUsersCount)
	assert.Equal(t, int64(4), s.TotalUsersCount)
	assert.Equal(t, int64(2), s.LoggedInTodayCount)
	assert.Equal(t, int64(1), s.CurrentlyLoggedIn)
	require.Len(t, s.RecentlyActiveUsers, 2)
	assert.Equal(t, "Actif", s.RecentlyActiveUsers[0].Status)
	assert.Equal(t, "Inactif", s.RecentlyActiveUsers[1].Status)
}
