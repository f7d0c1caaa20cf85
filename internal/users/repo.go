package users

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/seddikfer4/Mcdial/internal/database"
)

var (
	ErrNotFound  = errors.New("user not found")
	ErrDuplicate = errors.New("user already exists")
)

type Repo struct {
	DB database.Querier
}

func NewRepo(db database.Querier) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Groups(ctx context.Context) ([]map[string]any, error) {
	rows, err := r.DB.Query(ctx, `SELECT user_group FROM vicidial_user_groups`)
	if err != nil {
		return nil, err
	}
	return database.CollectMaps(rows)
}

func (r *Repo) ExistsByUser(ctx context.Context, user string) (bool, error) {
	var one int
	err := r.DB.QueryRow(ctx, `SELECT 1 FROM vicidial_users WHERE "user" = $1`, user).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type CreateInput struct {
	User      string
	Pass      string
	FullName  string
	UserLevel int    // 0 falls back to 1
	UserGroup string // empty falls back to NULL
}

// Create inserts a full default-valued record with the identity columns
// overridden from in. Passwords are stored as supplied; the legacy schema
// owns the credential format. A unique violation on the insert itself maps
// to ErrDuplicate so a concurrent identical create cannot slip past the
// existence pre-check.
func (r *Repo) Create(ctx context.Context, in CreateInput, now time.Time) error {
	level := in.UserLevel
	if level == 0 {
		level = 1
	}
	var group any
	if in.UserGroup != "" {
		group = in.UserGroup
	}

	record := append([]Field{
		{"user", in.User},
		{"pass", in.Pass},
		{"full_name", in.FullName},
		{"user_level", level},
		{"user_group", group},
	}, DefaultRecord(now)...)

	sql, args := insertSQL("vicidial_users", record)
	if _, err := r.DB.Exec(ctx, sql, args...); err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *Repo) List(ctx context.Context, limit, offset int) ([]map[string]any, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT * FROM vicidial_users ORDER BY user_id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return database.CollectMaps(rows)
}

func (r *Repo) GetByID(ctx context.Context, userID string) (map[string]any, error) {
	if !validID(userID) {
		return nil, ErrNotFound
	}
	rows, err := r.DB.Query(ctx, `SELECT * FROM vicidial_users WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	maps, err := database.CollectMaps(rows)
	if err != nil {
		return nil, err
	}
	if len(maps) == 0 {
		return nil, ErrNotFound
	}
	return maps[0], nil
}

// Update applies an allow-listed field set to one row and refreshes
// modify_stamp. The caller has already validated set via BuildSet.
func (r *Repo) Update(ctx context.Context, userID string, set []Field, now time.Time) error {
	if !validID(userID) {
		return ErrNotFound
	}
	var one int
	err := r.DB.QueryRow(ctx, `SELECT 1 FROM vicidial_users WHERE user_id = $1`, userID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	set = append(set, Field{"modify_stamp", stamp(now)})

	clauses := make([]string, len(set))
	args := make([]any, 0, len(set)+1)
	for i, f := range set {
		clauses[i] = fmt.Sprintf("%s = $%d", quoteIdent(f.Column), i+1)
		args = append(args, f.Value)
	}
	args = append(args, userID)

	sql := fmt.Sprintf("UPDATE vicidial_users SET %s WHERE user_id = $%d",
		strings.Join(clauses, ", "), len(set)+1)
	_, err = r.DB.Exec(ctx, sql, args...)
	return err
}

// copyColumns are the only columns a clone carries over from its source;
// everything else in the new row comes from schema defaults.
var copyColumns = []string{
	"user", "pass", "full_name", "mobile_number", "phone_login", "phone_pass",
	"user_group", "user_code", "email", "user_nickname", "voicemail_id", "territory",
}

type CopyInput struct {
	SourceID  string
	Overrides map[string]any
}

// Copy clones one user: each copy column takes the override when supplied
// (non-empty), else the source's value. The primary key is never copied.
// Returns the new username.
func (r *Repo) Copy(ctx context.Context, in CopyInput, now time.Time) (string, error) {
	source, err := r.GetByID(ctx, in.SourceID)
	if err != nil {
		return "", err
	}

	record := make([]Field, 0, len(copyColumns)+1)
	for _, col := range copyColumns {
		v, ok := in.Overrides[col]
		if !ok || v == nil || v == "" {
			v = source[col]
		}
		record = append(record, Field{col, v})
	}
	record = append(record, Field{"modify_stamp", stamp(now)})

	newUser := fmt.Sprint(record[0].Value)

	exists, err := r.ExistsByUser(ctx, newUser)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrDuplicate
	}

	sql, args := insertSQL("vicidial_users", record)
	if _, err := r.DB.Exec(ctx, sql, args...); err != nil {
		if database.IsUniqueViolation(err) {
			return "", ErrDuplicate
		}
		return "", err
	}
	return newUser, nil
}

func insertSQL(table string, record []Field) (string, []any) {
	cols := make([]string, len(record))
	placeholders := make([]string, len(record))
	args := make([]any, len(record))
	for i, f := range record {
		cols[i] = quoteIdent(f.Column)
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = f.Value
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	return sql, args
}

// quoteIdent quotes a known column name; "user" clashes with the SQL keyword.
func quoteIdent(col string) string {
	return `"` + col + `"`
}

// validID reports whether userID can address the integer user_id column.
// Anything else is simply not a user.
func validID(userID string) bool {
	_, err := strconv.Atoi(userID)
	return err == nil
}
