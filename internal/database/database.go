package database

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgxpool.Pool the repositories depend on, so
// handlers can be exercised against a scripted fake in tests.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// CollectMaps drains rows into column-name keyed maps, preserving every
// selected column. The user table carries ~150 columns owned by the external
// schema, so the SELECT * endpoints ship rows through here rather than
// through a struct that would have to mirror that schema.
func CollectMaps(rows pgx.Rows) ([]map[string]any, error) {
	defer rows.Close()

	fields := rows.FieldDescriptions()
	out := []map[string]any{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(map[string]any, len(fields))
		for i, fd := range fields {
			row[fd.Name] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// IsUniqueViolation reports whether err is a unique constraint violation
// (SQLSTATE 23505). Creation endpoints map this to a duplicate conflict so
// two concurrent identical inserts cannot both succeed.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// LimitOffset parses limit/offset query values, falling back to def and
// clamping the limit to max.
func LimitOffset(limitQ, offsetQ string, def, max int) (int, int) {
	limit := def
	if v, err := strconv.Atoi(limitQ); err == nil && v > 0 {
		limit = v
	}
	if limit > max {
		limit = max
	}

	offset := 0
	if v, err := strconv.Atoi(offsetQ); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
