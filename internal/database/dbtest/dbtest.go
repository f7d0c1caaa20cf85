// Package dbtest provides a scripted database.Querier for handler and
// repository tests. Each statement executed through the fake consumes the
// next Result in order and is recorded for assertions.
package dbtest

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Call records one statement issued through the fake.
type Call struct {
	SQL  string
	Args []any
}

// Result scripts the response to one statement.
type Result struct {
	Columns []string
	Rows    [][]any
	Err     error
}

type DB struct {
	Results []Result
	Calls   []Call
	next    int
}

// UniqueViolation returns the error pgx surfaces for a duplicate key insert.
func UniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

func (f *DB) take(sql string, args []any) Result {
	f.Calls = append(f.Calls, Call{SQL: sql, Args: args})
	if f.next >= len(f.Results) {
		return Result{}
	}
	r := f.Results[f.next]
	f.next++
	return r
}

func (f *DB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	r := f.take(sql, args)
	if r.Err != nil {
		return nil, r.Err
	}
	return &rows{res: r}, nil
}

func (f *DB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return &row{res: f.take(sql, args)}
}

func (f *DB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r := f.take(sql, args)
	if r.Err != nil {
		return pgconn.CommandTag{}, r.Err
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

type rows struct {
	res Result
	i   int
}

func (r *rows) Close()                        {}
func (r *rows) Err() error                    { return nil }
func (r *rows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (r *rows) Conn() *pgx.Conn               { return nil }
func (r *rows) RawValues() [][]byte           { return nil }

func (r *rows) FieldDescriptions() []pgconn.FieldDescription {
	fds := make([]pgconn.FieldDescription, len(r.res.Columns))
	for i, name := range r.res.Columns {
		fds[i].Name = name
	}
	return fds
}

func (r *rows) Next() bool {
	if r.i >= len(r.res.Rows) {
		return false
	}
	r.i++
	return true
}

func (r *rows) Scan(dest ...any) error {
	return scanInto(r.res.Rows[r.i-1], dest)
}

func (r *rows) Values() ([]any, error) {
	return r.res.Rows[r.i-1], nil
}

type row struct {
	res Result
}

func (r *row) Scan(dest ...any) error {
	if r.res.Err != nil {
		return r.res.Err
	}
	if len(r.res.Rows) == 0 {
		return pgx.ErrNoRows
	}
	return scanInto(r.res.Rows[0], dest)
}

func scanInto(src []any, dest []any) error {
	if len(src) != len(dest) {
		return fmt.Errorf("dbtest: scan arity mismatch: %d values, %d targets", len(src), len(dest))
	}
	for i, v := range src {
		if err := assign(dest[i], v); err != nil {
			return fmt.Errorf("dbtest: column %d: %w", i, err)
		}
	}
	return nil
}

func assign(dest, v any) error {
	switch d := dest.(type) {
	case *string:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("cannot scan %T into *string", v)
		}
		*d = s
	case *int:
		n, err := toInt64(v)
		if err != nil {
			return err
		}
		*d = int(n)
	case *int64:
		n, err := toInt64(v)
		if err != nil {
			return err
		}
		*d = n
	case *float64:
		switch n := v.(type) {
		case float64:
			*d = n
		case int64:
			*d = float64(n)
		case int:
			*d = float64(n)
		default:
			return fmt.Errorf("cannot scan %T into *float64", v)
		}
	case **int64:
		if v == nil {
			*d = nil
			return nil
		}
		n, err := toInt64(v)
		if err != nil {
			return err
		}
		*d = &n
	case **float64:
		if v == nil {
			*d = nil
			return nil
		}
		var f float64
		switch n := v.(type) {
		case float64:
			f = n
		case int64:
			f = float64(n)
		case int:
			f = float64(n)
		default:
			return fmt.Errorf("cannot scan %T into **float64", v)
		}
		*d = &f
	case *time.Time:
		t, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("cannot scan %T into *time.Time", v)
		}
		*d = t
	case **time.Time:
		if v == nil {
			*d = nil
			return nil
		}
		t, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("cannot scan %T into **time.Time", v)
		}
		*d = &t
	case *any:
		*d = v
	default:
		return fmt.Errorf("unsupported scan target %T", dest)
	}
	return nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("cannot scan %T into integer", v)
	}
}
