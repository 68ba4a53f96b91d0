package mock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// SQLStore implements Store on sqlite or postgres. Queries are written with
// '?' placeholders and rebound for the active driver.
type SQLStore struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

func (s *SQLStore) q(query string) string { return s.db.Rebind(query) }

// withTx runs fn in a transaction, committing if fn returns nil.
func (s *SQLStore) withTx(ctx context.Context, fn func(*sqlx.Tx) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	return fn(tx)
}

func (s *SQLStore) insertID(ctx context.Context, qx sqlx.QueryerContext, query string, args ...any) (int64, error) {
	var id int64
	if err := qx.QueryRowxContext(ctx, s.q(query), args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// tables that rows can be checked against; never user input
var knownTables = map[string]bool{
	"mocks": true, "readings": true, "listenings": true, "writings": true,
	"reading_questions": true, "listening_questions": true, "results": true,
}

func (s *SQLStore) exists(ctx context.Context, qx sqlx.QueryerContext, table string, id int64) (bool, error) {
	if !knownTables[table] {
		return false, fmt.Errorf("exists: unknown table %q", table)
	}
	var one int
	err := qx.QueryRowxContext(ctx, s.q(`SELECT 1 FROM `+table+` WHERE id=?`), id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// checkAffected turns a zero-row update into ErrNotFound when the row is
// gone, which is what a delete racing an edit looks like.
func (s *SQLStore) checkAffected(ctx context.Context, qx sqlx.QueryerContext, res sql.Result, table string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	ok, err := s.exists(ctx, qx, table, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return fmt.Errorf("%s %d: update affected no rows", table, id)
}

func deleted(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func isFKViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint failed") // sqlite
}

func pageClause(limit, offset int) string {
	var b strings.Builder
	if limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", limit)
		if offset > 0 {
			fmt.Fprintf(&b, " OFFSET %d", offset)
		}
	}
	return b.String()
}
