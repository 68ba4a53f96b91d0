package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

const maxRetryDelay = 30 * time.Second

// Options tunes Open. Zero values fall back to defaults.
type Options struct {
	Retries   int
	BaseDelay time.Duration
}

// Open opens a DB, waits for it to accept connections and ensures the schema
// exists. Transient connectivity failures are retried with exponential backoff.
func Open(ctx context.Context, driver Driver, dsn string, opts Options) (*sqlx.DB, error) {
	var drvName, bindName string
	switch driver {
	case DriverSQLite:
		drvName, bindName = "sqlite", "sqlite3" // modernc driver, '?' placeholders
		if dsn == "" {
			dsn = "file:mindengage-mock.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
		}
	case DriverPostgres:
		drvName, bindName = "pgx", "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/mindengage_mock?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	raw, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// one writer; also keeps shared in-memory databases alive
		raw.SetMaxOpenConns(1)
		raw.SetMaxIdleConns(1)
	}
	if err := pingWithRetry(ctx, raw, opts); err != nil {
		_ = raw.Close()
		return nil, err
	}

	dbx := sqlx.NewDb(raw, bindName)
	if err := ensureSchema(ctx, dbx, driver); err != nil {
		_ = dbx.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return dbx, nil
}

func pingWithRetry(ctx context.Context, db *sql.DB, opts Options) error {
	retries := opts.Retries
	if retries <= 0 {
		retries = 5
	}
	delay := opts.BaseDelay
	if delay <= 0 {
		delay = time.Second
	}
	var err error
	for attempt := 1; ; attempt++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		if attempt > retries {
			return fmt.Errorf("db ping after %d attempts: %w", attempt, err)
		}
		log.Printf("db ping failed (attempt %d/%d): %v; retrying in %s", attempt, retries+1, err, delay)
		select {
		case <-ctx.Done():
			return fmt.Errorf("db ping: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
		if delay > maxRetryDelay {
			delay = maxRetryDelay
		}
	}
}

func ensureSchema(ctx context.Context, db *sqlx.DB, driver Driver) error {
	var stmts []string
	switch driver {
	case DriverSQLite:
		stmts = schemaSQLite
	case DriverPostgres:
		stmts = schemaPostgres
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
