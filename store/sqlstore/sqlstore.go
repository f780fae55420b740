/*
Package sqlstore provides the SQL-backed implementation of the domain stores.

PURPOSE:
  Implements timeoff.TxStore, payroll.TxStore and the employee directory on
  SQLite (default, file or ":memory:") or PostgreSQL, through sqlx. Queries
  are written once with "?" placeholders and rebound per driver.

KEY TABLES:
  employees:         Identity records (id, name, email, role)
  timeoff_types:     Leave categories with default allocation
  timeoff_balances:  One row per (employee, type, year), UNIQUE on that key
  timeoff_requests:  Requests and their decision
  salary_structures: One row per employee

CONCURRENCY:
  Approvals that share a balance row must not both pass the sufficiency
  check against a stale used_days.
  - PostgreSQL: GetBalanceForUpdate / GetRequestForUpdate add
    "FOR UPDATE OF ..." so the second transaction waits for the first.
  - SQLite: the pool holds a single connection and transactions begin with
    BEGIN IMMEDIATE (_txlock=immediate), so writers run one at a time.

GET-OR-CREATE:
  InsertBalanceIfAbsent / InsertSalaryIfAbsent use
  "INSERT ... ON CONFLICT (...) DO NOTHING". A lost race is not an error;
  the caller reads the stored row afterwards.

DECIMALS:
  SQLite stores decimals as TEXT, PostgreSQL as NUMERIC. Both scan into
  decimal.Decimal. Arithmetic on stored decimals is done in Go, never in SQL.

MIGRATIONS:
  Embedded goose migrations per dialect (migrations/sqlite,
  migrations/postgres), applied by Open unless disabled.

USAGE:
  store, err := sqlstore.Open(ctx, sqlstore.Config{Driver: "sqlite", DSN: "hr.db"})
  if err != nil {
      return err
  }
  defer store.Close()

  svc := timeoff.NewRequestService(store.TimeOff())

SEE ALSO:
  - timeoff/store.go: Time-off persistence interface
  - payroll/service.go: Salary persistence interface
  - store/memory: In-memory implementation for tests
*/
package sqlstore

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*/*.sql
var migrations embed.FS

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Config selects the driver and connection string.
type Config struct {
	Driver string // "sqlite" (default) or "postgres"
	DSN    string // file path or ":memory:" for sqlite, URL for postgres

	// SkipMigrations leaves the schema alone on Open.
	SkipMigrations bool
}

// Store implements all storage interfaces on one *sqlx.DB.
type Store struct {
	queries
	db *sqlx.DB
}

// Open connects, configures the pool for the dialect and applies migrations.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	dialect, err := ParseDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}

	var db *sqlx.DB
	switch dialect {
	case DialectPostgres:
		db, err = sqlx.Open("pgx", cfg.DSN)
	default:
		db, err = sqlx.Open("sqlite3", sqliteDSN(cfg.DSN))
		if err == nil {
			// One connection: serializes writers and keeps ":memory:" a
			// single database.
			db.SetMaxOpenConns(1)
			db.SetConnMaxLifetime(0)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{queries: queries{q: db, dialect: dialect}, db: db}
	if !cfg.SkipMigrations {
		if err := s.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}
	return s, nil
}

func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "postgresql", "pgx":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

func sqliteDSN(path string) string {
	if path == "" {
		path = "hr-engine.db"
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate"
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Dialect() Dialect {
	return s.dialect
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// withTx executes fn with queries bound to one database transaction.
// If fn returns error, the transaction is rolled back.
func (s *Store) withTx(ctx context.Context, fn func(queries) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(queries{q: tx, dialect: s.dialect}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Reset deletes all rows. Used by the demo scenarios.
func (s *Store) Reset(ctx context.Context) error {
	return s.withTx(ctx, func(q queries) error {
		for _, table := range []string{
			"salary_structures", "timeoff_requests", "timeoff_balances", "timeoff_types", "employees",
		} {
			if _, err := q.q.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("reset %s: %w", table, err)
			}
		}
		return nil
	})
}

// =============================================================================
// MIGRATIONS
// =============================================================================

func (s *Store) provider() (*goose.Provider, error) {
	sub, err := fs.Sub(migrations, "migrations/"+string(s.dialect))
	if err != nil {
		return nil, err
	}
	dialect := goose.DialectSQLite3
	if s.dialect == DialectPostgres {
		dialect = goose.DialectPostgres
	}
	return goose.NewProvider(dialect, s.db.DB, sub)
}

// Migrate applies all pending migrations.
func (s *Store) Migrate(ctx context.Context) error {
	p, err := s.provider()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// MigrateDown rolls back the most recent migration.
func (s *Store) MigrateDown(ctx context.Context) error {
	p, err := s.provider()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	if _, err := p.Down(ctx); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

// MigrationStatus describes one migration for the CLI.
type MigrationStatus struct {
	Version int64
	Path    string
	Applied bool
}

func (s *Store) MigrationStatus(ctx context.Context) ([]MigrationStatus, error) {
	p, err := s.provider()
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	statuses, err := p.Status(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MigrationStatus, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, MigrationStatus{
			Version: st.Source.Version,
			Path:    st.Source.Path,
			Applied: st.State == goose.StateApplied,
		})
	}
	return out, nil
}
