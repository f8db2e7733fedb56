// Package pg implements the credential store and the post aggregate on
// PostgreSQL.
//
// Conventions:
//   - Public methods satisfy the service storage interfaces and manage
//     transactions; internal methods accept a Querier and are
//     transaction-agnostic.
//   - Aggregate mutations (reaction toggles, comment writes) lock the
//     owning post row with SELECT ... FOR UPDATE so concurrent calls
//     serialize and counter invariants hold.
package pg

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/pulsepost-dev/pulsepost/internal/config"
	"github.com/pulsepost-dev/pulsepost/internal/logger"

	_ "github.com/lib/pq" // registers the postgres driver
)

//go:embed migrations/init.sql
var initSQL string

const queryTimeout = 5 * time.Second

// Querier is satisfied by both *sql.DB and *sql.Tx, letting the same
// query logic run inside and outside transactions.
type Querier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

type Storage struct {
	db *sql.DB
}

func New(cfg *config.Config) (*Storage, error) {
	logger.Log.Info("connecting to postgres", "host", cfg.Private.Pg.Host, "dbname", cfg.Private.Pg.Dbname)
	db, err := Connect(cfg)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("connected to postgres")
	return &Storage{db}, nil
}

func Connect(cfg *config.Config) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Private.Pg.Host, cfg.Private.Pg.Port,
		cfg.Private.Pg.User, cfg.Private.Pg.Password,
		cfg.Private.Pg.Dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Bootstrap applies the schema. Statements are idempotent
// (CREATE TABLE IF NOT EXISTS) so it is safe to run on every start.
func (s *Storage) Bootstrap(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, initSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Ping reports datastore reachability, used by the readiness probe.
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

// withTx executes fn inside a transaction. Rollback is a no-op after a
// successful commit.
func (s *Storage) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
