// Package postgres implements the relationaldb interfaces on PostgreSQL
// via database/sql and lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/fightpurse/fightpursed/internal/storage/relationaldb"
)

// Database implements relationaldb.Database for PostgreSQL.
type Database struct {
	db     *sql.DB
	config *relationaldb.Config
}

// NewDatabase validates the configuration and returns an unopened database.
func NewDatabase(config *relationaldb.Config) (*Database, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}
	return &Database{config: config}, nil
}

// Open opens the connection pool and verifies connectivity.
func (d *Database) Open(ctx context.Context) error {
	sqlDB, err := sql.Open("postgres", d.config.URL)
	if err != nil {
		return fmt.Errorf("%w: %v", relationaldb.ErrConnectionFailed, err)
	}

	sqlDB.SetMaxOpenConns(d.config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(d.config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(d.config.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(d.config.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(ctx, d.config.DefaultTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return fmt.Errorf("%w: %v", relationaldb.ErrConnectionFailed, err)
	}

	d.db = sqlDB
	return nil
}

// Close closes the connection pool.
func (d *Database) Close() error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	return err
}

// Ping verifies the connection is alive.
func (d *Database) Ping(ctx context.Context) error {
	if d.db == nil {
		return relationaldb.ErrDatabaseClosed
	}
	ctx, cancel := context.WithTimeout(ctx, d.config.DefaultTimeout)
	defer cancel()
	return d.db.PingContext(ctx)
}

// Begin starts a transaction-scoped unit of work.
func (d *Database) Begin(ctx context.Context) (relationaldb.UnitOfWork, error) {
	if d.db == nil {
		return nil, relationaldb.ErrDatabaseClosed
	}
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &unitOfWork{tx: tx}, nil
}

// Migrate applies the baseline schema.
func (d *Database) Migrate() error {
	return runMigrations(d.config.URL)
}

var _ relationaldb.Database = (*Database)(nil)

// executor allows repositories to run on either *sql.DB or *sql.Tx.
type executor interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// translateError maps pq constraint failures onto the typed error catalog.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", relationaldb.ErrUniqueViolation, pqErr.Constraint)
		case "23503":
			return fmt.Errorf("%w: %s", relationaldb.ErrForeignKeyViolation, pqErr.Constraint)
		case "23514":
			return fmt.Errorf("%w: %s", relationaldb.ErrCheckViolation, pqErr.Constraint)
		case "23502", "23000":
			return fmt.Errorf("%w: %s", relationaldb.ErrConstraintViolation, pqErr.Constraint)
		}
	}
	return err
}
