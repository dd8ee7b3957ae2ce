package relationaldb

import "errors"

// Error values for different categories of database failures. Repositories
// translate driver errors into these so callers never match on driver
// internals.
var (
	// Configuration errors
	ErrMissingURL             = errors.New("database url is required")
	ErrInvalidMaxOpenConns    = errors.New("max open connections must be >= 0")
	ErrInvalidMaxIdleConns    = errors.New("max idle connections must be >= 0")
	ErrMaxIdleExceedsMaxOpen  = errors.New("max idle connections cannot exceed max open connections")
	ErrInvalidTimeout         = errors.New("timeout must be positive")
	ErrInvalidConnMaxLifetime = errors.New("connection max lifetime must be >= 0")

	// Connection errors
	ErrDatabaseClosed   = errors.New("database connection is closed")
	ErrConnectionFailed = errors.New("failed to connect to database")

	// Transaction errors
	ErrTransactionClosed       = errors.New("transaction is closed")
	ErrTransactionCommitFailed = errors.New("transaction commit failed")

	// Constraint errors
	ErrConstraintViolation = errors.New("database constraint violation")
	ErrUniqueViolation     = errors.New("unique constraint violation")
	ErrForeignKeyViolation = errors.New("foreign key constraint violation")
	ErrCheckViolation      = errors.New("check constraint violation")
)
