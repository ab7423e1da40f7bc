package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/database"
	"github.com/go-playground/validator/v10"
)

// Querier is implemented by both *sql.DB and *sql.Tx, so helpers can run
// inside or outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store owns every SQL statement of the application.
type Store struct {
	db       *sql.DB
	dialect  database.Dialect
	validate *validator.Validate
}

func New(db *sql.DB, dialect database.Dialect) *Store {
	return &Store{
		db:       db,
		dialect:  dialect,
		validate: newValidator(),
	}
}

// DB exposes the pool for health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

// withTx runs fn in a transaction, committing only if fn succeeds.
// Any error, panic or cancelled context leaves the transaction rolled back.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: s.isolation()})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() // Safety net

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) isolation() sql.IsolationLevel {
	if s.dialect == database.MySQL {
		return sql.LevelReadCommitted
	}
	// SQLite only accepts the default level through database/sql.
	return sql.LevelDefault
}
