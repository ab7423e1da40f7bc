package store

import (
	"context"
	"testing"

	"github.com/01moynul/storefront-golang/internal/database"
	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// newTestStore returns a store backed by a fresh migrated in-memory database.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := database.OpenDB(database.SQLite, "file::memory:?_pragma=foreign_keys(1)&_time_format=sqlite")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.RunMigrations(db, database.SQLite))
	return New(db, database.SQLite)
}

func createTestUser(t *testing.T, s *Store, email string) *models.User {
	t.Helper()
	user, err := s.CreateUser(context.Background(), NewUser{
		Email:     email,
		Password:  "secret-password",
		FirstName: "Test",
		LastName:  "User",
	})
	require.NoError(t, err)
	return user
}

func createTestProduct(t *testing.T, s *Store, name, price, category string) *models.Product {
	t.Helper()
	p, err := s.CreateProduct(context.Background(), NewProduct{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Category:    category,
		Stock:       10,
	})
	require.NoError(t, err)
	return p
}

func countRows(t *testing.T, s *Store, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, s.db.QueryRow(query, args...).Scan(&n))
	return n
}
