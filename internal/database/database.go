package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Dialect names the SQL flavour behind a connection pool.
type Dialect string

const (
	MySQL  Dialect = "mysql"
	SQLite Dialect = "sqlite"
)

// ParseDialect maps a DB_DRIVER value to a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch Dialect(driver) {
	case MySQL, SQLite:
		return Dialect(driver), nil
	}
	return "", fmt.Errorf("unsupported database driver %q", driver)
}

// LockClause is appended to SELECTs that must take a row lock.
// SQLite has no row locks; its pool is limited to one connection instead,
// which serializes every transaction.
func (d Dialect) LockClause() string {
	if d == MySQL {
		return " FOR UPDATE"
	}
	return ""
}

// OpenDB creates and configures a connection pool for the given dialect and
// verifies it with a ping.
func OpenDB(dialect Dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, err
	}

	switch dialect {
	case MySQL:
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	case SQLite:
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	log.Printf("Database connection pool established successfully (%s)", dialect)
	return db, nil
}
