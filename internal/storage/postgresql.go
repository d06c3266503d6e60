// Package storage implements the PostgreSQL-backed credential store.
// It provides creation, lookup and profile updates for users; username
// uniqueness is enforced by the database, not by application checks.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Registers the pgx driver for use with database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Sentinel errors of the credential store.
var (
	// ErrUserExists is returned when an insert violates the username
	// uniqueness constraint.
	ErrUserExists = errors.New("username already exists")
	// ErrUserNotFound is returned when no user matches the lookup key.
	ErrUserNotFound = errors.New("user not found")
)

// Storage wraps the PostgreSQL connection pool and implements the user
// repository.
type Storage struct {
	DB *sql.DB
}

// New opens a PostgreSQL connection pool and verifies connectivity.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady verifies that the users table exists.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'users'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table users missing or query error: %w", err)
	}
	return nil
}
