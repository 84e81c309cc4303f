// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package repository provides data access for users, polls, options and
// votes. Driver-level constraint errors are translated into the three
// sentinel errors below before they cross the package boundary; callers
// never see SQLite vocabulary.
package repository

import (
	"database/sql"
	"errors"

	"github.com/vinovest/sqlx"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
	// ErrUniqueViolation is returned when an insert or update breaks a
	// uniqueness constraint.
	ErrUniqueViolation = errors.New("unique constraint violation")
	// ErrForeignKeyViolation is returned when a write references a row
	// that does not exist.
	ErrForeignKeyViolation = errors.New("foreign key constraint violation")
)

// Repository wraps the database handle. It holds no state of its own;
// every method operates within the scope of one call.
type Repository struct {
	db *sqlx.DB
}

// New creates a new Repository instance.
func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// DB returns the underlying handle for direct access.
func (r *Repository) DB() *sqlx.DB {
	return r.db
}

// wrapError converts driver errors to repository errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return ErrUniqueViolation
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return ErrForeignKeyViolation
		}
	}
	return err
}
