// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"github.com/vinovest/sqlx"

	"codeberg.org/oliverandrich/pollster/internal/models"
)

// CreateUser inserts a new user. A duplicate name surfaces as
// ErrUniqueViolation.
func (r *Repository) CreateUser(ctx context.Context, name, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, password_hash) VALUES (?, ?)`,
		name, passwordHash)
	return wrapError(err)
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`SELECT id, name, password_hash FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUserByName retrieves a user by name.
func (r *Repository) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`SELECT id, name, password_hash FROM users WHERE name = ?`, name)
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUsers returns all users, or only those matching ids when a
// non-nil filter is given.
func (r *Repository) GetUsers(ctx context.Context, ids []int64) ([]models.User, error) {
	var users []models.User
	if ids == nil {
		err := r.db.SelectContext(ctx, &users,
			`SELECT id, name, password_hash FROM users ORDER BY id`)
		return users, wrapError(err)
	}
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	query, args, err := sqlx.In(
		`SELECT id, name, password_hash FROM users WHERE id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	err = r.db.SelectContext(ctx, &users, r.db.Rebind(query), args...)
	return users, wrapError(err)
}

// UpdateUser persists name and password hash for an existing user.
func (r *Repository) UpdateUser(ctx context.Context, user *models.User) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, password_hash = ? WHERE id = ?`,
		user.Name, user.PasswordHash, user.ID)
	if err != nil {
		return wrapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser deletes a user by ID. Owned polls, their options and the
// votes on those options go with it via the schema's cascades.
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return wrapError(err)
}
