// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"

	"codeberg.org/oliverandrich/pollster/internal/database"
	"codeberg.org/oliverandrich/pollster/internal/repository"
)

// NewTestDB creates an in-memory SQLite database with migrations
// applied. Returns both the connection and the repository.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, repository.New(db)
}

// NewTestUser inserts a user row directly and returns its ID. The
// password hash is stored as given; use the user service when real
// credential verification is needed.
func NewTestUser(t *testing.T, repo *repository.Repository, name, passwordHash string) int64 {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.CreateUser(ctx, name, passwordHash))
	entity, err := repo.GetUserByName(ctx, name)
	require.NoError(t, err)
	return entity.ID
}

// NewTestPoll inserts a poll with options and returns its ID.
func NewTestPoll(t *testing.T, repo *repository.Repository, ownerID int64, name, tag string, options ...string) int64 {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.CreatePoll(ctx, name, tag, ownerID, false, false, options))
	entity, err := repo.GetPollByOwnerAndTag(ctx, ownerID, tag)
	require.NoError(t, err)
	return entity.ID
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}
