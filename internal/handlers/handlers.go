// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package handlers contains the HTTP boundary: request/response schemas
// and the mapping from domain failures to status codes. The services
// never see HTTP vocabulary; this package is where it lives.
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"codeberg.org/oliverandrich/pollster/internal/services/poll"
	"codeberg.org/oliverandrich/pollster/internal/services/token"
	"codeberg.org/oliverandrich/pollster/internal/services/user"
	"codeberg.org/oliverandrich/pollster/internal/services/vote"
)

// Echo context keys set by the authentication middleware.
const (
	ContextUserID   = "auth_user_id"
	ContextUserName = "auth_user_name"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	users  *user.Service
	polls  *poll.Service
	votes  *vote.Service
	tokens *token.Service
}

// New creates a new Handlers instance.
func New(users *user.Service, polls *poll.Service, votes *vote.Service, tokens *token.Service) *Handlers {
	return &Handlers{users: users, polls: polls, votes: votes, tokens: tokens}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// authedUserID returns the user ID the middleware stored on the context.
func authedUserID(c echo.Context) int64 {
	id, _ := c.Get(ContextUserID).(int64)
	return id
}
