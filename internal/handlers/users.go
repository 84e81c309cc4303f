// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"codeberg.org/oliverandrich/pollster/internal/services/user"
)

type createUserRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type userResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type changeUsernameRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type deleteUserRequest struct {
	Password string `json:"password"`
}

// CreateUser registers a new user.
func (h *Handlers) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	created, err := h.users.Create(c.Request().Context(), req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNameTooShort), errors.Is(err, user.ErrNameInvalidChars):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, user.ErrExists):
			return echo.NewHTTPError(http.StatusConflict, "user already exists")
		}
		return err
	}

	return c.JSON(http.StatusCreated, userResponse{ID: created.ID, Name: created.Name})
}

// ListUsers returns all users.
func (h *Handlers) ListUsers(c echo.Context) error {
	users, err := h.users.List(c.Request().Context(), nil)
	if err != nil {
		return err
	}

	resp := make([]userResponse, len(users))
	for i, u := range users {
		resp[i] = userResponse{ID: u.ID, Name: u.Name}
	}
	return c.JSON(http.StatusOK, resp)
}

// GetUser returns a single user by ID.
func (h *Handlers) GetUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	found, err := h.users.Get(c.Request().Context(), user.ByID(id))
	if err != nil {
		return err
	}
	if found == nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, userResponse{ID: found.ID, Name: found.Name})
}

// UpdateUser changes a user's name, gated on their current password.
func (h *Handlers) UpdateUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req changeUsernameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.users.ChangeUsername(c.Request().Context(), id, req.Password, req.Name); err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		case errors.Is(err, user.ErrWrongCredentials):
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		case errors.Is(err, user.ErrExists):
			return echo.NewHTTPError(http.StatusConflict, "user already exists")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ChangePassword stores a new password, gated on the current one.
func (h *Handlers) ChangePassword(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.users.ChangePassword(c.Request().Context(), id, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		case errors.Is(err, user.ErrWrongCredentials):
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteUser removes a user, gated on their current password.
func (h *Handlers) DeleteUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req deleteUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.users.Delete(c.Request().Context(), id, req.Password); err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		case errors.Is(err, user.ErrWrongCredentials):
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListUserPolls returns the polls owned by a user.
func (h *Handlers) ListUserPolls(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	polls, err := h.polls.ListByOwner(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPollResponses(polls))
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
