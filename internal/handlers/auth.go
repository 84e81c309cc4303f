// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"codeberg.org/oliverandrich/pollster/internal/services/token"
	"codeberg.org/oliverandrich/pollster/internal/services/user"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login validates credentials and issues a signed token. Every
// credential failure maps to the same 401 so the response does not leak
// whether the user exists.
func (h *Handlers) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	issued, err := h.tokens.Issue(c.Request().Context(), user.ByName(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, token.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{Token: issued})
}
