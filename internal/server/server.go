// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package server wires configuration, database, services and handlers
// into a running HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"

	"codeberg.org/oliverandrich/pollster/internal/config"
	"codeberg.org/oliverandrich/pollster/internal/database"
	"codeberg.org/oliverandrich/pollster/internal/handlers"
	"codeberg.org/oliverandrich/pollster/internal/repository"
	"codeberg.org/oliverandrich/pollster/internal/services/poll"
	"codeberg.org/oliverandrich/pollster/internal/services/token"
	"codeberg.org/oliverandrich/pollster/internal/services/user"
	"codeberg.org/oliverandrich/pollster/internal/services/vote"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"database", cfg.Database.DSN,
	)

	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	repo := repository.New(db)
	e := newEcho(cfg, repo)

	return startWithGracefulShutdown(ctx, e, cfg)
}

// newEcho builds the Echo instance with all services, middleware and
// routes attached to the given repository.
func newEcho(cfg *config.Config, repo *repository.Repository) *echo.Echo {
	users := user.NewService(repo)
	polls := poll.NewService(repo)
	votes := vote.NewService(repo)
	tokens := token.NewService([]byte(cfg.Token.Secret), users,
		time.Duration(cfg.Token.ValidityHours)*time.Hour)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	setupMiddleware(e, cfg)
	setupRoutes(e, handlers.New(users, polls, votes, tokens), tokens)

	return e
}

func setupRoutes(e *echo.Echo, h *handlers.Handlers, tokens *token.Service) {
	e.GET("/health", h.Health)

	e.POST("/auth/login", h.Login)

	e.POST("/users", h.CreateUser)
	e.GET("/users", h.ListUsers)
	e.GET("/users/:id", h.GetUser)
	e.PUT("/users/:id", h.UpdateUser)
	e.POST("/users/:id/change_password", h.ChangePassword)
	e.DELETE("/users/:id", h.DeleteUser)
	e.GET("/users/:id/polls", h.ListUserPolls)

	// Routes below require a verified token.
	authed := e.Group("", requireToken(tokens))
	authed.POST("/polls", h.CreatePoll)
	authed.GET("/polls", h.ListPolls)
	authed.GET("/polls/:id", h.GetPoll)
	authed.DELETE("/polls/:id", h.DeletePoll)
	authed.GET("/polls/:id/votes", h.ListPollVotes)
	authed.POST("/options/:id/votes", h.CastVote)
	authed.DELETE("/options/:id/votes", h.RetractVote)
}

func startWithGracefulShutdown(ctx context.Context, e *echo.Echo, cfg *config.Config) error {
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("server running", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	case sig := <-quit:
		slog.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
