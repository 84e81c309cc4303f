// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package vote implements vote casting and retrieval. A vote references
// a user and an option but owns neither.
package vote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"codeberg.org/oliverandrich/pollster/internal/models"
	"codeberg.org/oliverandrich/pollster/internal/repository"
)

var (
	ErrAlreadyVoted   = errors.New("user already voted for this option")
	ErrUserNotFound   = errors.New("user not found")
	ErrOptionNotFound = errors.New("option not found")
	ErrNotFound       = errors.New("vote not found")
)

// Model is the domain-facing vote representation.
type Model struct {
	UserID   int64
	OptionID int64
	VoteDate time.Time
}

// Service enforces vote invariants on top of the repository.
type Service struct {
	repo *repository.Repository
}

// NewService creates a new vote service.
func NewService(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// Cast records a vote by a user on an option. Both must exist; voting
// twice on the same option fails with ErrAlreadyVoted.
func (s *Service) Cast(ctx context.Context, userID, optionID int64) error {
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	if _, err := s.repo.GetOptionByID(ctx, optionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOptionNotFound
		}
		return fmt.Errorf("failed to get option: %w", err)
	}

	if err := s.repo.CreateVote(ctx, userID, optionID); err != nil {
		switch {
		case errors.Is(err, repository.ErrUniqueViolation):
			return ErrAlreadyVoted
		case errors.Is(err, repository.ErrForeignKeyViolation):
			// The option or user vanished between the check and the
			// insert. Fails closed.
			return ErrOptionNotFound
		}
		return fmt.Errorf("failed to create vote: %w", err)
	}

	slog.Info("vote_cast", "user_id", userID, "option_id", optionID)
	return nil
}

// ListByPoll returns all votes cast on a poll.
func (s *Service) ListByPoll(ctx context.Context, pollID int64) ([]Model, error) {
	entities, err := s.repo.GetVotesByPoll(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	return toModels(entities), nil
}

// ListByUser returns all votes cast by a user.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]Model, error) {
	entities, err := s.repo.GetVotesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	return toModels(entities), nil
}

// ListByUserAndPoll returns the votes a user has cast on one poll.
func (s *Service) ListByUserAndPoll(ctx context.Context, userID, pollID int64) ([]Model, error) {
	entities, err := s.repo.GetVotesByUserAndPoll(ctx, userID, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	return toModels(entities), nil
}

// Retract removes a user's vote on an option.
func (s *Service) Retract(ctx context.Context, userID, optionID int64) error {
	if err := s.repo.DeleteVote(ctx, userID, optionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete vote: %w", err)
	}
	slog.Info("vote_retracted", "user_id", userID, "option_id", optionID)
	return nil
}

func toModels(entities []models.Vote) []Model {
	votes := make([]Model, len(entities))
	for i, entity := range entities {
		votes[i] = Model{UserID: entity.UserID, OptionID: entity.OptionID, VoteDate: entity.VoteDate}
	}
	return votes
}
