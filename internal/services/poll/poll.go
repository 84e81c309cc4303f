// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package poll implements the poll/option aggregate: creation as one
// unit, ownership enforcement on deletion, and translation of storage
// entities into domain models.
package poll

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
	ErrExists        = errors.New("poll already exists for this owner and tag")
	ErrNotFound      = errors.New("poll not found")
	ErrNotAllowed    = errors.New("poll is owned by a different user")
	ErrOwnerNotFound = errors.New("poll owner does not exist")
	ErrInconsistent  = errors.New("database inconsistency")
)

// Option is one votable choice of a poll.
type Option struct {
	ID   int64
	Text string
}

// Model is a poll together with its ordered option list. The aggregate
// is always read and returned as a unit.
type Model struct {
	ID              int64
	Name            string
	Tag             string
	OwnerID         int64
	CreationDate    time.Time
	AnonymousVoting bool
	MultipleChoice  bool
	Options         []Option
}

// CreateParams holds the parameters for poll creation.
type CreateParams struct {
	Name            string
	Tag             string
	OwnerID         int64
	AnonymousVoting bool
	MultipleChoice  bool
	Options         []string
}

// Service enforces the poll invariants on top of the repository.
type Service struct {
	repo *repository.Repository
}

// NewService creates a new poll service.
func NewService(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// Create inserts a poll and its options as one logical unit and returns
// the aggregate as read back from the store.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Model, error) {
	err := s.repo.CreatePoll(ctx, params.Name, params.Tag, params.OwnerID,
		params.AnonymousVoting, params.MultipleChoice, params.Options)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUniqueViolation):
			return nil, ErrExists
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("failed to create poll: %w", err)
	}

	created, err := s.GetByOwnerAndTag(ctx, params.OwnerID, params.Tag)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, ErrInconsistent
	}

	slog.Info("poll_created", "poll_id", created.ID, "owner_id", created.OwnerID, "tag", created.Tag)
	return created, nil
}

// ListByOwner returns all polls owned by a user, options attached.
func (s *Service) ListByOwner(ctx context.Context, ownerID int64) ([]Model, error) {
	entities, err := s.repo.GetPollsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}

	polls := make([]Model, 0, len(entities))
	for i := range entities {
		poll, err := s.withOptions(ctx, &entities[i])
		if err != nil {
			return nil, err
		}
		polls = append(polls, *poll)
	}
	return polls, nil
}

// GetByID returns the aggregate, or (nil, nil) when the poll is absent.
func (s *Service) GetByID(ctx context.Context, id int64) (*Model, error) {
	entity, err := s.repo.GetPollByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	return s.withOptions(ctx, entity)
}

// GetByOwnerAndTag returns the aggregate identified by the unique
// (owner, tag) pair, or (nil, nil) when absent.
func (s *Service) GetByOwnerAndTag(ctx context.Context, ownerID int64, tag string) (*Model, error) {
	entity, err := s.repo.GetPollByOwnerAndTag(ctx, ownerID, tag)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	return s.withOptions(ctx, entity)
}

// Delete removes a poll. Only the owner may delete it; options and
// votes cascade at the store level.
func (s *Service) Delete(ctx context.Context, pollID, requesterID int64) error {
	entity, err := s.repo.GetPollByID(ctx, pollID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get poll: %w", err)
	}
	if entity.UserID != requesterID {
		slog.Warn("poll_delete_denied", "poll_id", pollID, "owner_id", entity.UserID, "requester_id", requesterID)
		return ErrNotAllowed
	}

	if err := s.repo.DeletePoll(ctx, pollID); err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	slog.Info("poll_deleted", "poll_id", pollID, "owner_id", requesterID)
	return nil
}

func (s *Service) withOptions(ctx context.Context, entity *models.Poll) (*Model, error) {
	options, err := s.repo.GetOptionsForPoll(ctx, entity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get options: %w", err)
	}
	return toModel(entity, options), nil
}

func toModel(entity *models.Poll, options []models.Option) *Model {
	poll := &Model{
		ID:              entity.ID,
		Name:            entity.Name,
		Tag:             entity.Tag,
		OwnerID:         entity.UserID,
		CreationDate:    entity.CreationDate,
		AnonymousVoting: entity.AnonymousVoting,
		MultipleChoice:  entity.MultipleChoice,
		Options:         make([]Option, len(options)),
	}
	for i, opt := range options {
		poll.Options[i] = Option{ID: opt.ID, Text: opt.Text}
	}
	return poll
}
