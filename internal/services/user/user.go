// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package user implements the identity lifecycle: registration, lookup,
// credential verification and the mutations gated on it. It is the only
// place where storage uniqueness violations become domain-level
// "already exists" failures.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"codeberg.org/oliverandrich/pollster/internal/models"
	"codeberg.org/oliverandrich/pollster/internal/password"
	"codeberg.org/oliverandrich/pollster/internal/repository"
)

var (
	ErrExists           = errors.New("user already exists")
	ErrNotFound         = errors.New("user not found")
	ErrWrongCredentials = errors.New("wrong credentials")
	ErrNameTooShort     = errors.New("username must be at least 3 characters long")
	ErrNameInvalidChars = errors.New("username may only contain a-z, 0-9, _ and -")
	// ErrInconsistent signals that the store accepted a write but the
	// record could not be read back. Not retried; surfaced as internal.
	ErrInconsistent = errors.New("database inconsistency")
)

var namePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Model is the domain-facing user representation. It never carries the
// password hash.
type Model struct {
	ID   int64
	Name string
}

// Ref identifies a user either by ID or by name.
type Ref struct {
	id   int64
	name string
	byID bool
}

// ByID references a user by their numeric ID.
func ByID(id int64) Ref {
	return Ref{id: id, byID: true}
}

// ByName references a user by their name.
func ByName(name string) Ref {
	return Ref{name: name}
}

func (ref Ref) String() string {
	if ref.byID {
		return fmt.Sprintf("id=%d", ref.id)
	}
	return "name=" + ref.name
}

// Service enforces the user invariants on top of the repository.
type Service struct {
	repo *repository.Repository
}

// NewService creates a new user service.
func NewService(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new user. The name is lowercased and trimmed
// before validation and storage.
func (s *Service) Create(ctx context.Context, name, plaintext string) (*Model, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if err := validateName(name); err != nil {
		return nil, err
	}

	hash, err := password.Hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.CreateUser(ctx, name, hash); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, ErrExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Re-read what was just written. Absence here means the store
	// accepted the insert and lost it.
	entity, err := s.repo.GetUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInconsistent
		}
		return nil, fmt.Errorf("failed to read back user: %w", err)
	}

	slog.Info("user_created", "user_id", entity.ID, "name", entity.Name)
	return toModel(entity), nil
}

// Get looks up a user. Absence is not an error: the result is (nil, nil)
// and callers decide whether that matters.
func (s *Service) Get(ctx context.Context, ref Ref) (*Model, error) {
	entity, err := s.lookup(ctx, ref)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toModel(entity), nil
}

// List returns all users, or only those with the given ids when the
// filter is non-nil.
func (s *Service) List(ctx context.Context, ids []int64) ([]Model, error) {
	entities, err := s.repo.GetUsers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users := make([]Model, len(entities))
	for i := range entities {
		users[i] = *toModel(&entities[i])
	}
	return users, nil
}

// Delete removes a user after proof of their current password. The
// store is never touched when the proof fails.
func (s *Service) Delete(ctx context.Context, id int64, plaintext string) error {
	if _, err := s.verifyPassword(ctx, ByID(id), plaintext); err != nil {
		return err
	}
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	slog.Info("user_deleted", "user_id", id)
	return nil
}

// ChangePassword stores a new password hash after proof of the current
// password.
func (s *Service) ChangePassword(ctx context.Context, id int64, current, next string) error {
	entity, err := s.verifyPassword(ctx, ByID(id), current)
	if err != nil {
		return err
	}

	hash, err := password.Hash(next)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	entity.PasswordHash = hash

	if err := s.repo.UpdateUser(ctx, entity); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	slog.Info("password_changed", "user_id", id)
	return nil
}

// ChangeUsername stores a new name after proof of the current password.
// No uniqueness pre-check happens here; the store's constraint is the
// enforcement point and a collision surfaces as ErrExists.
func (s *Service) ChangeUsername(ctx context.Context, id int64, current, newName string) error {
	entity, err := s.verifyPassword(ctx, ByID(id), current)
	if err != nil {
		return err
	}

	entity.Name = newName
	if err := s.repo.UpdateUser(ctx, entity); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return ErrExists
		}
		return fmt.Errorf("failed to update username: %w", err)
	}
	slog.Info("username_changed", "user_id", id, "name", newName)
	return nil
}

// Login verifies credentials and returns the user on success.
func (s *Service) Login(ctx context.Context, ref Ref, plaintext string) (*Model, error) {
	entity, err := s.verifyPassword(ctx, ref, plaintext)
	if err != nil {
		return nil, err
	}
	slog.Info("login_success", "user_id", entity.ID, "name", entity.Name)
	return toModel(entity), nil
}

// verifyPassword resolves the user and proves the supplied password
// against the stored hash. Every mutating operation goes through here.
func (s *Service) verifyPassword(ctx context.Context, ref Ref, plaintext string) (*models.User, error) {
	entity, err := s.lookup(ctx, ref)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// A lookup miss must cost the same as a mismatch.
			password.CompareDummy(plaintext)
			slog.Warn("login_failed", "user", ref.String(), "reason", "user_not_found")
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !password.Verify(plaintext, entity.PasswordHash) {
		slog.Warn("login_failed", "user", ref.String(), "reason", "invalid_password")
		return nil, ErrWrongCredentials
	}
	return entity, nil
}

func (s *Service) lookup(ctx context.Context, ref Ref) (*models.User, error) {
	if ref.byID {
		return s.repo.GetUserByID(ctx, ref.id)
	}
	return s.repo.GetUserByName(ctx, ref.name)
}

func validateName(name string) error {
	if len(name) < 3 {
		return ErrNameTooShort
	}
	if !namePattern.MatchString(name) {
		return ErrNameInvalidChars
	}
	return nil
}

func toModel(entity *models.User) *Model {
	return &Model{ID: entity.ID, Name: entity.Name}
}
