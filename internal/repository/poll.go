// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/oliverandrich/pollster/internal/models"
)

// CreatePoll inserts a poll and its options as one transaction. A
// (user_id, tag) or (text, poll_id) conflict surfaces as
// ErrUniqueViolation, an unknown owner as ErrForeignKeyViolation.
func (r *Repository) CreatePoll(ctx context.Context, name, tag string, userID int64, anonymousVoting, multipleChoice bool, options []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO polls (name, tag, user_id, creation_date, anonymous_voting, multiple_choice)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		name, tag, userID, time.Now().UTC(), anonymousVoting, multipleChoice)
	if err != nil {
		return wrapError(err)
	}

	pollID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to resolve poll id: %w", err)
	}

	for _, text := range options {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO options (text, poll_id) VALUES (?, ?)`,
			text, pollID); err != nil {
			return wrapError(err)
		}
	}

	return tx.Commit()
}

// GetPollByID retrieves a poll by ID.
func (r *Repository) GetPollByID(ctx context.Context, id int64) (*models.Poll, error) {
	var poll models.Poll
	err := r.db.GetContext(ctx, &poll,
		`SELECT id, name, tag, user_id, creation_date, anonymous_voting, multiple_choice
		 FROM polls WHERE id = ?`, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &poll, nil
}

// GetPollByOwnerAndTag retrieves the poll identified by the unique
// (user_id, tag) pair.
func (r *Repository) GetPollByOwnerAndTag(ctx context.Context, userID int64, tag string) (*models.Poll, error) {
	var poll models.Poll
	err := r.db.GetContext(ctx, &poll,
		`SELECT id, name, tag, user_id, creation_date, anonymous_voting, multiple_choice
		 FROM polls WHERE user_id = ? AND tag = ?`, userID, tag)
	if err != nil {
		return nil, wrapError(err)
	}
	return &poll, nil
}

// GetPollsByOwner returns all polls owned by a user.
func (r *Repository) GetPollsByOwner(ctx context.Context, userID int64) ([]models.Poll, error) {
	var polls []models.Poll
	err := r.db.SelectContext(ctx, &polls,
		`SELECT id, name, tag, user_id, creation_date, anonymous_voting, multiple_choice
		 FROM polls WHERE user_id = ? ORDER BY id`, userID)
	return polls, wrapError(err)
}

// GetOptionsForPoll returns a poll's options in insertion order.
func (r *Repository) GetOptionsForPoll(ctx context.Context, pollID int64) ([]models.Option, error) {
	var options []models.Option
	err := r.db.SelectContext(ctx, &options,
		`SELECT id, text, poll_id FROM options WHERE poll_id = ? ORDER BY id`, pollID)
	return options, wrapError(err)
}

// GetOptionByID retrieves a single option.
func (r *Repository) GetOptionByID(ctx context.Context, id int64) (*models.Option, error) {
	var option models.Option
	err := r.db.GetContext(ctx, &option,
		`SELECT id, text, poll_id FROM options WHERE id = ?`, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &option, nil
}

// DeletePoll deletes a poll by ID. Options and votes cascade.
func (r *Repository) DeletePoll(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM polls WHERE id = ?`, id)
	return wrapError(err)
}
