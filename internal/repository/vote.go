// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/pollster/internal/models"
)

// CreateVote records a vote. A repeat vote on the same option surfaces
// as ErrUniqueViolation (the pair is the primary key), a missing user
// or option as ErrForeignKeyViolation.
func (r *Repository) CreateVote(ctx context.Context, userID, optionID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO votes (user_id, option_id, vote_date) VALUES (?, ?, ?)`,
		userID, optionID, time.Now().UTC())
	return wrapError(err)
}

// GetVotesByPoll returns all votes cast on a poll's options.
func (r *Repository) GetVotesByPoll(ctx context.Context, pollID int64) ([]models.Vote, error) {
	var votes []models.Vote
	err := r.db.SelectContext(ctx, &votes,
		`SELECT votes.user_id, votes.option_id, votes.vote_date FROM votes
		 JOIN options ON votes.option_id = options.id
		 WHERE options.poll_id = ?
		 ORDER BY votes.vote_date, votes.option_id`, pollID)
	return votes, wrapError(err)
}

// GetVotesByUser returns all votes cast by a user.
func (r *Repository) GetVotesByUser(ctx context.Context, userID int64) ([]models.Vote, error) {
	var votes []models.Vote
	err := r.db.SelectContext(ctx, &votes,
		`SELECT user_id, option_id, vote_date FROM votes
		 WHERE user_id = ? ORDER BY vote_date, option_id`, userID)
	return votes, wrapError(err)
}

// GetVotesByUserAndPoll returns the votes a user has cast on one poll.
func (r *Repository) GetVotesByUserAndPoll(ctx context.Context, userID, pollID int64) ([]models.Vote, error) {
	var votes []models.Vote
	err := r.db.SelectContext(ctx, &votes,
		`SELECT votes.user_id, votes.option_id, votes.vote_date FROM votes
		 JOIN options ON votes.option_id = options.id
		 WHERE options.poll_id = ? AND votes.user_id = ?
		 ORDER BY votes.vote_date, votes.option_id`, pollID, userID)
	return votes, wrapError(err)
}

// DeleteVote removes a user's vote on an option.
func (r *Repository) DeleteVote(ctx context.Context, userID, optionID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM votes WHERE user_id = ? AND option_id = ?`,
		userID, optionID)
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
