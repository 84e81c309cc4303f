// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"codeberg.org/oliverandrich/pollster/internal/services/vote"
)

type voteResponse struct {
	UserID   int64     `json:"user_id"`
	OptionID int64     `json:"option_id"`
	VoteDate time.Time `json:"vote_date"`
}

// CastVote records a vote by the authenticated user on an option.
func (h *Handlers) CastVote(c echo.Context) error {
	optionID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	userID := authedUserID(c)
	if err := h.votes.Cast(c.Request().Context(), userID, optionID); err != nil {
		switch {
		case errors.Is(err, vote.ErrOptionNotFound), errors.Is(err, vote.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "option not found")
		case errors.Is(err, vote.ErrAlreadyVoted):
			return echo.NewHTTPError(http.StatusConflict, "already voted")
		}
		return err
	}
	return c.NoContent(http.StatusCreated)
}

// RetractVote removes the authenticated user's vote on an option.
func (h *Handlers) RetractVote(c echo.Context) error {
	optionID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.votes.Retract(c.Request().Context(), authedUserID(c), optionID); err != nil {
		if errors.Is(err, vote.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "vote not found")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListPollVotes returns all votes cast on a poll.
func (h *Handlers) ListPollVotes(c echo.Context) error {
	pollID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	votes, err := h.votes.ListByPoll(c.Request().Context(), pollID)
	if err != nil {
		return err
	}

	resp := make([]voteResponse, len(votes))
	for i, v := range votes {
		resp[i] = voteResponse{UserID: v.UserID, OptionID: v.OptionID, VoteDate: v.VoteDate}
	}
	return c.JSON(http.StatusOK, resp)
}
