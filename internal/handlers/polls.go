// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"codeberg.org/oliverandrich/pollster/internal/services/poll"
)

type createPollRequest struct {
	Name            string   `json:"name"`
	Tag             string   `json:"tag"`
	AnonymousVoting bool     `json:"anonymous_voting"`
	MultipleChoice  bool     `json:"multiple_choice"`
	Options         []string `json:"options"`
}

type optionResponse struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

type pollResponse struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	Tag             string           `json:"tag"`
	OwnerID         int64            `json:"owner_id"`
	CreationDate    time.Time        `json:"creation_date"`
	AnonymousVoting bool             `json:"anonymous_voting"`
	MultipleChoice  bool             `json:"multiple_choice"`
	Options         []optionResponse `json:"options"`
}

// CreatePoll creates a poll owned by the authenticated user.
func (h *Handlers) CreatePoll(c echo.Context) error {
	var req createPollRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	created, err := h.polls.Create(c.Request().Context(), poll.CreateParams{
		Name:            req.Name,
		Tag:             req.Tag,
		OwnerID:         authedUserID(c),
		AnonymousVoting: req.AnonymousVoting,
		MultipleChoice:  req.MultipleChoice,
		Options:         req.Options,
	})
	if err != nil {
		switch {
		case errors.Is(err, poll.ErrExists):
			return echo.NewHTTPError(http.StatusConflict, "poll already exists")
		case errors.Is(err, poll.ErrOwnerNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "owner not found")
		}
		return err
	}
	return c.JSON(http.StatusCreated, toPollResponse(created))
}

// ListPolls returns the authenticated user's polls. With ?tag= it
// returns the single poll matching the (owner, tag) pair.
func (h *Handlers) ListPolls(c echo.Context) error {
	ownerID := authedUserID(c)

	if tag := c.QueryParam("tag"); tag != "" {
		found, err := h.polls.GetByOwnerAndTag(c.Request().Context(), ownerID, tag)
		if err != nil {
			return err
		}
		if found == nil {
			return echo.NewHTTPError(http.StatusNotFound, "poll not found")
		}
		return c.JSON(http.StatusOK, toPollResponse(found))
	}

	polls, err := h.polls.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPollResponses(polls))
}

// GetPoll returns a poll with its options.
func (h *Handlers) GetPoll(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	found, err := h.polls.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if found == nil {
		return echo.NewHTTPError(http.StatusNotFound, "poll not found")
	}
	return c.JSON(http.StatusOK, toPollResponse(found))
}

// DeletePoll deletes a poll owned by the authenticated user.
func (h *Handlers) DeletePoll(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.polls.Delete(c.Request().Context(), id, authedUserID(c)); err != nil {
		switch {
		case errors.Is(err, poll.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "poll not found")
		case errors.Is(err, poll.ErrNotAllowed):
			return echo.NewHTTPError(http.StatusForbidden, "forbidden")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func toPollResponse(p *poll.Model) pollResponse {
	options := make([]optionResponse, len(p.Options))
	for i, opt := range p.Options {
		options[i] = optionResponse{ID: opt.ID, Text: opt.Text}
	}
	return pollResponse{
		ID:              p.ID,
		Name:            p.Name,
		Tag:             p.Tag,
		OwnerID:         p.OwnerID,
		CreationDate:    p.CreationDate,
		AnonymousVoting: p.AnonymousVoting,
		MultipleChoice:  p.MultipleChoice,
		Options:         options,
	}
}

func toPollResponses(polls []poll.Model) []pollResponse {
	resp := make([]pollResponse, len(polls))
	for i := range polls {
		resp[i] = toPollResponse(&polls[i])
	}
	return resp
}
