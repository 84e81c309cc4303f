// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package models contains the storage entities. Entities carry every
// stored column, including the password hash; the domain-facing models
// that cross the service boundary live in the service packages and
// never include credential material.
package models

import "time"

// User is a row in the users table.
type User struct {
	ID           int64  `db:"id"`
	Name         string `db:"name"`
	PasswordHash string `db:"password_hash"`
}

// Poll is a row in the polls table.
type Poll struct {
	ID              int64     `db:"id"`
	Name            string    `db:"name"`
	Tag             string    `db:"tag"`
	UserID          int64     `db:"user_id"`
	CreationDate    time.Time `db:"creation_date"`
	AnonymousVoting bool      `db:"anonymous_voting"`
	MultipleChoice  bool      `db:"multiple_choice"`
}

// Option is a row in the options table.
type Option struct {
	ID     int64  `db:"id"`
	Text   string `db:"text"`
	PollID int64  `db:"poll_id"`
}

// Vote is a row in the votes table. The (UserID, OptionID) pair is the
// primary key; a user votes for an option at most once.
type Vote struct {
	UserID   int64     `db:"user_id"`
	OptionID int64     `db:"option_id"`
	VoteDate time.Time `db:"vote_date"`
}
