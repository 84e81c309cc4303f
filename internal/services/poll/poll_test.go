// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package poll_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/oliverandrich/pollster/internal/repository"
	"codeberg.org/oliverandrich/pollster/internal/services/poll"
	"codeberg.org/oliverandrich/pollster/internal/testutil"
)

func newService(t *testing.T) (*poll.Service, *repository.Repository) {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	return poll.NewService(repo), repo
}

func TestCreate(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	alice := testutil.NewTestUser(t, repo, "alice", "hash")

	created, err := svc.Create(ctx, poll.CreateParams{
		Name:    "Favorite color",
		Tag:     "colors",
		OwnerID: alice,
		Options: []string{"red", "blue", "green"},
	})

	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Favorite color", created.Name)
	assert.Equal(t, "colors", created.Tag)
	assert.Equal(t, alice, created.OwnerID)
	assert.False(t, created.CreationDate.IsZero())
	require.Len(t, created.Options, 3)
	// Insertion order.
	assert.Equal(t, "red", created.Options[0].Text)
	assert.Equal(t, "blue", created.Options[1].Text)
	assert.Equal(t, "green", created.Options[2].Text)
}

func TestCreate_Flags(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	alice := testutil.NewTestUser(t, repo, "alice", "hash")

	created, err := svc.Create(ctx, poll.CreateParams{
		Name:            "Lunch",
		Tag:             "lunch",
		OwnerID:         alice,
		AnonymousVoting: true,
		MultipleChoice:  true,
		Options:         []string{"pizza"},
	})

	require.NoError(t, err)
	assert.True(t, created.AnonymousVoting)
	assert.True(t, created.MultipleChoice)
}

func TestCreate_DuplicateTagSameOwner(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	alice := testutil.NewTestUser(t, repo, "alice", "hash")

	_, err := svc.Create(ctx, poll.CreateParams{
		Name: "First", Tag: "colors", OwnerID: alice, Options: []string{"red"},
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, poll.CreateParams{
		Name: "Second", Tag: "colors", OwnerID: alice, Options: []string{"blue"},
	})

	assert.ErrorIs(t, err, poll.ErrExists)
}

func TestCreate_SameTagDifferentOwners(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	alice := testutil.NewTestUser(t, repo, "alice", "hash")
	bob := testutil.NewTestUser(t, repo, "bob", "hash")

	_, err := svc.Create(ctx, poll.CreateParams{
		Name: "Alice's", Tag: "colors", OwnerID: alice, Options: []string{"red"},
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, poll.CreateParams{
		Name: "Bob's", Tag: "colors", OwnerID: bob, Options: []string{"blue"},
	})

	assert.NoError(t, err)
}

func TestCreate_UnknownOwner(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Create(context.Background(), poll.CreateParams{
		Name: "Orphan", Tag: "orphan", OwnerID: 999, Options: []string{"a"},
	})

	assert.ErrorIs(t, err, poll.ErrOwnerNotFound)
}

func TestGetByID_AbsentIsNotAnError(t *testing.T) {
	svc, _ := newService(t)

	found, err := svc.GetByID(context.Background(), 999)

	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestGetByOwnerAndTag(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	alice := testutil.NewTestUser(t, repo, "alice", "hash")

	created, err := svc.Create(ctx, poll.CreateParams{
		Name: "Colors", Tag: "colors", OwnerID: alice, Options: []string{"red", "blue"},
	})
	require.NoError(t, err)

	found, err := svc.GetByOwnerAndTag(ctx, alice, "colors")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
	assert.Len(t, found.Options, 2)

	absent, err := svc.GetByOwnerAndTag(ctx, alice, "missing")
	require.NoError(t, err)
	assert.Nil(t, absent)
}

func TestListByOwner(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	alice := testutil.NewTestUser(t, repo, "alice", "hash")
	bob := testutil.NewTestUser(t, repo, "bob", "hash")

	_, err := svc.Create(ctx, poll.CreateParams{
		Name: "One", Tag: "one", OwnerID: alice, Options: []string{"a", "b"},
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, poll.CreateParams{
		Name: "Two", Tag: "two", OwnerID: alice, Options: []string{"c"},
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, poll.CreateParams{
		Name: "Other", Tag: "other", OwnerID: bob, Options: []string{"d"},
	})
	require.NoError(t, err)

	polls, err := svc.ListByOwner(ctx, alice)

	require.NoError(t, err)
	require.Len(t, polls, 2)
	assert.Len(t, polls[0].Options, 2)
	assert.Len(t, polls[1].Options, 1)
}

func TestDelete_NotFound(t *testing.T) {
	svc, _ := newService(t)

	err := svc.Delete(context.Background(), 999, 1)

	assert.ErrorIs(t, err, poll.ErrNotFound)
}

func TestDelete_NotOwner(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	alice := testutil.NewTestUser(t, repo, "alice", "hash")
	bob := testutil.NewTestUser(t, repo, "bob", "hash")

	created, err := svc.Create(ctx, poll.CreateParams{
		Name: "Colors", Tag: "colors", OwnerID: alice, Options: []string{"red"},
	})
	require.NoError(t, err)

	err = svc.Delete(ctx, created.ID, bob)
	assert.ErrorIs(t, err, poll.ErrNotAllowed)

	// The poll survives a denied delete.
	found, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.NotNil(t, found)
}

func TestDelete_OwnerRemovesPollAndOptions(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	alice := testutil.NewTestUser(t, repo, "alice", "hash")

	created, err := svc.Create(ctx, poll.CreateParams{
		Name: "Colors", Tag: "colors", OwnerID: alice, Options: []string{"red", "blue"},
	})
	require.NoError(t, err)

	err = svc.Delete(ctx, created.ID, alice)
	require.NoError(t, err)

	found, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	options, err := repo.GetOptionsForPoll(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, options)
}
