// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/oliverandrich/pollster/internal/services/user"
	"codeberg.org/oliverandrich/pollster/internal/testutil"
)

func newService(t *testing.T) *user.Service {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	return user.NewService(repo)
}

func TestCreate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", "pw1")

	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "alice", created.Name)
}

func TestCreate_NormalizesName(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "  Bob ", "pw1")

	require.NoError(t, err)
	assert.Equal(t, "bob", created.Name)
}

func TestCreate_NameTooShort(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for _, name := range []string{"", "a", "ab"} {
		_, err := svc.Create(ctx, name, "pw1")
		assert.ErrorIs(t, err, user.ErrNameTooShort, "name %q", name)
	}
}

func TestCreate_NameInvalidChars(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for _, name := range []string{"a b", "ab!", "böb", "a.c", "abc$"} {
		_, err := svc.Create(ctx, name, "pw1")
		assert.ErrorIs(t, err, user.ErrNameInvalidChars, "name %q", name)
	}
}

func TestCreate_MinimalValidNames(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for _, name := range []string{"abc", "a-1", "x_0"} {
		created, err := svc.Create(ctx, name, "pw1")
		require.NoError(t, err, "name %q", name)
		assert.Equal(t, name, created.Name)
	}
}

func TestCreate_Duplicate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", "pw1")
	require.NoError(t, err)

	// Same normalized name, different spelling.
	_, err = svc.Create(ctx, "ALICE", "pw2")

	assert.ErrorIs(t, err, user.ErrExists)
}

func TestGet(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", "pw1")
	require.NoError(t, err)

	byID, err := svc.Get(ctx, user.ByID(created.ID))
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, created.ID, byID.ID)

	byName, err := svc.Get(ctx, user.ByName("alice"))
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, created.ID, byName.ID)
}

func TestGet_AbsentIsNotAnError(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	found, err := svc.Get(ctx, user.ByName("nobody"))

	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestList(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	alice, err := svc.Create(ctx, "alice", "pw1")
	require.NoError(t, err)
	bob, err := svc.Create(ctx, "bob", "pw2")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "carol", "pw3")
	require.NoError(t, err)

	all, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := svc.List(ctx, []int64{alice.ID, bob.ID})
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, "alice", filtered[0].Name)
	assert.Equal(t, "bob", filtered[1].Name)
}

func TestLogin(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", "pw1")
	require.NoError(t, err)

	logged, err := svc.Login(ctx, user.ByName("alice"), "pw1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, logged.ID)

	_, err = svc.Login(ctx, user.ByName("alice"), "wrong")
	assert.ErrorIs(t, err, user.ErrWrongCredentials)

	_, err = svc.Login(ctx, user.ByName("nobody"), "pw1")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestChangePassword(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", "pw1")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, created.ID, "pw1", "pw2")
	require.NoError(t, err)

	_, err = svc.Login(ctx, user.ByName("alice"), "pw1")
	assert.ErrorIs(t, err, user.ErrWrongCredentials)
	_, err = svc.Login(ctx, user.ByName("alice"), "pw2")
	assert.NoError(t, err)
}

func TestChangePassword_WrongCurrentPassword(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", "pw1")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, created.ID, "wrong", "pw2")
	assert.ErrorIs(t, err, user.ErrWrongCredentials)

	// The stored hash must be untouched.
	_, err = svc.Login(ctx, user.ByName("alice"), "pw1")
	assert.NoError(t, err)
}

func TestChangePassword_UnknownUser(t *testing.T) {
	svc := newService(t)

	err := svc.ChangePassword(context.Background(), 999, "pw1", "pw2")

	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestChangeUsername(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", "pw1")
	require.NoError(t, err)

	err = svc.ChangeUsername(ctx, created.ID, "pw1", "alicia")
	require.NoError(t, err)

	found, err := svc.Get(ctx, user.ByName("alicia"))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
}

func TestChangeUsername_CollisionHitsStoreConstraint(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", "pw1")
	require.NoError(t, err)
	bob, err := svc.Create(ctx, "bob", "pw2")
	require.NoError(t, err)

	err = svc.ChangeUsername(ctx, bob.ID, "pw2", "alice")

	assert.ErrorIs(t, err, user.ErrExists)
}

func TestChangeUsername_WrongPassword(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", "pw1")
	require.NoError(t, err)

	err = svc.ChangeUsername(ctx, created.ID, "wrong", "alicia")
	assert.ErrorIs(t, err, user.ErrWrongCredentials)

	// No rename happened.
	found, err := svc.Get(ctx, user.ByName("alice"))
	require.NoError(t, err)
	assert.NotNil(t, found)
}

func TestDelete(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", "pw1")
	require.NoError(t, err)

	err = svc.Delete(ctx, created.ID, "pw1")
	require.NoError(t, err)

	found, err := svc.Get(ctx, user.ByID(created.ID))
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestDelete_WrongPasswordLeavesUser(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", "pw1")
	require.NoError(t, err)

	err = svc.Delete(ctx, created.ID, "wrong")
	assert.ErrorIs(t, err, user.ErrWrongCredentials)

	found, err := svc.Get(ctx, user.ByID(created.ID))
	require.NoError(t, err)
	assert.NotNil(t, found)
}
