// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("pw1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$2"))
	assert.True(t, Verify("pw1", hash))
	assert.False(t, Verify("pw2", hash))
	assert.False(t, Verify("pw1", "not a bcrypt hash"))
}

func TestHash_Salted(t *testing.T) {
	first, err := Hash("pw1")
	require.NoError(t, err)
	second, err := Hash("pw1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCompareDummy(t *testing.T) {
	// Must be callable with anything and never panic.
	CompareDummy("")
	CompareDummy("pw1")
}
