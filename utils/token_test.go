package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInviteTokenFormat(t *testing.T) {
	token, err := NewInviteToken()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), token)
}

func TestNewInviteTokenUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		token, err := NewInviteToken()
		require.NoError(t, err)
		require.False(t, seen[token])
		seen[token] = true
	}
}
