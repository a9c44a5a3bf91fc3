package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var tokenPattern = regexp.MustCompile(`^VIST_[A-Z0-9]{12}_\d{8}_\d{6}$`)

func TestNewTokenFormat(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	token, err := NewToken(now)
	require.NoError(t, err)
	require.Regexp(t, tokenPattern, token)
	require.Contains(t, token, "_20250314_150926")
}

func TestNewTokenUniqueness(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		token, err := NewToken(now)
		require.NoError(t, err)
		require.False(t, seen[token], "duplicate token after %d draws: %s", i, token)
		seen[token] = true
	}
}
