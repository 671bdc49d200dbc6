package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := GenerateSessionToken("sid-1", time.Hour, "secret")
	require.NoError(t, err)

	sid, err := ParseSessionToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "sid-1", sid)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	token, err := GenerateSessionToken("sid-1", time.Hour, "secret")
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "other")
	assert.Error(t, err)
}

func TestSessionTokenExpired(t *testing.T) {
	token, err := GenerateSessionToken("sid-1", -time.Minute, "secret")
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "secret")
	assert.Error(t, err)
}

func TestGenerateRandomString(t *testing.T) {
	a, err := GenerateRandomString(32)
	require.NoError(t, err)
	b, err := GenerateRandomString(32)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^[a-zA-Z0-9]{32}$`, a)

	// Every symbol of the alphabet is reachable.
	long, err := GenerateRandomString(4096)
	require.NoError(t, err)
	for _, c := range "xyz789" {
		assert.Contains(t, long, string(c))
	}
}
