package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("geheim123")
	require.NoError(t, err)
	assert.NotEqual(t, "geheim123", hash)

	assert.True(t, VerifyPassword(hash, "geheim123"))
	assert.False(t, VerifyPassword(hash, "falsch"))
}
