package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vertrieb-backend/internal/config"
	"vertrieb-backend/internal/models"
)

func testConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.ExpirationHours = 24
	cfg.JWT.Issuer = "vertrieb-backend"
	return cfg
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewJWTManager(testConfig("test-secret"))

	user := &models.User{ID: 7, Email: "gl@example.com", Role: models.RoleGebietsleiter, IsActive: true}
	token, err := m.GenerateToken(user)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "gl@example.com", claims.Email)
	assert.Equal(t, models.RoleGebietsleiter, claims.Role)
	assert.True(t, claims.IsActive)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	token, err := NewJWTManager(testConfig("secret-a")).GenerateToken(&models.User{ID: 1})
	require.NoError(t, err)

	_, err = NewJWTManager(testConfig("secret-b")).ValidateToken(token)
	assert.Error(t, err)
}
