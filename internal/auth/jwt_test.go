package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/opsdesk/internal/config"
)

func TestJWTRoundTrip(t *testing.T) {
	config.AppConfig.JWTSecret = "round-trip-secret"

	token, err := GenerateJWT("operator")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "operator", subject)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	config.AppConfig.JWTSecret = "round-trip-secret"

	_, err := ValidateJWT("this-is-not-a-jwt")
	assert.Error(t, err)
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	config.AppConfig.JWTSecret = "secret-one"
	token, err := GenerateJWT("operator")
	require.NoError(t, err)

	config.AppConfig.JWTSecret = "secret-two"
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}
