package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT_Success(t *testing.T) {
	t.Parallel()

	secret := "super-secret"
	userID := "9c5b94b1-35ad-49bb-b118-8e8fc24abf80"
	email := "test@mail.com"

	token, err := GenerateJWT(userID, email, secret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, secret)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, email, claims.Email)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestParseJWT_Expired(t *testing.T) {
	t.Parallel()

	token, err := GenerateJWT("u1", "u1@mail.com", "secret", -1*time.Second)
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret")
	require.Error(t, err)
}

func TestParseJWT_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := GenerateJWT("u2", "u2@mail.com", "right-secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "wrong-secret")
	require.Error(t, err)
}

func TestParseJWT_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ParseJWT("not.a.jwt", "k")
	require.Error(t, err)
}
