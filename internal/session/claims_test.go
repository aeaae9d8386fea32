package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTokenReadsClaims(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{
		"sub":   "42",
		"email": "ana@gastroflow.dev",
		"name":  "Ana",
		"role":  "ADMIN",
		"exp":   exp.Unix(),
	})

	user, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", user.ID)
	assert.Equal(t, "ana@gastroflow.dev", user.Email)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, "ADMIN", user.Role)
	assert.True(t, user.ExpiresAt.Equal(exp))
	assert.False(t, user.Expired(time.Now()))
	assert.True(t, user.Expired(exp.Add(time.Second)))
}

func TestParseTokenUsesEmailSubject(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "ana@gastroflow.dev"})

	user, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ana@gastroflow.dev", user.Email)
	assert.Equal(t, "ana@gastroflow.dev", user.DisplayName())
	assert.True(t, user.ExpiresAt.IsZero())
	assert.False(t, user.Expired(time.Now()))
}

func TestParseTokenNumericID(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"id": 12, "sub": "x"})

	user, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "12", user.ID)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not-a-jwt")
	assert.Error(t, err)
}
