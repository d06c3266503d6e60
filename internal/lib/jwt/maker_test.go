package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	maker := NewMaker(secretKey, tokenTTL)

	tests := []struct {
		name    string
		userUID string
	}{
		{
			name:    "uuid subject",
			userUID: "6f1a2b3c-4d5e-6f70-8192-a3b4c5d6e7f8",
		},
		{
			name:    "short subject",
			userUID: "42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.userUID)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			assert.Equal(t, tt.userUID, claims.UserUID())
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestMaker_ParseToken_InvalidTokens(t *testing.T) {
	maker := NewMaker("test_secret_key_1234567890", 15*time.Minute)

	validToken, err := maker.GenerateToken("user-uid")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "malformed token",
			token: "invalid.token.here",
		},
		{
			name:  "tampered token",
			token: validToken + "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestMaker_ParseToken_WrongKey(t *testing.T) {
	maker := NewMaker("correct_secret_key", 15*time.Minute)
	other := NewMaker("another_secret_key", 15*time.Minute)

	token, err := maker.GenerateToken("user-uid")
	require.NoError(t, err)

	claims, err := other.ParseToken(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.False(t, errors.Is(err, ErrTokenExpired))
}

func TestMaker_ParseToken_Expired(t *testing.T) {
	maker := NewMaker("test_secret_key_1234567890", -time.Minute)

	token, err := maker.GenerateToken("user-uid")
	require.NoError(t, err)

	claims, err := maker.ParseToken(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
