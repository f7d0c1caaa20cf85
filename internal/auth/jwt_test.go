package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken(secret, time.Hour, "1001", 4)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "1001", claims.User)
	assert.Equal(t, 4, claims.UserLevel)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken([]byte("secret-a"), time.Hour, "1001", 1)
	require.NoError(t, err)

	_, err = ParseToken([]byte("secret-b"), token)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken([]byte("secret"), -time.Minute, "1001", 1)
	require.NoError(t, err)

	_, err = ParseToken([]byte("secret"), token)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken([]byte("secret"), "not.a.token")
	assert.Error(t, err)
}

func TestTokensCarryUniqueIDs(t *testing.T) {
	secret := []byte("secret")
	a, err := GenerateToken(secret, time.Hour, "1001", 1)
	require.NoError(t, err)
	b, err := GenerateToken(secret, time.Hour, "1001", 1)
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "jti must differ between issues")
}
