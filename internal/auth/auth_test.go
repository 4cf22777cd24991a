package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "s3cret-pass"))
}

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, expiresAt, err := GenerateToken(secret, time.Hour, 42, "alice")
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	claims, err := ValidateToken(secret, token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestTokenValidationFailures(t *testing.T) {
	secret := []byte("test-secret")

	token, _, err := GenerateToken([]byte("other-secret"), time.Hour, 42, "alice")
	require.NoError(t, err)
	_, err = ValidateToken(secret, token)
	assert.Error(t, err)

	expired, _, err := GenerateToken(secret, -time.Minute, 42, "alice")
	require.NoError(t, err)
	_, err = ValidateToken(secret, expired)
	assert.Error(t, err)

	_, err = ValidateToken(secret, "not-a-token")
	assert.Error(t, err)
}
