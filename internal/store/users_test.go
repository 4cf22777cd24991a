package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maintenatrack-backend/internal/auth"
	"maintenatrack-backend/internal/validate"
)

func TestCreateUser(t *testing.T) {
	s, _ := newTestStore(t)

	user, err := s.CreateUser(context.Background(), " alice ", "s3cret-pass", "Alice", "Smith")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.True(t, auth.CheckPassword(user.PasswordHash, "s3cret-pass"))

	fetched, err := s.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, fetched.ID)
}

func TestCreateUser_Validation(t *testing.T) {
	s, _ := newTestStore(t)

	var fieldErr *validate.FieldError

	_, err := s.CreateUser(context.Background(), "ab", "s3cret-pass", "", "")
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "username", fieldErr.Field)

	_, err = s.CreateUser(context.Background(), "alice", "short", "", "")
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "password", fieldErr.Field)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.CreateUser(context.Background(), "alice", "s3cret-pass", "", "")
	require.NoError(t, err)

	var fieldErr *validate.FieldError
	_, err = s.CreateUser(context.Background(), "alice", "other-pass", "", "")
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "username", fieldErr.Field)
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.GetUserByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
