package pg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsepost-dev/pulsepost/internal/domain"
	"github.com/pulsepost-dev/pulsepost/internal/errors"
)

func testUser(email string) domain.User {
	return domain.User{
		Username: "tester",
		Email:    email,
		PassHash: "$2a$10$hash",
		Role:     domain.RoleUser,
	}
}

func TestSaveUser(t *testing.T) {
	id, err := storage.SaveUser(testUser("save@example.com"))
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	_, err = storage.SaveUser(testUser("save@example.com"))
	require.Error(t, err, "saving the same email twice should conflict")
	e, ok := err.(*errors.ErrorWithStatusCode)
	require.True(t, ok)
	assert.Equal(t, 409, e.StatusCode)

	// unique index is on lower(email)
	_, err = storage.SaveUser(testUser("SAVE@example.com"))
	require.Error(t, err, "email uniqueness should be case-insensitive")
}

func TestUserByEmail(t *testing.T) {
	id, err := storage.SaveUser(testUser("byemail@example.com"))
	require.NoError(t, err)

	user, err := storage.UserByEmail("byemail@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.Id)
	assert.Equal(t, "byemail@example.com", user.Email)
	assert.Equal(t, "$2a$10$hash", user.PassHash)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Equal(t, 0, user.LoginAttempts)
	assert.Nil(t, user.LockUntil)
	assert.False(t, user.CreatedAt.IsZero())

	// lookup must be case-insensitive too
	user, err = storage.UserByEmail("ByEmail@Example.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.Id)

	_, err = storage.UserByEmail("nonexistent@example.com")
	require.Error(t, err)
	e, ok := err.(*errors.ErrorWithStatusCode)
	require.True(t, ok)
	assert.Equal(t, 404, e.StatusCode)
}

func TestUserById(t *testing.T) {
	id, err := storage.SaveUser(testUser("byid@example.com"))
	require.NoError(t, err)

	user, err := storage.UserById(id)
	require.NoError(t, err)
	assert.Equal(t, "byid@example.com", user.Email)

	_, err = storage.UserById(999999)
	require.Error(t, err)
	e, ok := err.(*errors.ErrorWithStatusCode)
	require.True(t, ok)
	assert.Equal(t, 404, e.StatusCode)
}

func TestUpdateLoginGuard(t *testing.T) {
	id, err := storage.SaveUser(testUser("guard@example.com"))
	require.NoError(t, err)

	lockUntil := time.Now().Add(5 * time.Minute).UTC().Truncate(time.Millisecond)
	require.NoError(t, storage.UpdateLoginGuard(id, 5, &lockUntil))

	user, err := storage.UserById(id)
	require.NoError(t, err)
	assert.Equal(t, 5, user.LoginAttempts)
	require.NotNil(t, user.LockUntil)
	assert.WithinDuration(t, lockUntil, *user.LockUntil, time.Second)

	// clearing the lock
	require.NoError(t, storage.UpdateLoginGuard(id, 0, nil))
	user, err = storage.UserById(id)
	require.NoError(t, err)
	assert.Equal(t, 0, user.LoginAttempts)
	assert.Nil(t, user.LockUntil)

	err = storage.UpdateLoginGuard(999999, 1, nil)
	require.Error(t, err)
	e, ok := err.(*errors.ErrorWithStatusCode)
	require.True(t, ok)
	assert.Equal(t, 404, e.StatusCode)
}
