package postgres

import (
	"context"
	"testing"

	"github.com/VitaminP8/campusconnect/graph/model"
	"github.com/VitaminP8/campusconnect/internal/access"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPostgresStorage_RegisterAndLogin(t *testing.T) {
	oldDB := setupTestDB(t)
	defer teardownTestDB(oldDB)
	storage := seedTestDB(t)

	t.Run("Successful registration", func(t *testing.T) {
		u, err := storage.RegisterUser("Test User", "Test@Campus.edu", "secret", model.RoleEducator)
		require.NoError(t, err)
		assert.NotEmpty(t, u.ID)
		assert.Equal(t, "test@campus.edu", u.Email)

		logged, err := storage.LoginUser("test@campus.edu", "secret")
		require.NoError(t, err)
		assert.Equal(t, u.ID, logged.ID)
		assert.Equal(t, model.RoleEducator, logged.Role)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		_, err := storage.RegisterUser("Emma", "emma.smith@campus.edu", "secret", model.RoleStudent)
		assert.ErrorIs(t, err, access.ErrValidation)
	})

	t.Run("Login by email and index number", func(t *testing.T) {
		u, err := storage.LoginUser("emma.smith@campus.edu", "password")
		require.NoError(t, err)
		assert.Equal(t, "2", u.ID)
		assert.Equal(t, []string{"Web Development", "UX Design", "Programming"}, u.Interests)

		u, err = storage.LoginUser("12345", "password")
		require.NoError(t, err)
		assert.Equal(t, "2", u.ID)
	})

	t.Run("Invalid credentials", func(t *testing.T) {
		_, err := storage.LoginUser("emma.smith@campus.edu", "wrong")
		assert.ErrorIs(t, err, access.ErrInvalidCredentials)

		_, err = storage.LoginUser("nobody@campus.edu", "password")
		assert.ErrorIs(t, err, access.ErrInvalidCredentials)

		_, err = storage.LoginUser("99999", "password")
		assert.ErrorIs(t, err, access.ErrInvalidCredentials)
	})
}

func TestUserPostgresStorage_SetNewPassword(t *testing.T) {
	oldDB := setupTestDB(t)
	defer teardownTestDB(oldDB)
	storage := seedTestDB(t)

	t.Run("Existing index number", func(t *testing.T) {
		require.NoError(t, storage.SetNewPassword("12345", "changed"))

		_, err := storage.LoginUser("12345", "changed")
		require.NoError(t, err)

		// пароль по email не меняется
		_, err = storage.LoginUser("emma.smith@campus.edu", "password")
		require.NoError(t, err)
	})

	t.Run("Pending index number creates a student", func(t *testing.T) {
		require.NoError(t, storage.SetNewPassword("54321", "fresh"))

		u, err := storage.LoginUser("54321", "fresh")
		require.NoError(t, err)
		assert.Equal(t, "Student 54321", u.Name)
		assert.Equal(t, "student54321@campus.edu", u.Email)
		assert.Equal(t, model.RoleStudent, u.Role)

		pending, err := storage.PendingIndexNumbers()
		require.NoError(t, err)
		assert.Equal(t, []string{"67890", "98765"}, pending)
	})

	t.Run("Claimed index number logs in only by index", func(t *testing.T) {
		_, err := storage.LoginUser("student54321@campus.edu", "fresh")
		assert.ErrorIs(t, err, access.ErrInvalidCredentials)

		require.NoError(t, storage.SetNewPassword("54321", "second"))

		_, err = storage.LoginUser("54321", "fresh")
		assert.ErrorIs(t, err, access.ErrInvalidCredentials)

		_, err = storage.LoginUser("54321", "second")
		require.NoError(t, err)
	})

	t.Run("Unknown index number", func(t *testing.T) {
		err := storage.SetNewPassword("11111", "x")
		assert.ErrorIs(t, err, access.ErrNotFound)
	})
}

func TestUserPostgresStorage_Directory(t *testing.T) {
	oldDB := setupTestDB(t)
	defer teardownTestDB(oldDB)
	storage := seedTestDB(t)

	users, err := storage.GetAllUsers()
	require.NoError(t, err)
	require.Len(t, users, 5)
	assert.Equal(t, "1", users[0].ID)
	assert.Equal(t, "5", users[4].ID)

	u, err := storage.GetUserByID("3")
	require.NoError(t, err)
	assert.Equal(t, "Prof. Samantha Lee", u.Name)

	_, err = storage.GetUserByID("missing")
	assert.ErrorIs(t, err, access.ErrNotFound)
}

func TestUserPostgresStorage_UpdateProfile(t *testing.T) {
	oldDB := setupTestDB(t)
	defer teardownTestDB(oldDB)
	storage := seedTestDB(t)

	name := "Emma S."
	interests := []string{"Go"}
	u, err := storage.UpdateProfile(createUserContext("2", model.RoleStudent), model.ProfilePatch{Name: &name, Interests: &interests})
	require.NoError(t, err)
	assert.Equal(t, name, u.Name)

	saved, err := storage.GetUserByID("2")
	require.NoError(t, err)
	assert.Equal(t, name, saved.Name)
	assert.Equal(t, interests, saved.Interests)
	assert.Equal(t, "emma.smith@campus.edu", saved.Email)

	empty := " "
	_, err = storage.UpdateProfile(createUserContext("2", model.RoleStudent), model.ProfilePatch{Name: &empty})
	assert.ErrorIs(t, err, access.ErrValidation)

	_, err = storage.UpdateProfile(context.Background(), model.ProfilePatch{Name: &name})
	assert.ErrorIs(t, err, access.ErrUnauthenticated)
}
