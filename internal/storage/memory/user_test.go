package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/VitaminP8/campusconnect/graph/model"
	"github.com/VitaminP8/campusconnect/internal/access"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserStorage() *UserMemoryStorage {
	return NewUserMemoryStorageWithCost(bcrypt.MinCost)
}

func newSeededUserStorage(t *testing.T) *UserMemoryStorage {
	users := newTestUserStorage()
	require.NoError(t, Seed(users, NewPostMemoryStorage()))
	return users
}

func TestUserMemoryStorage_RegisterUser(t *testing.T) {
	storage := newTestUserStorage()

	t.Run("Successful user registration", func(t *testing.T) {
		u, err := storage.RegisterUser("Test User", "Test@Example.com", "password123", model.RoleEducator)
		require.NoError(t, err)
		assert.NotEmpty(t, u.ID)
		assert.Equal(t, "Test User", u.Name)
		assert.Equal(t, "test@example.com", u.Email)
		assert.Equal(t, model.RoleEducator, u.Role)
		assert.False(t, u.CreatedAt.IsZero())
	})

	t.Run("Register user with duplicate email", func(t *testing.T) {
		_, err := storage.RegisterUser("Duplicate", "dup@example.com", "password123", model.RoleStudent)
		require.NoError(t, err)

		_, err = storage.RegisterUser("Another", "DUP@example.com", "anotherpassword", model.RoleStudent)
		assert.True(t, errors.Is(err, access.ErrValidation))
		assert.Contains(t, err.Error(), "already registered")
	})

	t.Run("Register user with invalid role", func(t *testing.T) {
		_, err := storage.RegisterUser("Role", "role@example.com", "pw", model.Role("superuser"))
		assert.True(t, errors.Is(err, access.ErrValidation))
	})

	t.Run("Ids are unique", func(t *testing.T) {
		a, err := storage.RegisterUser("A", "a@example.com", "pw", model.RoleStudent)
		require.NoError(t, err)
		b, err := storage.RegisterUser("B", "b@example.com", "pw", model.RoleStudent)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestUserMemoryStorage_LoginUser(t *testing.T) {
	storage := newSeededUserStorage(t)

	t.Run("Login with email", func(t *testing.T) {
		u, err := storage.LoginUser("admin@campus.edu", SeedPassword)
		require.NoError(t, err)
		assert.Equal(t, "5", u.ID)
		assert.Equal(t, model.RoleAdmin, u.Role)
	})

	t.Run("Login with index number", func(t *testing.T) {
		u, err := storage.LoginUser("12345", SeedPassword)
		require.NoError(t, err)
		assert.Equal(t, "Emma Smith", u.Name)
	})

	t.Run("Wrong password with index number", func(t *testing.T) {
		_, err := storage.LoginUser("12345", "wrong")
		assert.True(t, errors.Is(err, access.ErrInvalidCredentials))
	})

	t.Run("Unknown email", func(t *testing.T) {
		_, err := storage.LoginUser("nobody@campus.edu", SeedPassword)
		assert.True(t, errors.Is(err, access.ErrInvalidCredentials))
	})

	t.Run("Pending index number cannot login before setting password", func(t *testing.T) {
		_, err := storage.LoginUser("54321", SeedPassword)
		assert.True(t, errors.Is(err, access.ErrInvalidCredentials))
	})
}

func TestUserMemoryStorage_SetNewPassword(t *testing.T) {
	storage := newSeededUserStorage(t)

	t.Run("Pending index number creates student", func(t *testing.T) {
		require.NoError(t, storage.SetNewPassword("54321", "fresh"))

		u, err := storage.LoginUser("54321", "fresh")
		require.NoError(t, err)
		assert.Equal(t, model.RoleStudent, u.Role)
		assert.Equal(t, "Student 54321", u.Name)

		pending, err := storage.PendingIndexNumbers()
		require.NoError(t, err)
		assert.NotContains(t, pending, "54321")
		assert.Len(t, pending, 2)

		// второй вызов обновляет пароль уже существующего пользователя
		require.NoError(t, storage.SetNewPassword("54321", "again"))
		again, err := storage.LoginUser("54321", "again")
		require.NoError(t, err)
		assert.Equal(t, u.ID, again.ID)
	})

	t.Run("Existing index number updates password", func(t *testing.T) {
		require.NoError(t, storage.SetNewPassword("12345", "changed"))

		_, err := storage.LoginUser("12345", SeedPassword)
		assert.True(t, errors.Is(err, access.ErrInvalidCredentials))

		_, err = storage.LoginUser("12345", "changed")
		assert.NoError(t, err)
	})

	t.Run("Unknown index number", func(t *testing.T) {
		err := storage.SetNewPassword("11111", "pw")
		assert.True(t, errors.Is(err, access.ErrNotFound))
	})
}

func TestUserMemoryStorage_Directory(t *testing.T) {
	storage := newSeededUserStorage(t)

	users, err := storage.GetAllUsers()
	require.NoError(t, err)
	assert.Len(t, users, 5)

	u, err := storage.GetUserByID("3")
	require.NoError(t, err)
	assert.Equal(t, "Prof. Samantha Lee", u.Name)

	_, err = storage.GetUserByID("missing")
	assert.True(t, errors.Is(err, access.ErrNotFound))
}

func TestUserMemoryStorage_UpdateProfile(t *testing.T) {
	storage := newSeededUserStorage(t)
	ctx := createUserContext("2", model.RoleStudent)

	bio := "Now in fourth year"
	interests := []string{"Go"}
	u, err := storage.UpdateProfile(ctx, model.ProfilePatch{Bio: &bio, Interests: &interests})
	require.NoError(t, err)
	assert.Equal(t, bio, *u.Bio)
	assert.Equal(t, interests, u.Interests)
	assert.Equal(t, "Emma Smith", u.Name)

	empty := ""
	_, err = storage.UpdateProfile(ctx, model.ProfilePatch{Name: &empty})
	assert.True(t, errors.Is(err, access.ErrValidation))

	_, err = storage.UpdateProfile(context.Background(), model.ProfilePatch{Bio: &bio})
	assert.True(t, errors.Is(err, access.ErrUnauthenticated))
}

func TestUserMemoryStorage_Concurrent(t *testing.T) {
	storage := newTestUserStorage()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := storage.RegisterUser("User", "user"+string(rune('a'+i))+"@example.com", "pw", model.RoleStudent)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	users, err := storage.GetAllUsers()
	require.NoError(t, err)
	assert.Len(t, users, 20)
}
