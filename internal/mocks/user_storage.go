package mocks

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/VitaminP8/campusconnect/graph/model"
	"github.com/VitaminP8/campusconnect/internal/access"
	"github.com/VitaminP8/campusconnect/internal/auth"
	"github.com/VitaminP8/campusconnect/internal/user"
)

// MockUserStorage реализует интерфейс user.UserStorage для тестирования.
// Пароли хранятся открытым текстом.
type MockUserStorage struct {
	mu        sync.Mutex
	users     []*model.User
	passwords map[string]string // email или номер зачетки -> пароль
	pending   []string
	nextID    int
}

func NewMockUserStorage() *MockUserStorage {
	return &MockUserStorage{
		passwords: make(map[string]string),
		nextID:    1,
	}
}

// AddUser - вспомогательный метод: добавляет пользователя с заданной ролью
func (m *MockUserStorage) AddUser(name, email, password string, role model.Role) *model.User {
	u, err := m.RegisterUser(name, email, password, role)
	if err != nil {
		panic(err)
	}
	return u
}

func (m *MockUserStorage) AddPending(indexNumbers ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, indexNumbers...)
}

func (m *MockUserStorage) RegisterUser(name, email, password string, role model.Role) (*model.User, error) {
	if err := user.ValidateRegistration(name, email, password, role); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.passwords[email]; exists {
		return nil, fmt.Errorf("email %s already registered: %w", email, access.ErrValidation)
	}

	u := &model.User{
		ID:        strconv.Itoa(m.nextID),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now(),
	}
	m.nextID++

	m.users = append(m.users, u)
	m.passwords[email] = password
	return u, nil
}

func (m *MockUserStorage) LoginUser(credential, password string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.passwords[credential]
	if !ok || stored != password {
		return nil, fmt.Errorf("invalid password or credential: %w", access.ErrInvalidCredentials)
	}

	for _, u := range m.users {
		if u.Email == credential || (u.IndexNumber != nil && *u.IndexNumber == credential) {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", credential, access.ErrInvalidCredentials)
}

func (m *MockUserStorage) SetNewPassword(indexNumber, newPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.IndexNumber != nil && *u.IndexNumber == indexNumber {
			m.passwords[indexNumber] = newPassword
			return nil
		}
	}

	for i, pending := range m.pending {
		if pending == indexNumber {
			m.users = append(m.users, user.PendingStudent(strconv.Itoa(m.nextID), indexNumber))
			m.nextID++
			m.passwords[indexNumber] = newPassword
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("index number %s: %w", indexNumber, access.ErrNotFound)
}

func (m *MockUserStorage) GetUserByID(id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", id, access.ErrNotFound)
}

func (m *MockUserStorage) GetAllUsers() ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.User{}, m.users...), nil
}

func (m *MockUserStorage) PendingIndexNumbers() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.pending...), nil
}

func (m *MockUserStorage) UpdateProfile(ctx context.Context, patch model.ProfilePatch) (*model.User, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.ID == userID {
			if err := user.ApplyProfilePatch(u, patch); err != nil {
				return nil, err
			}
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", userID, access.ErrNotFound)
}
