package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/VitaminP8/campusconnect/graph/model"
	"github.com/VitaminP8/campusconnect/internal/access"
	"github.com/VitaminP8/campusconnect/internal/auth"
	"github.com/VitaminP8/campusconnect/internal/user"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserMemoryStorage struct {
	mu        sync.Mutex
	users     []*model.User
	passwords map[string]string // email или номер зачетки -> bcrypt хеш
	pending   []string          // номера зачеток без пароля
	cost      int
}

func NewUserMemoryStorage() *UserMemoryStorage {
	return NewUserMemoryStorageWithCost(bcrypt.DefaultCost)
}

// NewUserMemoryStorageWithCost задает стоимость bcrypt (в тестах bcrypt.MinCost)
func NewUserMemoryStorageWithCost(cost int) *UserMemoryStorage {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &UserMemoryStorage{
		users:     []*model.User{},
		passwords: make(map[string]string),
		pending:   []string{},
		cost:      cost,
	}
}

func (s *UserMemoryStorage) RegisterUser(name, email, password string, role model.Role) (*model.User, error) {
	if err := user.ValidateRegistration(name, email, password, role); err != nil {
		return nil, err
	}
	email = user.NormalizeEmail(email)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findByEmail(email) != nil {
		return nil, fmt.Errorf("email %s already registered: %w", email, access.ErrValidation)
	}

	u := &model.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now(),
	}

	s.users = append(s.users, u)
	s.passwords[email] = string(hashedPassword)

	return cloneUser(u), nil
}

func (s *UserMemoryStorage) LoginUser(credential, password string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var u *model.User
	key := credential
	if user.IsIndexNumber(credential) {
		u = s.findByIndex(credential)
	} else {
		key = user.NormalizeEmail(credential)
		u = s.findByEmail(key)
	}

	hashedPassword, ok := s.passwords[key]
	if u == nil || !ok {
		return nil, fmt.Errorf("user %s: %w", credential, access.ErrInvalidCredentials)
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err != nil {
		return nil, fmt.Errorf("password for %s is incorrect: %w", credential, access.ErrInvalidCredentials)
	}

	return cloneUser(u), nil
}

func (s *UserMemoryStorage) SetNewPassword(indexNumber, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("password is required: %w", access.ErrValidation)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findByIndex(indexNumber) != nil {
		s.passwords[indexNumber] = string(hashedPassword)
		return nil
	}

	for i, pending := range s.pending {
		if pending != indexNumber {
			continue
		}
		u := user.PendingStudent(uuid.NewString(), indexNumber)
		u.CreatedAt = time.Now()
		s.users = append(s.users, u)
		s.passwords[indexNumber] = string(hashedPassword)
		s.pending = append(s.pending[:i], s.pending[i+1:]...)
		return nil
	}

	return fmt.Errorf("index number %s: %w", indexNumber, access.ErrNotFound)
}

func (s *UserMemoryStorage) GetUserByID(id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", id, access.ErrNotFound)
}

func (s *UserMemoryStorage) GetAllUsers() ([]*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, cloneUser(u))
	}
	return users, nil
}

func (s *UserMemoryStorage) PendingIndexNumbers() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string{}, s.pending...), nil
}

func (s *UserMemoryStorage) UpdateProfile(ctx context.Context, patch model.ProfilePatch) (*model.User, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID != userID {
			continue
		}
		updated := cloneUser(u)
		if err := user.ApplyProfilePatch(updated, patch); err != nil {
			return nil, err
		}
		*u = *updated
		return cloneUser(u), nil
	}
	return nil, fmt.Errorf("user %s: %w", userID, access.ErrNotFound)
}

// insert добавляет пользователя из начальных данных вместе с паролем
func (s *UserMemoryStorage) insert(u *model.User, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = append(s.users, u)
	s.passwords[u.Email] = string(hashedPassword)
	if u.IndexNumber != nil {
		s.passwords[*u.IndexNumber] = string(hashedPassword)
	}
	return nil
}

func (s *UserMemoryStorage) addPending(indexNumbers ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, indexNumbers...)
}

func (s *UserMemoryStorage) findByEmail(email string) *model.User {
	for _, u := range s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (s *UserMemoryStorage) findByIndex(indexNumber string) *model.User {
	for _, u := range s.users {
		if u.IndexNumber != nil && *u.IndexNumber == indexNumber {
			return u
		}
	}
	return nil
}

func cloneUser(u *model.User) *model.User {
	c := *u
	c.Interests = append([]string(nil), u.Interests...)
	c.Following = append([]string(nil), u.Following...)
	c.Followers = append([]string(nil), u.Followers...)
	return &c
}
