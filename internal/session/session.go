package session

import (
	"context"
	"sync"

	"github.com/VitaminP8/campusconnect/graph/model"
	"github.com/VitaminP8/campusconnect/internal/auth"
	"github.com/VitaminP8/campusconnect/internal/user"
	"github.com/google/uuid"
)

type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Session - состояние одного клиента: кто сейчас вошел в систему.
// Операции над сессией выполняются последовательно.
type Session struct {
	ID string

	mu      sync.Mutex
	users   user.UserStorage
	state   State
	current *model.User
}

func New(users user.UserStorage) *Session {
	return &Session{
		ID:    uuid.NewString(),
		users: users,
		state: Anonymous,
	}
}

// Login: Anonymous -> Authenticating -> Authenticated | Anonymous
func (s *Session) Login(credential, password string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Authenticating
	s.current = nil

	u, err := s.users.LoginUser(credential, password)
	if err != nil {
		s.state = Anonymous
		return nil, err
	}

	s.state = Authenticated
	s.current = u
	return u, nil
}

// Register создает пользователя и сразу входит под ним
func (s *Session) Register(name, email, password string, role model.Role) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.users.RegisterUser(name, email, password, role)
	if err != nil {
		return nil, err
	}

	s.state = Authenticated
	s.current = u
	return u, nil
}

func (s *Session) SetNewPassword(indexNumber, newPassword string) error {
	return s.users.SetNewPassword(indexNumber, newPassword)
}

func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Anonymous
	s.current = nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) CurrentUser() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Refresh подменяет данные текущего пользователя (после изменения профиля)
func (s *Session) Refresh(u *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && s.current.ID == u.ID {
		s.current = u
	}
}

// Context добавляет текущего пользователя в контекст для операций с контентом
func (s *Session) Context(ctx context.Context) context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Authenticated || s.current == nil {
		return ctx
	}
	ctx = auth.WithUser(ctx, s.current.ID, s.current.Role)
	return auth.WithSessionID(ctx, s.ID)
}
