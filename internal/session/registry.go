package session

import (
	"sync"
	"time"

	"github.com/VitaminP8/campusconnect/internal/user"
)

type entry struct {
	session   *Session
	expiresAt time.Time
}

// Registry хранит сессии, выданные через HTTP (id сессии лежит в JWT)
type Registry struct {
	mu       sync.Mutex
	users    user.UserStorage
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
}

func NewRegistry(users user.UserStorage, ttl time.Duration) *Registry {
	return &Registry{
		users:    users,
		sessions: make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Open создает новую анонимную сессию. Заодно удаляет просроченные.
func (r *Registry) Open() *Session {
	s := New(r.users)

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, e := range r.sessions {
		if now.After(e.expiresAt) {
			delete(r.sessions, id)
		}
	}

	r.sessions[s.ID] = entry{session: s, expiresAt: now.Add(r.ttl)}
	return s
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok || r.now().After(e.expiresAt) {
		return nil, false
	}
	return e.session, true
}

// Active реализует auth.SessionChecker
func (r *Registry) Active(id string) bool {
	s, ok := r.Get(id)
	return ok && s.State() == Authenticated
}

// Close завершает сессию (logout)
func (r *Registry) Close(id string) {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		e.session.Logout()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
