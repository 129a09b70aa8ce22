package mocks

import (
	"sync"

	"github.com/VitaminP8/campusconnect/internal/subscription"
)

// MockSubscriptionManager запоминает опубликованные события и не рассылает их
type MockSubscriptionManager struct {
	mu            sync.Mutex
	notifications map[string][]subscription.Event // Для отслеживания в тестах
}

func NewMockSubscriptionManager() *MockSubscriptionManager {
	return &MockSubscriptionManager{
		notifications: make(map[string][]subscription.Event),
	}
}

func (m *MockSubscriptionManager) Subscribe(postID string) (<-chan subscription.Event, func()) {
	ch := make(chan subscription.Event)
	var once sync.Once
	return ch, func() { once.Do(func() { close(ch) }) }
}

func (m *MockSubscriptionManager) Publish(event subscription.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications[event.PostID] = append(m.notifications[event.PostID], event)
}

// GetNotificationsForPost - вспомогательный метод для тестирования,
// возвращает все события для конкретного поста
func (m *MockSubscriptionManager) GetNotificationsForPost(postID string) []subscription.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]subscription.Event(nil), m.notifications[postID]...)
}
