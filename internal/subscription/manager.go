package subscription

import (
	"sync"
	"time"
)

const defaultSendTimeout = 500 * time.Millisecond

type SubscriptionManager struct {
	mu          sync.Mutex
	subs        map[string][]chan Event // postID -> список каналов подписчиков
	sendTimeout time.Duration
}

func NewSubscriptionManager() *SubscriptionManager {
	return &SubscriptionManager{
		subs:        make(map[string][]chan Event),
		sendTimeout: defaultSendTimeout,
	}
}

func (m *SubscriptionManager) Subscribe(postID string) (<-chan Event, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan Event, 1) // Буфер 1, чтобы не блокировался писатель

	m.subs[postID] = append(m.subs[postID], ch)

	var once sync.Once
	// функция для отписки, повторный вызов ничего не делает
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			subscribers := m.subs[postID]
			for i, sub := range subscribers {
				if sub == ch {
					m.subs[postID] = append(subscribers[:i], subscribers[i+1:]...)
					close(ch)
					break
				}
			}
			if len(m.subs[postID]) == 0 {
				delete(m.subs, postID)
			}
		})
	}

	return ch, cancel
}

func (m *SubscriptionManager) Publish(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sub := range m.subs[event.PostID] {
		select {
		case sub <- event:
		case <-time.After(m.sendTimeout):
			// подписчик не успевает читать - событие для него теряется
		}
	}
}

// Subscribers возвращает количество подписчиков поста
func (m *SubscriptionManager) Subscribers(postID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs[postID])
}

// Close закрывает все каналы (при остановке сервера)
func (m *SubscriptionManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for postID, subscribers := range m.subs {
		for _, ch := range subscribers {
			close(ch)
		}
		delete(m.subs, postID)
	}
}
