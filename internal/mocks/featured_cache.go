package mocks

import (
	"context"
	"sync"

	"github.com/VitaminP8/campusconnect/graph/model"
)

// MockFeaturedCache - кеш в памяти со счетчиками обращений
type MockFeaturedCache struct {
	mu          sync.Mutex
	posts       []*model.Post
	ok          bool
	Hits        int
	Sets        int
	Invalidates int
}

func NewMockFeaturedCache() *MockFeaturedCache {
	return &MockFeaturedCache{}
}

func (m *MockFeaturedCache) GetFeatured(ctx context.Context) ([]*model.Post, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ok {
		m.Hits++
	}
	return m.posts, m.ok, nil
}

func (m *MockFeaturedCache) SetFeatured(ctx context.Context, posts []*model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = posts
	m.ok = true
	m.Sets++
	return nil
}

func (m *MockFeaturedCache) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = nil
	m.ok = false
	m.Invalidates++
	return nil
}
