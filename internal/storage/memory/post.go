package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/VitaminP8/campusconnect/graph/model"
	"github.com/VitaminP8/campusconnect/internal/access"
	"github.com/VitaminP8/campusconnect/internal/auth"
	"github.com/VitaminP8/campusconnect/internal/post"
	"github.com/google/uuid"
)

type PostMemoryStorage struct {
	mu    sync.Mutex
	posts []*model.Post // порядок вставки важен для GetPostsByAuthor/GetAllPosts
	now   func() time.Time
}

func NewPostMemoryStorage() *PostMemoryStorage {
	return &PostMemoryStorage{
		posts: []*model.Post{},
		now:   time.Now,
	}
}

func (s *PostMemoryStorage) CreatePost(ctx context.Context, input model.NewPost) (*model.Post, error) {
	// пользователя берем из контекста до захвата мьютекса
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := post.Build(uuid.NewString(), userID, input, s.now())
	if err != nil {
		return nil, err
	}

	s.posts = append(s.posts, p)
	return clonePost(p), nil
}

func (s *PostMemoryStorage) GetPostById(id string) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, _ := s.find(id)
	if p == nil {
		return nil, fmt.Errorf("post %s: %w", id, access.ErrNotFound)
	}
	return clonePost(p), nil
}

func (s *PostMemoryStorage) GetPostsByAuthor(userID string) ([]*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := []*model.Post{}
	for _, p := range s.posts {
		if p.AuthorID == userID {
			posts = append(posts, clonePost(p))
		}
	}
	return posts, nil
}

func (s *PostMemoryStorage) GetAllPosts() ([]*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := make([]*model.Post, 0, len(s.posts))
	for _, p := range s.posts {
		posts = append(posts, clonePost(p))
	}
	return posts, nil
}

func (s *PostMemoryStorage) UpdatePost(ctx context.Context, id string, patch model.PostPatch) (*model.Post, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, _ := s.find(id)
	if p == nil {
		return nil, fmt.Errorf("post %s: %w", id, access.ErrNotFound)
	}

	if !access.CanModify(principal, access.PostResource(p)) {
		return nil, fmt.Errorf("not author or admin: %w", access.ErrForbidden)
	}

	post.ApplyPatch(p, patch, s.now())
	return clonePost(p), nil
}

func (s *PostMemoryStorage) DeletePostById(ctx context.Context, id string) error {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return fmt.Errorf("unauthorized: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, i := s.find(id)
	if p == nil {
		return fmt.Errorf("post %s: %w", id, access.ErrNotFound)
	}

	if !access.CanModify(principal, access.PostResource(p)) {
		return fmt.Errorf("not author or admin: %w", access.ErrForbidden)
	}

	// комментарии удаляются вместе с постом
	s.posts = append(s.posts[:i], s.posts[i+1:]...)
	return nil
}

func (s *PostMemoryStorage) LikePost(ctx context.Context, id string) (*model.Post, error) {
	if _, err := auth.GetUserIDFromContext(ctx); err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, _ := s.find(id)
	if p == nil {
		return nil, fmt.Errorf("post %s: %w", id, access.ErrNotFound)
	}

	p.Likes++
	return clonePost(p), nil
}

// insert добавляет готовый пост (для начальных данных)
func (s *PostMemoryStorage) insert(p *model.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append(s.posts, p)
}

// find вызывается под s.mu
func (s *PostMemoryStorage) find(id string) (*model.Post, int) {
	for i, p := range s.posts {
		if p.ID == id {
			return p, i
		}
	}
	return nil, -1
}

func clonePost(p *model.Post) *model.Post {
	c := *p
	c.Tags = append([]string{}, p.Tags...)
	c.Comments = make([]*model.Comment, 0, len(p.Comments))
	for _, cm := range p.Comments {
		cc := *cm
		c.Comments = append(c.Comments, &cc)
	}
	return &c
}
