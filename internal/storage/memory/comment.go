package memory

import (
	"context"
	"fmt"

	"github.com/VitaminP8/campusconnect/graph/model"
	"github.com/VitaminP8/campusconnect/internal/access"
	"github.com/VitaminP8/campusconnect/internal/auth"
	"github.com/VitaminP8/campusconnect/internal/comment"
	"github.com/VitaminP8/campusconnect/internal/subscription"
	"github.com/google/uuid"
)

// Комментарии хранятся внутри постов, поэтому хранилище работает
// поверх PostMemoryStorage и использует его мьютекс.
type CommentMemoryStorage struct {
	postStorage *PostMemoryStorage
	manager     subscription.Manager
}

func NewCommentMemoryStorage(postStore *PostMemoryStorage, manager subscription.Manager) *CommentMemoryStorage {
	return &CommentMemoryStorage{
		postStorage: postStore,
		manager:     manager,
	}
}

func (s *CommentMemoryStorage) CreateComment(ctx context.Context, postID, content string) (*model.Comment, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}

	if err := comment.ValidateContent(content); err != nil {
		return nil, err
	}

	ps := s.postStorage
	ps.mu.Lock()

	curPost, _ := ps.find(postID)
	if curPost == nil {
		ps.mu.Unlock()
		return nil, fmt.Errorf("post with ID %s: %w", postID, access.ErrNotFound)
	}

	now := ps.now()
	c := &model.Comment{
		ID:        uuid.NewString(),
		Content:   content,
		AuthorID:  userID,
		PostID:    postID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	curPost.Comments = append(curPost.Comments, c)
	created := *c
	ps.mu.Unlock()

	// публикуем вне блокировки, Publish может ждать медленного подписчика
	if s.manager != nil {
		s.manager.Publish(subscription.Event{Type: subscription.CommentAdded, PostID: postID, Comment: &created})
	}

	return &created, nil
}

func (s *CommentMemoryStorage) DeleteComment(ctx context.Context, postID, commentID string) error {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return fmt.Errorf("unauthorized: %w", err)
	}

	deleted, err := s.remove(principal, postID, commentID)
	if err != nil {
		return err
	}

	if s.manager != nil {
		s.manager.Publish(subscription.Event{Type: subscription.CommentDeleted, PostID: postID, Comment: deleted})
	}
	return nil
}

func (s *CommentMemoryStorage) remove(principal access.Principal, postID, commentID string) (*model.Comment, error) {
	ps := s.postStorage
	ps.mu.Lock()
	defer ps.mu.Unlock()

	curPost, _ := ps.find(postID)
	if curPost == nil {
		return nil, fmt.Errorf("post with ID %s: %w", postID, access.ErrNotFound)
	}

	idx := -1
	for i, c := range curPost.Comments {
		if c.ID == commentID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("comment with ID %s: %w", commentID, access.ErrNotFound)
	}

	target := curPost.Comments[idx]
	if !access.CanModify(principal, access.CommentResource(curPost, target)) {
		return nil, fmt.Errorf("not comment author, post author or admin: %w", access.ErrForbidden)
	}

	curPost.Comments = append(curPost.Comments[:idx], curPost.Comments[idx+1:]...)
	return target, nil
}

func (s *CommentMemoryStorage) GetComments(postID string) ([]*model.Comment, error) {
	p, err := s.postStorage.GetPostById(postID)
	if err != nil {
		return nil, err
	}
	return p.Comments, nil
}
