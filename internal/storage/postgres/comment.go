package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/VitaminP8/campusconnect/graph/model"
	"github.com/VitaminP8/campusconnect/internal/access"
	"github.com/VitaminP8/campusconnect/internal/auth"
	"github.com/VitaminP8/campusconnect/internal/comment"
	"github.com/VitaminP8/campusconnect/internal/subscription"
	"github.com/VitaminP8/campusconnect/models"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
)

type CommentPostgresStorage struct {
	manager subscription.Manager
	now     func() time.Time
}

func NewCommentPostgresStorage(manager subscription.Manager) *CommentPostgresStorage {
	return &CommentPostgresStorage{manager: manager, now: time.Now}
}

func (s *CommentPostgresStorage) CreateComment(ctx context.Context, postID, content string) (*model.Comment, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}

	if err := comment.ValidateContent(content); err != nil {
		return nil, err
	}

	now := s.now()
	record := models.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		AuthorID:  userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = DB.Transaction(func(tx *gorm.DB) error {
		var count int
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("post with ID %s: %w", postID, access.ErrNotFound)
		}

		var pos int64
		row := tx.Model(&models.Comment{}).Where("post_id = ?", postID).Select("COALESCE(MAX(position), 0)").Row()
		if err := row.Scan(&pos); err != nil {
			return err
		}
		record.Position = pos + 1

		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, fmt.Errorf("could not create comment: %w", err)
	}

	result := toComment(&record)
	if s.manager != nil {
		s.manager.Publish(subscription.Event{Type: subscription.CommentAdded, PostID: postID, Comment: result})
	}
	return result, nil
}

func (s *CommentPostgresStorage) DeleteComment(ctx context.Context, postID, commentID string) error {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return fmt.Errorf("unauthorized: %w", err)
	}

	var p models.Post
	err = DB.Where("id = ?", postID).First(&p).Error
	if gorm.IsRecordNotFoundError(err) {
		return fmt.Errorf("post with ID %s: %w", postID, access.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("could not get post: %w", err)
	}

	var record models.Comment
	err = DB.Where("id = ? AND post_id = ?", commentID, postID).First(&record).Error
	if gorm.IsRecordNotFoundError(err) {
		return fmt.Errorf("comment with ID %s: %w", commentID, access.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("could not get comment: %w", err)
	}

	target := toComment(&record)
	if !access.CanModify(principal, access.CommentResource(toPost(&p), target)) {
		return fmt.Errorf("not comment author, post author or admin: %w", access.ErrForbidden)
	}

	if err := DB.Where("id = ?", commentID).Delete(&models.Comment{}).Error; err != nil {
		return fmt.Errorf("could not delete comment: %w", err)
	}

	if s.manager != nil {
		s.manager.Publish(subscription.Event{Type: subscription.CommentDeleted, PostID: postID, Comment: target})
	}
	return nil
}

func (s *CommentPostgresStorage) GetComments(postID string) ([]*model.Comment, error) {
	record, err := findPost(DB, postID)
	if err != nil {
		return nil, err
	}
	return toPost(record).Comments, nil
}

func toCommentRecord(c *model.Comment) models.Comment {
	return models.Comment{
		ID:        c.ID,
		Content:   c.Content,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		Likes:     c.Likes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toComment(r *models.Comment) *model.Comment {
	return &model.Comment{
		ID:        r.ID,
		Content:   r.Content,
		AuthorID:  r.AuthorID,
		PostID:    r.PostID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Likes:     r.Likes,
	}
}
