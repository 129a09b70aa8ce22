package comment

import (
	"context"
	"fmt"
	"strings"

	"github.com/VitaminP8/campusconnect/graph/model"
	"github.com/VitaminP8/campusconnect/internal/access"
)

const MaxContentLength = 2000

type CommentStorage interface {
	CreateComment(ctx context.Context, postID, content string) (*model.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID string) error
	GetComments(postID string) ([]*model.Comment, error)
}

func ValidateContent(content string) error {
	if len(content) > MaxContentLength || strings.TrimSpace(content) == "" {
		return fmt.Errorf("content is too long or empty: %w", access.ErrValidation)
	}
	return nil
}
