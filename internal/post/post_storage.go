package post

import (
	"context"

	"github.com/VitaminP8/campusconnect/graph/model"
)

type PostStorage interface {
	CreatePost(ctx context.Context, input model.NewPost) (*model.Post, error)
	GetPostById(id string) (*model.Post, error)
	GetPostsByAuthor(userID string) ([]*model.Post, error)
	GetAllPosts() ([]*model.Post, error)
	UpdatePost(ctx context.Context, id string, patch model.PostPatch) (*model.Post, error)
	DeletePostById(ctx context.Context, id string) error
	LikePost(ctx context.Context, id string) (*model.Post, error)
}

func boolPtr(b bool) *bool {
	return &b
}

// PublishPatch и UnpublishPatch держат isDraft == !isPublished
func PublishPatch() model.PostPatch {
	return model.PostPatch{IsPublished: boolPtr(true), IsDraft: boolPtr(false)}
}

func UnpublishPatch() model.PostPatch {
	return model.PostPatch{IsPublished: boolPtr(false), IsDraft: boolPtr(true)}
}
