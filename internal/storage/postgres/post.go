package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/VitaminP8/campusconnect/graph/model"
	"github.com/VitaminP8/campusconnect/internal/access"
	"github.com/VitaminP8/campusconnect/internal/auth"
	"github.com/VitaminP8/campusconnect/internal/post"
	"github.com/VitaminP8/campusconnect/models"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
)

type PostPostgresStorage struct {
	now func() time.Time
}

func NewPostPostgresStorage() *PostPostgresStorage {
	return &PostPostgresStorage{now: time.Now}
}

func (s *PostPostgresStorage) CreatePost(ctx context.Context, input model.NewPost) (*model.Post, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get user id from context: %w", err)
	}

	p, err := post.Build(uuid.NewString(), userID, input, s.now())
	if err != nil {
		return nil, err
	}

	if err := InsertPost(p); err != nil {
		return nil, err
	}
	return p, nil
}

// InsertPost сохраняет готовый пост вместе с комментариями (нужно и для начальных данных)
func InsertPost(p *model.Post) error {
	tx := DB.Begin()
	if tx.Error != nil {
		return fmt.Errorf("could not begin transaction: %w", tx.Error)
	}

	pos, err := nextPosition(tx, &models.Post{})
	if err != nil {
		tx.Rollback()
		return err
	}

	record := toPostRecord(p)
	record.Position = pos
	if err := tx.Create(&record).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("could not create post: %w", err)
	}

	for i, c := range p.Comments {
		cr := toCommentRecord(c)
		cr.Position = int64(i + 1)
		if err := tx.Create(&cr).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("could not create comment: %w", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("could not commit post: %w", err)
	}
	return nil
}

func withComments(db *gorm.DB) *gorm.DB {
	return db.Preload("Comments", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

func findPost(db *gorm.DB, id string) (*models.Post, error) {
	var record models.Post
	err := withComments(db).Where("id = ?", id).First(&record).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("post %s: %w", id, access.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get post by id: %w", err)
	}
	return &record, nil
}

func (s *PostPostgresStorage) GetPostById(id string) (*model.Post, error) {
	record, err := findPost(DB, id)
	if err != nil {
		return nil, err
	}
	return toPost(record), nil
}

func (s *PostPostgresStorage) GetPostsByAuthor(userID string) ([]*model.Post, error) {
	var records []models.Post
	err := withComments(DB).Where("author_id = ?", userID).Order("position").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("could not get posts by author: %w", err)
	}
	return toPosts(records), nil
}

func (s *PostPostgresStorage) GetAllPosts() ([]*model.Post, error) {
	var records []models.Post
	err := withComments(DB).Order("position").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("could not get posts: %w", err)
	}
	return toPosts(records), nil
}

func (s *PostPostgresStorage) UpdatePost(ctx context.Context, id string, patch model.PostPatch) (*model.Post, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}

	record, err := findPost(DB, id)
	if err != nil {
		return nil, err
	}

	p := toPost(record)
	if !access.CanModify(principal, access.PostResource(p)) {
		return nil, fmt.Errorf("not author or admin: %w", access.ErrForbidden)
	}

	post.ApplyPatch(p, patch, s.now())

	// пишем только редактируемые колонки: likes меняет лишь LikePost
	err = DB.Model(&models.Post{}).Where("id = ?", id).UpdateColumns(editableColumns(p)).Error
	if err != nil {
		return nil, fmt.Errorf("could not update post: %w", err)
	}
	return s.GetPostById(id)
}

func editableColumns(p *model.Post) map[string]interface{} {
	return map[string]interface{}{
		"title":        p.Title,
		"content":      p.Content,
		"excerpt":      p.Excerpt,
		"category":     p.Category,
		"tags":         encodeList(p.Tags),
		"image_url":    p.ImageURL,
		"is_published": p.IsPublished,
		"is_draft":     p.IsDraft,
		"published_at": p.PublishedAt,
		"updated_at":   p.UpdatedAt,
	}
}

func (s *PostPostgresStorage) DeletePostById(ctx context.Context, id string) error {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return fmt.Errorf("unauthorized: %w", err)
	}

	record, err := findPost(DB, id)
	if err != nil {
		return err
	}

	if !access.CanModify(principal, access.PostResource(toPost(record))) {
		return fmt.Errorf("not author or admin: %w", access.ErrForbidden)
	}

	// комментарии удаляются вместе с постом
	err = DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Post{}).Error
	})
	if err != nil {
		return fmt.Errorf("could not delete post: %w", err)
	}
	return nil
}

func (s *PostPostgresStorage) LikePost(ctx context.Context, id string) (*model.Post, error) {
	if _, err := auth.GetUserIDFromContext(ctx); err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}

	res := DB.Model(&models.Post{}).Where("id = ?", id).UpdateColumn("likes", gorm.Expr("likes + ?", 1))
	if res.Error != nil {
		return nil, fmt.Errorf("could not like post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("post %s: %w", id, access.ErrNotFound)
	}

	return s.GetPostById(id)
}

func toPostRecord(p *model.Post) models.Post {
	return models.Post{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.Content,
		Excerpt:     p.Excerpt,
		AuthorID:    p.AuthorID,
		PublishedAt: p.PublishedAt,
		IsPublished: p.IsPublished,
		IsDraft:     p.IsDraft,
		Category:    p.Category,
		Tags:        encodeList(p.Tags),
		ImageURL:    p.ImageURL,
		Likes:       p.Likes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPost(r *models.Post) *model.Post {
	tags := decodeList(r.Tags)
	if tags == nil {
		tags = []string{}
	}

	comments := make([]*model.Comment, 0, len(r.Comments))
	for i := range r.Comments {
		comments = append(comments, toComment(&r.Comments[i]))
	}

	return &model.Post{
		ID:          r.ID,
		Title:       r.Title,
		Content:     r.Content,
		Excerpt:     r.Excerpt,
		AuthorID:    r.AuthorID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		PublishedAt: r.PublishedAt,
		IsPublished: r.IsPublished,
		IsDraft:     r.IsDraft,
		Category:    r.Category,
		Tags:        tags,
		ImageURL:    r.ImageURL,
		Likes:       r.Likes,
		Comments:    comments,
	}
}

func toPosts(records []models.Post) []*model.Post {
	posts := make([]*model.Post, 0, len(records))
	for i := range records {
		posts = append(posts, toPost(&records[i]))
	}
	return posts
}
