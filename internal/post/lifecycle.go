package post

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/VitaminP8/campusconnect/graph/model"
	"github.com/VitaminP8/campusconnect/internal/access"
)

const (
	ExcerptLength   = 150
	DefaultCategory = "Uncategorized"
	excerptEllipsis = "..."
)

var markupRe = regexp.MustCompile(`<[^>]*>?`)

// DeriveExcerpt убирает разметку и обрезает текст до 150 символов.
// Если после удаления разметки текста не осталось, берется исходное содержимое.
func DeriveExcerpt(content string) string {
	text := markupRe.ReplaceAllString(content, "")
	if strings.TrimSpace(text) == "" {
		text = content
	}
	if utf8.RuneCountInString(text) <= ExcerptLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:ExcerptLength]) + excerptEllipsis
}

// Build собирает новый пост из входных данных. ID и автор задаются хранилищем.
func Build(id, authorID string, input model.NewPost, now time.Time) (*model.Post, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
		return nil, fmt.Errorf("title and content are required: %w", access.ErrValidation)
	}

	published := false
	if input.IsPublished != nil {
		published = *input.IsPublished
	} else if input.IsDraft != nil {
		published = !*input.IsDraft
	}

	excerpt := input.Excerpt
	if strings.TrimSpace(excerpt) == "" {
		excerpt = DeriveExcerpt(input.Content)
	}

	category := input.Category
	if category == "" {
		category = DefaultCategory
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	p := &model.Post{
		ID:          id,
		Title:       input.Title,
		Content:     input.Content,
		Excerpt:     excerpt,
		AuthorID:    authorID,
		CreatedAt:   now,
		UpdatedAt:   now,
		IsPublished: published,
		IsDraft:     !published,
		Category:    category,
		Tags:        tags,
		ImageURL:    input.ImageURL,
		Comments:    []*model.Comment{},
	}
	if published {
		p.PublishedAt = &now
	}
	return p, nil
}

// ApplyPatch накладывает patch на пост. Если patch меняет один из флагов
// публикации, второй флаг и publishedAt приводятся в соответствие.
func ApplyPatch(p *model.Post, patch model.PostPatch, now time.Time) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.Excerpt != nil {
		p.Excerpt = *patch.Excerpt
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Tags != nil {
		p.Tags = append([]string{}, (*patch.Tags)...)
	}
	if patch.ImageURL != nil {
		p.ImageURL = patch.ImageURL
	}

	switch {
	case patch.IsPublished != nil:
		setPublished(p, *patch.IsPublished, now)
	case patch.IsDraft != nil:
		setPublished(p, !*patch.IsDraft, now)
	}

	p.UpdatedAt = now
}

func setPublished(p *model.Post, published bool, now time.Time) {
	if published && !p.IsPublished {
		p.PublishedAt = &now
	}
	if !published {
		p.PublishedAt = nil
	}
	p.IsPublished = published
	p.IsDraft = !published
}
