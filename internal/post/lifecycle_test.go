package post

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/VitaminP8/campusconnect/graph/model"
	"github.com/VitaminP8/campusconnect/internal/access"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestDeriveExcerpt(t *testing.T) {
	t.Run("Long content is stripped and truncated", func(t *testing.T) {
		content := strings.Repeat("<p>Hello world</p>", 20)

		excerpt := DeriveExcerpt(content)
		assert.Len(t, excerpt, ExcerptLength+3)
		assert.True(t, strings.HasSuffix(excerpt, "..."))
		assert.NotContains(t, excerpt, "<p>")
		assert.Equal(t, strings.Repeat("Hello world", 20)[:ExcerptLength], strings.TrimSuffix(excerpt, "..."))
	})

	t.Run("Short content has no ellipsis", func(t *testing.T) {
		assert.Equal(t, "Hello world", DeriveExcerpt("<h1>Hello world</h1>"))
	})

	t.Run("Truncation counts characters, not bytes", func(t *testing.T) {
		excerpt := DeriveExcerpt(strings.Repeat("ж", 200))
		assert.Equal(t, strings.Repeat("ж", ExcerptLength)+"...", excerpt)
	})

	t.Run("Markup only content falls back to raw content", func(t *testing.T) {
		assert.Equal(t, `<img src="x.png">`, DeriveExcerpt(`<img src="x.png">`))
		assert.Equal(t, "<p></p>", DeriveExcerpt("<p></p>"))

		long := strings.Repeat("<br>", 50)
		assert.Equal(t, long[:ExcerptLength]+"...", DeriveExcerpt(long))
	})
}

func TestBuild(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Defaults to draft", func(t *testing.T) {
		p, err := Build("id", "author", model.NewPost{Title: "T", Content: "<p>Body</p>"}, now)
		require.NoError(t, err)
		assert.True(t, p.IsDraft)
		assert.False(t, p.IsPublished)
		assert.Nil(t, p.PublishedAt)
		assert.Equal(t, "Body", p.Excerpt)
		assert.Equal(t, DefaultCategory, p.Category)
		assert.Equal(t, "author", p.AuthorID)
		assert.Empty(t, p.Comments)
	})

	t.Run("Published on creation", func(t *testing.T) {
		published := true
		p, err := Build("id", "author", model.NewPost{Title: "T", Content: "C", IsPublished: &published, Excerpt: "custom"}, now)
		require.NoError(t, err)
		assert.True(t, p.IsPublished)
		assert.False(t, p.IsDraft)
		require.NotNil(t, p.PublishedAt)
		assert.Equal(t, now, *p.PublishedAt)
		assert.Equal(t, "custom", p.Excerpt)
	})

	t.Run("Empty title or content", func(t *testing.T) {
		_, err := Build("id", "author", model.NewPost{Title: "", Content: "C"}, now)
		assert.True(t, errors.Is(err, access.ErrValidation))

		_, err = Build("id", "author", model.NewPost{Title: "T", Content: "  "}, now)
		assert.True(t, errors.Is(err, access.ErrValidation))
	})

	t.Run("Markup only content still gets an excerpt", func(t *testing.T) {
		for _, content := range []string{`<img src="x.png">`, "<p></p>", "<br>"} {
			p, err := Build("id", "author", model.NewPost{Title: "T", Content: content}, now)
			require.NoError(t, err)
			assert.Equal(t, content, p.Excerpt)
		}
	})
}

func TestApplyPatch(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	later := created.Add(time.Hour)

	newDraft := func() *model.Post {
		p, err := Build("id", "author", model.NewPost{Title: "T", Content: "C"}, created)
		require.NoError(t, err)
		return p
	}

	t.Run("Merges fields and stamps updatedAt", func(t *testing.T) {
		p := newDraft()
		tags := []string{"AI", "Ethics"}
		ApplyPatch(p, model.PostPatch{Title: strPtr("New"), Tags: &tags}, later)

		assert.Equal(t, "New", p.Title)
		assert.Equal(t, "C", p.Content)
		assert.Equal(t, tags, p.Tags)
		assert.Equal(t, later, p.UpdatedAt)
		assert.Equal(t, created, p.CreatedAt)
	})

	t.Run("Publish then unpublish keeps flags consistent", func(t *testing.T) {
		p := newDraft()

		ApplyPatch(p, PublishPatch(), later)
		assert.True(t, p.IsPublished)
		assert.False(t, p.IsDraft)
		require.NotNil(t, p.PublishedAt)
		assert.Equal(t, later, *p.PublishedAt)

		ApplyPatch(p, UnpublishPatch(), later.Add(time.Hour))
		assert.False(t, p.IsPublished)
		assert.True(t, p.IsDraft)
		assert.Nil(t, p.PublishedAt)
	})

	t.Run("Only draft flag in patch", func(t *testing.T) {
		p := newDraft()
		draft := false
		ApplyPatch(p, model.PostPatch{IsDraft: &draft}, later)
		assert.True(t, p.IsPublished)
		assert.False(t, p.IsDraft)
	})

	t.Run("Republishing keeps original publishedAt", func(t *testing.T) {
		p := newDraft()
		ApplyPatch(p, PublishPatch(), later)
		ApplyPatch(p, PublishPatch(), later.Add(time.Hour))
		assert.Equal(t, later, *p.PublishedAt)
	})
}
