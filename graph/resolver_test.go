package graph

import (
	"context"
	"testing"
	"time"

	"github.com/VitaminP8/campusconnect/graph/model"
	"github.com/VitaminP8/campusconnect/internal/access"
	"github.com/VitaminP8/campusconnect/internal/auth"
	"github.com/VitaminP8/campusconnect/internal/metrics"
	"github.com/VitaminP8/campusconnect/internal/mocks"
	"github.com/VitaminP8/campusconnect/internal/storage/memory"
	"github.com/VitaminP8/campusconnect/internal/subscription"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func createUserContext(userID string, role model.Role) context.Context {
	return auth.WithUser(context.Background(), userID, role)
}

type testEnv struct {
	resolver *Resolver
	cache    *mocks.MockFeaturedCache
	manager  *subscription.SubscriptionManager
}

func setupResolver(t *testing.T) *testEnv {
	users := memory.NewUserMemoryStorageWithCost(bcrypt.MinCost)
	posts := memory.NewPostMemoryStorage()
	require.NoError(t, memory.Seed(users, posts))

	manager := subscription.NewSubscriptionManager()
	t.Cleanup(manager.Close)
	featured := mocks.NewMockFeaturedCache()

	return &testEnv{
		resolver: &Resolver{
			PostStore:           posts,
			CommentStore:        memory.NewCommentMemoryStorage(posts, manager),
			UserStore:           users,
			SubscriptionManager: manager,
			Cache:               featured,
			Metrics:             metrics.New(),
		},
		cache:   featured,
		manager: manager,
	}
}

func ids(posts []*model.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestMutationResolver_CreatePost(t *testing.T) {
	env := setupResolver(t)
	r := env.resolver

	t.Run("Successful post creation", func(t *testing.T) {
		ctx := createUserContext("4", model.RoleStudent)

		p, err := r.Mutation().CreatePost(ctx, model.NewPost{Title: "Test Post", Content: "<p>Test Content</p>"})
		require.NoError(t, err)
		assert.NotEmpty(t, p.ID)
		assert.Equal(t, "4", p.AuthorID)
		assert.Equal(t, "Test Content", p.Excerpt)
		assert.True(t, p.IsDraft)
		assert.False(t, p.IsPublished)
		assert.Equal(t, "Uncategorized", p.Category)

		saved, err := r.Query().Post(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.Title, saved.Title)

		assert.Equal(t, 1.0, testutil.ToFloat64(r.Metrics.OperationCount("create_post", "ok")))
		assert.Equal(t, 1, env.cache.Invalidates)
	})

	t.Run("Error when no authorization", func(t *testing.T) {
		p, err := r.Mutation().CreatePost(context.Background(), model.NewPost{Title: "Title", Content: "Content"})
		assert.ErrorIs(t, err, access.ErrUnauthenticated)
		assert.Nil(t, p)
		assert.Equal(t, 1.0, testutil.ToFloat64(r.Metrics.OperationCount("create_post", "error")))
	})

	t.Run("Error on empty title", func(t *testing.T) {
		_, err := r.Mutation().CreatePost(createUserContext("4", model.RoleStudent), model.NewPost{Content: "Content"})
		assert.ErrorIs(t, err, access.ErrValidation)
	})
}

func TestMutationResolver_DeletePostByID(t *testing.T) {
	r := setupResolver(t).resolver

	t.Run("Forbidden for a stranger", func(t *testing.T) {
		ok, err := r.Mutation().DeletePostByID(createUserContext("2", model.RoleStudent), "1")
		assert.ErrorIs(t, err, access.ErrForbidden)
		assert.False(t, ok)
	})

	t.Run("Admin deletes any post", func(t *testing.T) {
		ok, err := r.Mutation().DeletePostByID(createUserContext("5", model.RoleAdmin), "1")
		require.NoError(t, err)
		assert.True(t, ok)

		_, err = r.Query().Post(context.Background(), "1")
		assert.ErrorIs(t, err, access.ErrNotFound)
	})

	t.Run("Error when deleting non-existent post", func(t *testing.T) {
		ok, err := r.Mutation().DeletePostByID(createUserContext("5", model.RoleAdmin), "non-existent-id")
		assert.ErrorIs(t, err, access.ErrNotFound)
		assert.False(t, ok)
	})
}

func TestMutationResolver_PublishUnpublish(t *testing.T) {
	r := setupResolver(t).resolver
	ctx := createUserContext("3", model.RoleEducator)

	p, err := r.Mutation().PublishPost(ctx, "6")
	require.NoError(t, err)
	assert.True(t, p.IsPublished)
	assert.False(t, p.IsDraft)
	require.NotNil(t, p.PublishedAt)

	p, err = r.Mutation().UnpublishPost(ctx, "6")
	require.NoError(t, err)
	assert.False(t, p.IsPublished)
	assert.True(t, p.IsDraft)
	assert.Nil(t, p.PublishedAt)

	_, err = r.Mutation().PublishPost(createUserContext("4", model.RoleStudent), "6")
	assert.ErrorIs(t, err, access.ErrForbidden)
}

func TestMutationResolver_LikePost(t *testing.T) {
	r := setupResolver(t).resolver
	ctx := createUserContext("2", model.RoleStudent)

	p, err := r.Mutation().LikePost(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, 30, p.Likes)

	// повторный лайк того же пользователя тоже засчитывается
	p, err = r.Mutation().LikePost(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, 31, p.Likes)

	_, err = r.Mutation().LikePost(context.Background(), "3")
	assert.ErrorIs(t, err, access.ErrUnauthenticated)
}

func TestMutationResolver_Comments(t *testing.T) {
	env := setupResolver(t)
	r := env.resolver

	events, err := r.Subscription().CommentEvents(context.Background(), "3")
	require.NoError(t, err)

	c, err := r.Mutation().AddComment(createUserContext("2", model.RoleStudent), "3", "Great read")
	require.NoError(t, err)
	assert.Equal(t, "3", c.PostID)

	select {
	case ev := <-events:
		assert.Equal(t, subscription.CommentAdded, ev.Type)
		assert.Equal(t, c.ID, ev.Comment.ID)
	case <-time.After(time.Second):
		t.Fatal("comment event was not delivered")
	}

	comments, err := r.Query().Comments(context.Background(), "3")
	require.NoError(t, err)
	assert.Len(t, comments, 2)

	// автор поста может удалить чужой комментарий
	ok, err := r.Mutation().DeleteComment(createUserContext("4", model.RoleStudent), "3", c.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = r.Mutation().DeleteComment(createUserContext("2", model.RoleStudent), "3", "4")
	assert.ErrorIs(t, err, access.ErrForbidden)

	_, err = r.Mutation().AddComment(createUserContext("2", model.RoleStudent), "missing", "hi")
	assert.ErrorIs(t, err, access.ErrNotFound)
}

func TestSubscriptionResolver_UnknownPost(t *testing.T) {
	r := setupResolver(t).resolver

	_, err := r.Subscription().CommentEvents(context.Background(), "missing")
	assert.ErrorIs(t, err, access.ErrNotFound)
}

func TestSubscriptionResolver_UnsubscribeOnCancel(t *testing.T) {
	env := setupResolver(t)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := env.resolver.Subscription().CommentEvents(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, env.manager.Subscribers("1"))

	cancel()
	assert.Eventually(t, func() bool { return env.manager.Subscribers("1") == 0 }, time.Second, 10*time.Millisecond)
}

func TestQueryResolver_Featured(t *testing.T) {
	env := setupResolver(t)
	r := env.resolver

	featured, err := r.Query().Featured(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "1", "2", "5", "3"}, ids(featured))
	assert.Equal(t, 1, env.cache.Sets)

	_, err = r.Query().Featured(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, env.cache.Hits)

	// лайк сбрасывает кеш, и пост 3 поднимается в выборке
	for i := 0; i < 10; i++ {
		_, err = r.Mutation().LikePost(createUserContext("2", model.RoleStudent), "3")
		require.NoError(t, err)
	}
	featured, err = r.Query().Featured(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "1", "3", "2", "5"}, ids(featured))
}

func TestQueryResolver_Posts(t *testing.T) {
	r := setupResolver(t).resolver
	ctx := context.Background()

	all, err := r.Query().Posts(ctx, model.PostFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 5)

	byAuthor, err := r.Query().Posts(ctx, model.PostFilter{Query: "alex johnson"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "4"}, ids(byAuthor))

	oldest, err := r.Query().Posts(ctx, model.PostFilter{Sort: model.SortOldest})
	require.NoError(t, err)
	assert.Equal(t, "4", oldest[0].ID)

	_, err = r.Query().Posts(ctx, model.PostFilter{Sort: "random"})
	assert.ErrorIs(t, err, access.ErrValidation)

	mine, err := r.Query().PostsByAuthor(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "6"}, ids(mine))
}

func TestQueryResolver_Search(t *testing.T) {
	r := setupResolver(t).resolver

	result, err := r.Query().Search(context.Background(), "quantum")
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids(result.Posts))
	require.Len(t, result.Users, 1)
	assert.Equal(t, "4", result.Users[0].ID)

	empty, err := r.Query().Search(context.Background(), "  ")
	require.NoError(t, err)
	assert.Empty(t, empty.Posts)
	assert.Empty(t, empty.Users)
}

func TestQueryResolver_Stats(t *testing.T) {
	r := setupResolver(t).resolver

	_, err := r.Query().Stats(context.Background())
	assert.ErrorIs(t, err, access.ErrUnauthenticated)

	_, err = r.Query().Stats(createUserContext("1", model.RoleEducator))
	assert.ErrorIs(t, err, access.ErrForbidden)

	stats, err := r.Query().Stats(createUserContext("5", model.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, 6, stats.TotalPosts)
	assert.Equal(t, 5, stats.PublishedPosts)
	assert.Equal(t, 1, stats.DraftPosts)
	assert.Equal(t, 5, stats.TotalUsers)
	assert.Equal(t, 2, stats.UsersByRole[model.RoleStudent])
	assert.Equal(t, 5, stats.TotalComments)
	assert.Equal(t, 193, stats.TotalLikes)

	ctx := context.Background()
	byRole, err := r.Stats().UsersByRole(ctx, stats)
	require.NoError(t, err)
	total := 0
	for i, rc := range byRole {
		total += rc.Count
		if rc.Role == model.RoleStudent {
			assert.Equal(t, 2, rc.Count)
		}
		if i > 0 {
			assert.NotEqual(t, byRole[i-1].Role, rc.Role)
		}
	}
	assert.Equal(t, stats.TotalUsers, total)

	byCategory, err := r.Stats().PostsByCategory(ctx, stats)
	require.NoError(t, err)
	total = 0
	for i, cc := range byCategory {
		total += cc.Count
		if i > 0 {
			assert.Less(t, byCategory[i-1].Category, cc.Category)
		}
	}
	assert.Equal(t, stats.TotalPosts, total)
}

func TestMutationResolver_UpdateProfile(t *testing.T) {
	r := setupResolver(t).resolver

	bio := "Updated bio"
	u, err := r.Mutation().UpdateProfile(createUserContext("2", model.RoleStudent), model.ProfilePatch{Bio: &bio})
	require.NoError(t, err)
	require.NotNil(t, u.Bio)
	assert.Equal(t, bio, *u.Bio)

	saved, err := r.Query().User(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, bio, *saved.Bio)

	_, err = r.Mutation().UpdateProfile(context.Background(), model.ProfilePatch{Bio: &bio})
	assert.ErrorIs(t, err, access.ErrUnauthenticated)
}
