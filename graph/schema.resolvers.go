package graph

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/VitaminP8/campusconnect/graph/model"
	"github.com/VitaminP8/campusconnect/internal/access"
	"github.com/VitaminP8/campusconnect/internal/auth"
	"github.com/VitaminP8/campusconnect/internal/feed"
	"github.com/VitaminP8/campusconnect/internal/post"
	"github.com/VitaminP8/campusconnect/internal/subscription"
)

type MutationResolver interface {
	CreatePost(ctx context.Context, input model.NewPost) (*model.Post, error)
	UpdatePost(ctx context.Context, id string, patch model.PostPatch) (*model.Post, error)
	DeletePostByID(ctx context.Context, id string) (bool, error)
	PublishPost(ctx context.Context, id string) (*model.Post, error)
	UnpublishPost(ctx context.Context, id string) (*model.Post, error)
	LikePost(ctx context.Context, id string) (*model.Post, error)
	AddComment(ctx context.Context, postID string, content string) (*model.Comment, error)
	DeleteComment(ctx context.Context, postID string, commentID string) (bool, error)
	UpdateProfile(ctx context.Context, patch model.ProfilePatch) (*model.User, error)
}

type QueryResolver interface {
	Post(ctx context.Context, id string) (*model.Post, error)
	Posts(ctx context.Context, filter model.PostFilter) ([]*model.Post, error)
	AllPosts(ctx context.Context) ([]*model.Post, error)
	Featured(ctx context.Context) ([]*model.Post, error)
	PostsByAuthor(ctx context.Context, userID string) ([]*model.Post, error)
	Comments(ctx context.Context, postID string) ([]*model.Comment, error)
	Users(ctx context.Context) ([]*model.User, error)
	User(ctx context.Context, id string) (*model.User, error)
	Search(ctx context.Context, query string) (*model.SearchResult, error)
	Stats(ctx context.Context) (*model.Stats, error)
}

type SubscriptionResolver interface {
	CommentEvents(ctx context.Context, postID string) (<-chan subscription.Event, error)
}

type StatsResolver interface {
	UsersByRole(ctx context.Context, obj *model.Stats) ([]*model.RoleCount, error)
	PostsByCategory(ctx context.Context, obj *model.Stats) ([]*model.CategoryCount, error)
}

// CreatePost is the resolver for the createPost field.
func (r *mutationResolver) CreatePost(ctx context.Context, input model.NewPost) (*model.Post, error) {
	p, err := r.PostStore.CreatePost(ctx, input)
	r.Metrics.Observe("create_post", err)
	if err != nil {
		return nil, err
	}
	r.invalidateFeatured(ctx)
	return p, nil
}

// UpdatePost is the resolver for the updatePost field.
func (r *mutationResolver) UpdatePost(ctx context.Context, id string, patch model.PostPatch) (*model.Post, error) {
	p, err := r.PostStore.UpdatePost(ctx, id, patch)
	r.Metrics.Observe("update_post", err)
	if err != nil {
		return nil, err
	}
	r.invalidateFeatured(ctx)
	return p, nil
}

// DeletePostByID is the resolver for the deletePostById field.
func (r *mutationResolver) DeletePostByID(ctx context.Context, id string) (bool, error) {
	err := r.PostStore.DeletePostById(ctx, id)
	r.Metrics.Observe("delete_post", err)
	if err != nil {
		return false, err
	}
	r.invalidateFeatured(ctx)
	return true, nil
}

// PublishPost is the resolver for the publishPost field.
func (r *mutationResolver) PublishPost(ctx context.Context, id string) (*model.Post, error) {
	return r.UpdatePost(ctx, id, post.PublishPatch())
}

// UnpublishPost is the resolver for the unpublishPost field.
func (r *mutationResolver) UnpublishPost(ctx context.Context, id string) (*model.Post, error) {
	return r.UpdatePost(ctx, id, post.UnpublishPatch())
}

// LikePost is the resolver for the likePost field.
func (r *mutationResolver) LikePost(ctx context.Context, id string) (*model.Post, error) {
	p, err := r.PostStore.LikePost(ctx, id)
	r.Metrics.Observe("like_post", err)
	if err != nil {
		return nil, err
	}
	r.invalidateFeatured(ctx)
	return p, nil
}

// AddComment is the resolver for the addComment field.
func (r *mutationResolver) AddComment(ctx context.Context, postID string, content string) (*model.Comment, error) {
	c, err := r.CommentStore.CreateComment(ctx, postID, content)
	r.Metrics.Observe("add_comment", err)
	if err != nil {
		return nil, err
	}
	r.invalidateFeatured(ctx)
	return c, nil
}

// DeleteComment is the resolver for the deleteComment field.
func (r *mutationResolver) DeleteComment(ctx context.Context, postID string, commentID string) (bool, error) {
	err := r.CommentStore.DeleteComment(ctx, postID, commentID)
	r.Metrics.Observe("delete_comment", err)
	if err != nil {
		return false, err
	}
	r.invalidateFeatured(ctx)
	return true, nil
}

// UpdateProfile is the resolver for the updateProfile field.
func (r *mutationResolver) UpdateProfile(ctx context.Context, patch model.ProfilePatch) (*model.User, error) {
	u, err := r.UserStore.UpdateProfile(ctx, patch)
	r.Metrics.Observe("update_profile", err)
	return u, err
}

// Post is the resolver for the post field.
func (r *queryResolver) Post(ctx context.Context, id string) (*model.Post, error) {
	return r.PostStore.GetPostById(id)
}

// Posts is the resolver for the posts field.
func (r *queryResolver) Posts(ctx context.Context, filter model.PostFilter) ([]*model.Post, error) {
	if filter.Sort != "" && !filter.Sort.IsValid() {
		return nil, fmt.Errorf("unknown sort %q: %w", filter.Sort, access.ErrValidation)
	}

	posts, err := r.PostStore.GetAllPosts()
	if err != nil {
		return nil, err
	}
	users, err := r.UserStore.GetAllUsers()
	if err != nil {
		return nil, err
	}
	return feed.List(posts, filter, feed.NamesOf(users)), nil
}

// AllPosts is the resolver for the allPosts field.
func (r *queryResolver) AllPosts(ctx context.Context) ([]*model.Post, error) {
	return r.PostStore.GetAllPosts()
}

// Featured is the resolver for the featured field.
func (r *queryResolver) Featured(ctx context.Context) ([]*model.Post, error) {
	if r.Cache != nil {
		posts, ok, err := r.Cache.GetFeatured(ctx)
		if err != nil {
			log.Printf("featured cache read failed: %v", err)
		} else if ok {
			return posts, nil
		}
	}

	posts, err := r.PostStore.GetAllPosts()
	if err != nil {
		return nil, err
	}
	featured := feed.Featured(posts)

	if r.Cache != nil {
		if err := r.Cache.SetFeatured(ctx, featured); err != nil {
			log.Printf("featured cache write failed: %v", err)
		}
	}
	return featured, nil
}

// PostsByAuthor is the resolver for the postsByAuthor field.
func (r *queryResolver) PostsByAuthor(ctx context.Context, userID string) ([]*model.Post, error) {
	return r.PostStore.GetPostsByAuthor(userID)
}

// Comments is the resolver for the comments field.
func (r *queryResolver) Comments(ctx context.Context, postID string) ([]*model.Comment, error) {
	return r.CommentStore.GetComments(postID)
}

// Users is the resolver for the users field.
func (r *queryResolver) Users(ctx context.Context) ([]*model.User, error) {
	return r.UserStore.GetAllUsers()
}

// User is the resolver for the user field.
func (r *queryResolver) User(ctx context.Context, id string) (*model.User, error) {
	return r.UserStore.GetUserByID(id)
}

// Search is the resolver for the search field.
func (r *queryResolver) Search(ctx context.Context, query string) (*model.SearchResult, error) {
	posts, err := r.PostStore.GetAllPosts()
	if err != nil {
		return nil, err
	}
	users, err := r.UserStore.GetAllUsers()
	if err != nil {
		return nil, err
	}
	result := feed.Search(posts, users, query)
	return &result, nil
}

// Stats is the resolver for the stats field.
func (r *queryResolver) Stats(ctx context.Context) (*model.Stats, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !principal.IsAdmin() {
		return nil, fmt.Errorf("stats are available to admins only: %w", access.ErrForbidden)
	}

	posts, err := r.PostStore.GetAllPosts()
	if err != nil {
		return nil, err
	}
	users, err := r.UserStore.GetAllUsers()
	if err != nil {
		return nil, err
	}
	stats := feed.Summarize(posts, users)
	return &stats, nil
}

// UsersByRole is the resolver for the usersByRole field.
func (r *statsResolver) UsersByRole(ctx context.Context, obj *model.Stats) ([]*model.RoleCount, error) {
	out := make([]*model.RoleCount, 0, len(model.AllRole))
	for _, role := range model.AllRole {
		if n, ok := obj.UsersByRole[role]; ok {
			out = append(out, &model.RoleCount{Role: role, Count: n})
		}
	}
	return out, nil
}

// PostsByCategory is the resolver for the postsByCategory field.
func (r *statsResolver) PostsByCategory(ctx context.Context, obj *model.Stats) ([]*model.CategoryCount, error) {
	out := make([]*model.CategoryCount, 0, len(obj.PostsByCategory))
	for category, n := range obj.PostsByCategory {
		out = append(out, &model.CategoryCount{Category: category, Count: n})
	}
	// map не упорядочен
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

// CommentEvents is the resolver for the commentEvents field.
func (r *subscriptionResolver) CommentEvents(ctx context.Context, postID string) (<-chan subscription.Event, error) {
	// проверка наличия поста
	if _, err := r.PostStore.GetPostById(postID); err != nil {
		return nil, err
	}

	ch, unsubscribe := r.SubscriptionManager.Subscribe(postID)

	go func() {
		<-ctx.Done()
		unsubscribe()
	}()

	return ch, nil
}

func (r *Resolver) invalidateFeatured(ctx context.Context) {
	if r.Cache == nil {
		return
	}
	if err := r.Cache.Invalidate(ctx); err != nil {
		log.Printf("featured cache invalidation failed: %v", err)
	}
}
