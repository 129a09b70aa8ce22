package graph

import (
	"github.com/VitaminP8/campusconnect/internal/cache"
	"github.com/VitaminP8/campusconnect/internal/comment"
	"github.com/VitaminP8/campusconnect/internal/metrics"
	"github.com/VitaminP8/campusconnect/internal/post"
	"github.com/VitaminP8/campusconnect/internal/subscription"
	"github.com/VitaminP8/campusconnect/internal/user"
)

// Resolver служит корневой точкой для всех резолверов.
// Cache и Metrics необязательны.
type Resolver struct {
	PostStore           post.PostStorage
	CommentStore        comment.CommentStorage
	UserStore           user.UserStorage
	SubscriptionManager subscription.Manager
	Cache               cache.FeaturedCache
	Metrics             *metrics.Metrics
}

func (r *Resolver) Mutation() MutationResolver { return &mutationResolver{r} }

func (r *Resolver) Query() QueryResolver { return &queryResolver{r} }

func (r *Resolver) Subscription() SubscriptionResolver { return &subscriptionResolver{r} }

func (r *Resolver) Stats() StatsResolver { return &statsResolver{r} }

type mutationResolver struct{ *Resolver }
type queryResolver struct{ *Resolver }
type subscriptionResolver struct{ *Resolver }
type statsResolver struct{ *Resolver }
