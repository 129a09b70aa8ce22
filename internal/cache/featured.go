package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/VitaminP8/campusconnect/graph/model"
	"github.com/redis/go-redis/v9"
)

const featuredKey = "featured_posts"

// FeaturedCache хранит готовую выборку избранных постов
type FeaturedCache interface {
	GetFeatured(ctx context.Context) ([]*model.Post, bool, error)
	SetFeatured(ctx context.Context, posts []*model.Post) error
	Invalidate(ctx context.Context) error
}

func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

type RedisFeaturedCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisFeaturedCache(client *redis.Client, ttl time.Duration) *RedisFeaturedCache {
	return &RedisFeaturedCache{client: client, ttl: ttl}
}

func (c *RedisFeaturedCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisFeaturedCache) GetFeatured(ctx context.Context) ([]*model.Post, bool, error) {
	data, err := c.client.Get(ctx, featuredKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("could not get featured posts from cache: %w", err)
	}

	var posts []*model.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, false, fmt.Errorf("could not decode featured posts: %w", err)
	}
	return posts, true, nil
}

func (c *RedisFeaturedCache) SetFeatured(ctx context.Context, posts []*model.Post) error {
	data, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("could not encode featured posts: %w", err)
	}

	if err := c.client.Set(ctx, featuredKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("could not cache featured posts: %w", err)
	}
	return nil
}

func (c *RedisFeaturedCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, featuredKey).Err(); err != nil {
		return fmt.Errorf("could not invalidate featured posts: %w", err)
	}
	return nil
}
