package cache

import (
	"context"
	"testing"
	"time"

	"github.com/VitaminP8/campusconnect/graph/model"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// Реального Redis в тестах нет: проверяем, что ошибки соединения
// возвращаются вызывающему, а не теряются.
func TestRedisFeaturedCache_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewRedisFeaturedCache(client, time.Minute)
	ctx := context.Background()

	_, ok, err := c.GetFeatured(ctx)
	assert.Error(t, err)
	assert.False(t, ok)

	assert.Error(t, c.SetFeatured(ctx, []*model.Post{{ID: "1"}}))
	assert.Error(t, c.Invalidate(ctx))
	assert.Error(t, c.Ping(ctx))
}
