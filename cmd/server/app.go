package main

import (
	"context"
	"fmt"
	"log"

	"github.com/VitaminP8/campusconnect/graph"
	"github.com/VitaminP8/campusconnect/internal/cache"
	"github.com/VitaminP8/campusconnect/internal/config"
	"github.com/VitaminP8/campusconnect/internal/metrics"
	"github.com/VitaminP8/campusconnect/internal/storage/memory"
	"github.com/VitaminP8/campusconnect/internal/storage/postgres"
	"github.com/VitaminP8/campusconnect/internal/subscription"
)

// app - собранные зависимости сервера
type app struct {
	resolver *graph.Resolver
	manager  *subscription.SubscriptionManager
	closers  []func() error
}

func (a *app) Close() {
	a.manager.Close()
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			log.Printf("close: %v", err)
		}
	}
}

func newApp(storage string, cfg config.Config, seed bool) (*app, error) {
	manager := subscription.NewSubscriptionManager()
	a := &app{
		manager: manager,
		resolver: &graph.Resolver{
			SubscriptionManager: manager,
			Metrics:             metrics.New(),
		},
	}

	switch storage {
	case "postgres":
		if err := postgres.InitDB(config.DSN()); err != nil {
			return nil, err
		}
		a.closers = append(a.closers, postgres.CloseDB)
		if err := postgres.Migrate(); err != nil {
			a.Close()
			return nil, err
		}

		log.Println("Используется PostgreSQL хранилище")
		users := postgres.NewUserPostgresStorage(cfg.BcryptCost)
		if seed {
			err := postgres.Seed(users, memory.SeedUsers(), memory.SeedPosts(), memory.SeedPendingIndexNumbers, memory.SeedPassword)
			if err != nil {
				a.Close()
				return nil, err
			}
		}
		a.resolver.PostStore = postgres.NewPostPostgresStorage()
		a.resolver.CommentStore = postgres.NewCommentPostgresStorage(manager)
		a.resolver.UserStore = users

	case "memory":
		log.Println("Используется in-memory хранилище")
		posts := memory.NewPostMemoryStorage()
		users := memory.NewUserMemoryStorageWithCost(cfg.BcryptCost)
		if seed {
			if err := memory.Seed(users, posts); err != nil {
				return nil, err
			}
		}
		a.resolver.PostStore = posts
		a.resolver.CommentStore = memory.NewCommentMemoryStorage(posts, manager)
		a.resolver.UserStore = users

	default:
		return nil, fmt.Errorf("неизвестный тип хранилища: %s", storage)
	}

	if cfg.RedisAddr != "" {
		client := cache.NewRedisClient(cfg.RedisAddr)
		featured := cache.NewRedisFeaturedCache(client, cfg.FeaturedTTL)
		if err := featured.Ping(context.Background()); err != nil {
			log.Printf("Redis недоступен, кеш избранного выключен: %v", err)
			_ = client.Close()
		} else {
			log.Printf("Кеш избранного в Redis %s", cfg.RedisAddr)
			a.resolver.Cache = featured
			a.closers = append(a.closers, client.Close)
		}
	}

	return a, nil
}
