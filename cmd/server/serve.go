package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VitaminP8/campusconnect/internal/auth"
	"github.com/VitaminP8/campusconnect/internal/config"
	"github.com/VitaminP8/campusconnect/internal/httpx"
	"github.com/VitaminP8/campusconnect/internal/session"
	"github.com/spf13/cobra"
)

var (
	addr   string
	noSeed bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", "", "Адрес HTTP сервера (по умолчанию ADDR или :8080)")
	serveCmd.Flags().BoolVar(&noSeed, "no-seed", false, "Не заполнять хранилище начальными данными")
}

func runServe() error {
	cfg := config.Load()
	if addr != "" {
		cfg.Addr = addr
	}

	a, err := newApp(storageType, cfg, !noSeed)
	if err != nil {
		return err
	}
	defer a.Close()

	registry := session.NewRegistry(a.resolver.UserStore, cfg.TokenTTL)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	api := httpx.NewServer(a.resolver, registry, tokens, a.resolver.Metrics)

	// HTTP сервер
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// запуск HTTP сервера, ListenAndServe блокирует до Shutdown
	go func() {
		log.Printf("Сервер запущен на %s", cfg.Addr)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Ошибка сервера: %v", err)
		}
	}()

	// Ожидание SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Завершение...")

	// закрываем SSE потоки до Shutdown, иначе он будет их ждать
	a.manager.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}

	log.Println("Сервер остановлен корректно")
	return nil
}
