package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/andeshop/storefront-go/internal/cart"
	"github.com/andeshop/storefront-go/internal/checkout"
	"github.com/andeshop/storefront-go/internal/config"
	"github.com/andeshop/storefront-go/internal/db"
	"github.com/andeshop/storefront-go/internal/discount"
	"github.com/andeshop/storefront-go/internal/events"
	httpserver "github.com/andeshop/storefront-go/internal/http"
	"github.com/andeshop/storefront-go/internal/recovery"
	"github.com/andeshop/storefront-go/internal/session"
	"github.com/andeshop/storefront-go/internal/upstream"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "storefront").Logger()

	cfg := config.Load()

	if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
		logger.Fatal().Err(err).Msg("run migrations")
	}

	database := db.MustOpen(cfg.DatabaseDSN)
	defer database.Close()

	redisClient := session.MustDialRedis(cfg.RedisAddr)
	defer redisClient.Close()
	sessions := session.NewRedisStore(redisClient)

	rabbitConn := events.MustDialRabbit(cfg.RabbitURL)
	defer rabbitConn.Close()

	publisher, err := events.NewPublisher(rabbitConn)
	if err != nil {
		logger.Fatal().Err(err).Msg("create event publisher")
	}

	api, err := upstream.NewClient(cfg.UpstreamURL, &http.Client{Timeout: cfg.UpstreamTimeout})
	if err != nil {
		logger.Fatal().Err(err).Msg("create upstream client")
	}

	cartRepo := cart.NewRepository(database)
	carts := cart.NewService(cartRepo, logger)
	discounts := discount.NewService(api, sessions, cfg.SessionTTL, logger)
	snapshots := checkout.NewSnapshotRepository(database)
	checkouts := checkout.NewService(carts, discounts, api, snapshots, publisher, cfg.WhatsAppPhone, cfg.WhatsAppDelay, logger)
	flows := recovery.NewService(sessions, cfg.SessionTTL)

	handler := httpserver.NewRouter(httpserver.RouterDeps{
		Carts:            carts,
		Discounts:        discounts,
		Checkouts:        checkouts,
		Snapshots:        snapshots,
		Catalog:          api,
		Admin:            api,
		Recovery:         flows,
		JWTSecret:        []byte(cfg.JWTSecret),
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		Logger:           logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 35 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("storefront listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		logger.Fatal().Err(err).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown")
	}
	if err := publisher.Close(); err != nil {
		logger.Error().Err(err).Msg("publisher close")
	}
}
