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

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"aid-safeguard/tracking/internal/config"
	"aid-safeguard/tracking/internal/pipeline"
	"aid-safeguard/tracking/internal/store"
	"aid-safeguard/tracking/internal/tracker"
	transport "aid-safeguard/tracking/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found — using system environment variables")
	}

	cfg := config.Load()
	logger := log.New(os.Stdout, "[tracking] ", log.LstdFlags)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := store.NewPostgresStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("postgres: %v", err)
	}
	defer pg.Close()

	cache, err := store.NewRedisCache(ctx, cfg)
	if err != nil {
		logger.Fatalf("redis: %v", err)
	}
	defer cache.Close()

	cacheWriter := pipeline.NewCacheWriter(
		cache,
		cfg.CacheChannelSize,
		time.Duration(cfg.CacheTimeoutMS)*time.Millisecond,
		logger,
	)

	svc := tracker.NewService(
		pg,
		cacheWriter,
		cfg.ServerID,
		time.Duration(cfg.StoreTimeoutMS)*time.Millisecond,
		logger,
	)

	handler := transport.NewLoggingMiddleware(logger).Wrap(
		transport.NewServer(svc, cache, cfg.HistoryLimit, logger),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // websocket feed stays open
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cacheWriter.Run(gctx)
		return nil
	})

	g.Go(func() error {
		logger.Printf("server %s listening on :%s", cfg.ServerID, cfg.HTTPPort)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
	logger.Println("shutdown complete")
}
