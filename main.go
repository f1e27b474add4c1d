package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"springworks/internal/cache"
	"springworks/internal/config"
	"springworks/internal/database"
	"springworks/internal/jobs"
	"springworks/internal/logging"
	"springworks/internal/server"
	"springworks/internal/websocket"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file (default "+config.DefaultFile+")")
	dotenv := flag.String("env", ".env", "optional .env file")
	port := flag.Int("port", 0, "HTTP port, overrides the configuration")
	dbPath := flag.String("db", "", "SQLite database path, overrides the configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath, *dotenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	flush, err := logging.Init(cfg.Logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer flush()

	if err := run(cfg); err != nil {
		zap.S().Errorw("server stopped", "error", err)
		flush()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	log := zap.S()

	db, err := database.Open(cfg.Database.Path, database.Options{
		MaxOpenConns:  cfg.Database.MaxOpenConns,
		BusyTimeoutMS: cfg.Database.BusyTimeoutMS,
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	var c cache.Cache
	ttl := time.Duration(cfg.Redis.TTLSeconds) * time.Second
	if cfg.RedisEnabled() {
		rc, err := cache.NewRedis(cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      ttl,
		})
		if err != nil {
			log.Warnw("redis unavailable, using in-memory cache", "addr", cfg.Redis.Addr, "error", err)
			c = cache.NewMemory(ttl)
		} else {
			c = rc
		}
	} else {
		c = cache.NewMemory(ttl)
	}
	defer c.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &server.App{Config: cfg, DB: db, Hub: websocket.NewHub(), Cache: c}
	limiter := server.NewRateLimiter()
	h := newHandlers(app, limiter)
	h.products.WatchInvalidation(ctx)

	if cfg.Jobs.Enable {
		sched, err := jobs.New(db, cfg.Jobs, cfg.Server.Location, func(ctx context.Context) error {
			_, err := h.products.Warm(ctx)
			return err
		})
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           newRouter(app, h, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("springworks server starting", "addr", "http://localhost"+srv.Addr, "db", cfg.Database.Path)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSeconds)*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
