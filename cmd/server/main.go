// Command server runs the course catalog API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mindx-labs/coursecms/internal/httpapi"
	"github.com/mindx-labs/coursecms/internal/platform/cache"
	"github.com/mindx-labs/coursecms/internal/platform/config"
	"github.com/mindx-labs/coursecms/internal/platform/database"
	"github.com/mindx-labs/coursecms/internal/selection"
	"github.com/mindx-labs/coursecms/internal/session"
	"github.com/mindx-labs/coursecms/internal/workspace"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	store, cleanup, err := newStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open storage", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	defer cleanup()
	slog.Info("storage ready", "backend", cfg.Storage.Backend)

	srv, err := newServer(ctx, store)
	if err != nil {
		slog.Error("failed to build server", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      srv.Handler(cfg.CORS.AllowedOrigins),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// newServer assembles the application: workspace over the store, sessions over
// the workspace, selection restored from the store and validated against the
// loaded tree.
func newServer(ctx context.Context, store workspace.Store) (*httpapi.Server, error) {
	notifier := httpapi.NewNotifier()

	ws, err := workspace.New(ctx, store, workspace.WithPublishHook(notifier.Broadcast))
	if err != nil {
		return nil, fmt.Errorf("load workspace: %w", err)
	}

	sessions := session.NewManager(session.DefaultCredentials(), ws)
	sel := selection.Restore(ctx, store, ws.Draft())

	return httpapi.NewServer(ws, sessions, sel, notifier), nil
}

// newStore opens the configured storage backend. The cleanup func closes the
// underlying connection; for the memory backend it is a no-op.
func newStore(ctx context.Context, cfg *config.Config) (workspace.Store, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			return nil, nil, err
		}
		return workspace.NewRedisStore(c), func() { c.Close() }, nil

	case config.BackendPostgres:
		db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			return nil, nil, err
		}
		store, err := workspace.NewPostgresStore(ctx, db.Pool)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil

	default:
		return workspace.NewMemoryStore(), func() {}, nil
	}
}

func setupLogger(cfg config.LogConfig) {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}
