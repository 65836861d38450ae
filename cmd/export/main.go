// Command export writes the published catalog tree to an XLSX workbook.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/mindx-labs/coursecms/internal/export"
	"github.com/mindx-labs/coursecms/internal/platform/cache"
	"github.com/mindx-labs/coursecms/internal/platform/config"
	"github.com/mindx-labs/coursecms/internal/platform/database"
	"github.com/mindx-labs/coursecms/internal/workspace"
)

func main() {
	out := flag.String("o", "catalog.xlsx", "output file path")
	flag.Parse()

	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	store, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open storage", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	ws, err := workspace.New(ctx, store)
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	f, err := export.Workbook(ws.Published())
	if err != nil {
		slog.Error("failed to build workbook", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := f.SaveAs(*out); err != nil {
		slog.Error("failed to write workbook", "path", *out, "error", err)
		os.Exit(1)
	}
	slog.Info("catalog exported", "path", *out, "paths", len(ws.Published()))
}

func openStore(ctx context.Context, cfg *config.Config) (workspace.Store, func(), error) {
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
