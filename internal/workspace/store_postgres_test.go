package workspace_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mindx-labs/coursecms/internal/workspace"
)

// startPostgres spins up a throwaway Postgres container and returns a pool
// connected to it.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("cms"),
		tcpostgres.WithUsername("cms"),
		tcpostgres.WithPassword("cms"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	pool := startPostgres(t)

	store, err := workspace.NewPostgresStore(ctx, pool)
	if err != nil {
		t.Fatalf("NewPostgresStore() error = %v", err)
	}

	t.Run("tree round trip", func(t *testing.T) {
		blob, err := store.LoadTree(ctx)
		if err != nil {
			t.Fatalf("LoadTree() error = %v", err)
		}
		if blob != nil {
			t.Errorf("LoadTree() on empty table = %q, want nil", blob)
		}

		if err := store.SaveTree(ctx, []byte(`[{"id":"lp-x"}]`)); err != nil {
			t.Fatalf("SaveTree() error = %v", err)
		}
		// Overwrite exercises the upsert path.
		if err := store.SaveTree(ctx, []byte(`[]`)); err != nil {
			t.Fatalf("SaveTree() overwrite error = %v", err)
		}

		blob, err = store.LoadTree(ctx)
		if err != nil {
			t.Fatalf("LoadTree() error = %v", err)
		}
		if string(blob) != "[]" {
			t.Errorf("LoadTree() = %q, want []", blob)
		}
	})

	t.Run("selection", func(t *testing.T) {
		if err := store.SaveSelection(ctx, "lp-coding", "c-code-1"); err != nil {
			t.Fatalf("SaveSelection() error = %v", err)
		}
		pathID, courseID, err := store.LoadSelection(ctx)
		if err != nil {
			t.Fatalf("LoadSelection() error = %v", err)
		}
		if pathID != "lp-coding" || courseID != "c-code-1" {
			t.Errorf("selection = %q/%q, want lp-coding/c-code-1", pathID, courseID)
		}

		if err := store.SaveSelection(ctx, "", ""); err != nil {
			t.Fatalf("SaveSelection() clear error = %v", err)
		}
		pathID, courseID, err = store.LoadSelection(ctx)
		if err != nil {
			t.Fatalf("LoadSelection() error = %v", err)
		}
		if pathID != "" || courseID != "" {
			t.Errorf("cleared selection = %q/%q, want empty", pathID, courseID)
		}
	})
}
