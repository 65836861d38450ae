// Package workspace owns the draft and published copies of the catalog tree.
// All mutations flow through Mutate; nothing else may write to the draft.
package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mindx-labs/coursecms/internal/catalog"
)

// Op is a pure tree operation applied to the draft. Ops come from the catalog
// package and never mutate their input.
type Op func(catalog.Tree) (catalog.Tree, error)

// Workspace holds the published tree (last saved snapshot) and the draft tree
// (editable working copy). Dirty is true whenever the two differ.
type Workspace struct {
	mu        sync.RWMutex
	store     Store
	published catalog.Tree
	draft     catalog.Tree
	dirty     bool
	onPublish func(catalog.Tree)
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithPublishHook registers fn to be called with a copy of the published tree
// after every successful Save.
func WithPublishHook(fn func(catalog.Tree)) Option {
	return func(w *Workspace) { w.onPublish = fn }
}

// New loads the published tree from the store, falling back to the built-in
// seed when the store is empty or its blob is unreadable. Storage trouble on
// load is never fatal.
func New(ctx context.Context, store Store, opts ...Option) (*Workspace, error) {
	if store == nil {
		store = NewMemoryStore()
	}

	w := &Workspace{store: store}
	for _, opt := range opts {
		opt(w)
	}

	w.published = loadTree(ctx, store)
	w.draft = w.published.Clone()
	return w, nil
}

func loadTree(ctx context.Context, store Store) catalog.Tree {
	data, err := store.LoadTree(ctx)
	if err != nil {
		slog.Warn("catalog load failed, using seed data", "error", err)
		return catalog.Seed()
	}
	if data == nil {
		slog.Info("no stored catalog, using seed data")
		return catalog.Seed()
	}

	if err := catalog.ValidateJSON(data); err != nil {
		slog.Warn("stored catalog rejected, using seed data", "error", err)
		return catalog.Seed()
	}

	var tree catalog.Tree
	if err := json.Unmarshal(data, &tree); err != nil {
		slog.Warn("stored catalog unreadable, using seed data", "error", err)
		return catalog.Seed()
	}

	slog.Info("catalog loaded from store", "paths", len(tree))
	return tree
}

// Mutate applies op to the draft and recomputes the dirty flag. The published
// tree is never touched. On error the draft is left as op returned it, which
// for catalog operations means unchanged.
func (w *Workspace) Mutate(op Op) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next, err := op(w.draft)
	if err != nil {
		return err
	}
	w.draft = next
	w.dirty = !catalog.Equal(w.draft, w.published)
	return nil
}

// Save publishes the draft: the serialized tree is written to the store under
// the fixed catalog key, then published becomes a deep copy of the draft so
// later draft edits can never alter the saved snapshot. A store write failure
// leaves both trees untouched and is returned to the caller.
func (w *Workspace) Save(ctx context.Context) error {
	w.mu.Lock()

	data, err := json.Marshal(w.draft)
	if err != nil {
		w.mu.Unlock()
		return fmt.Errorf("serialize catalog: %w", err)
	}
	if err := w.store.SaveTree(ctx, data); err != nil {
		w.mu.Unlock()
		return fmt.Errorf("persist catalog: %w", err)
	}

	w.published = w.draft.Clone()
	w.dirty = false
	published := w.published.Clone()
	hook := w.onPublish
	w.mu.Unlock()

	slog.Info("catalog published", "bytes", len(data))
	if hook != nil {
		hook(published)
	}
	return nil
}

// Discard replaces the draft with a deep copy of the published tree.
func (w *Workspace) Discard() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.draft = w.published.Clone()
	w.dirty = false
}

// Dirty reports whether the draft has diverged from the published tree.
func (w *Workspace) Dirty() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.dirty
}

// Draft returns the current draft tree. Callers must treat it as read-only;
// every write goes through Mutate.
func (w *Workspace) Draft() catalog.Tree {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.draft
}

// Published returns the last saved tree. Read-only, as with Draft.
func (w *Workspace) Published() catalog.Tree {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.published
}

// Store exposes the underlying store, shared with the selection state.
func (w *Workspace) Store() Store {
	return w.store
}
