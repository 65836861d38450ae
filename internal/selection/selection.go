// Package selection tracks which learning path and course the UI has open and
// keeps that pair consistent with the catalog tree.
package selection

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mindx-labs/coursecms/internal/catalog"
)

// Store persists the two selection values across restarts.
type Store interface {
	LoadSelection(ctx context.Context) (pathID, courseID string, err error)
	SaveSelection(ctx context.Context, pathID, courseID string) error
}

// State holds the selected path and course IDs. Empty string means nothing
// selected. SelectedCourseID is only meaningful together with SelectedPathID;
// Validate enforces that.
type State struct {
	mu       sync.RWMutex
	store    Store
	pathID   string
	courseID string
}

// Restore loads the persisted selection and validates it against tree, so a
// selection that survived a deletion in an earlier session is dropped before
// first render.
func Restore(ctx context.Context, store Store, tree catalog.Tree) *State {
	s := &State{store: store}

	pathID, courseID, err := store.LoadSelection(ctx)
	if err != nil {
		slog.Warn("selection restore failed", "error", err)
		return s
	}
	s.pathID = pathID
	s.courseID = courseID
	s.Validate(ctx, tree)
	return s
}

// SetPath selects a learning path. Changing the path always deselects the
// course; that composition rule lives here with the setter rather than in
// Validate.
func (s *State) SetPath(ctx context.Context, pathID string) {
	s.mu.Lock()
	s.pathID = pathID
	s.courseID = ""
	s.mu.Unlock()
	s.persist(ctx)
}

// SetCourse selects a course within the currently selected path.
func (s *State) SetCourse(ctx context.Context, courseID string) {
	s.mu.Lock()
	s.courseID = courseID
	s.mu.Unlock()
	s.persist(ctx)
}

// Clear resets both selections.
func (s *State) Clear(ctx context.Context) {
	s.mu.Lock()
	s.pathID = ""
	s.courseID = ""
	s.mu.Unlock()
	s.persist(ctx)
}

// Validate reconciles the selection with tree: a missing path forces both IDs
// to empty, a course that is not inside the selected path forces the course ID
// to empty. Call it whenever the tree or either selection changes.
func (s *State) Validate(ctx context.Context, tree catalog.Tree) {
	s.mu.Lock()
	changed := false

	if s.pathID != "" {
		if _, ok := catalog.FindPath(tree, s.pathID); !ok {
			s.pathID = ""
			s.courseID = ""
			changed = true
		}
	}
	if s.courseID != "" && s.pathID != "" {
		if _, ok := catalog.FindCourse(tree, s.pathID, s.courseID); !ok {
			s.courseID = ""
			changed = true
		}
	}
	if s.courseID != "" && s.pathID == "" {
		s.courseID = ""
		changed = true
	}
	s.mu.Unlock()

	if changed {
		s.persist(ctx)
	}
}

// PathID returns the selected path ID, "" when none.
func (s *State) PathID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pathID
}

// CourseID returns the selected course ID, "" when none.
func (s *State) CourseID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.courseID
}

func (s *State) persist(ctx context.Context) {
	if s.store == nil {
		return
	}
	s.mu.RLock()
	pathID, courseID := s.pathID, s.courseID
	s.mu.RUnlock()

	if err := s.store.SaveSelection(ctx, pathID, courseID); err != nil {
		// Selection is a convenience; losing it must not break anything.
		slog.Warn("selection persist failed", "error", err)
	}
}
