package selection_test

import (
	"context"
	"testing"

	"github.com/mindx-labs/coursecms/internal/catalog"
	"github.com/mindx-labs/coursecms/internal/selection"
	"github.com/mindx-labs/coursecms/internal/workspace"
)

func seedTree() catalog.Tree {
	return catalog.Seed()
}

func TestRestore_Empty(t *testing.T) {
	s := selection.Restore(context.Background(), workspace.NewMemoryStore(), seedTree())

	if s.PathID() != "" || s.CourseID() != "" {
		t.Errorf("fresh selection = %q/%q, want empty", s.PathID(), s.CourseID())
	}
}

func TestRestore_ValidSelectionSurvives(t *testing.T) {
	ctx := context.Background()
	store := workspace.NewMemoryStore()
	if err := store.SaveSelection(ctx, "lp-coding", "c-code-1"); err != nil {
		t.Fatalf("SaveSelection() error = %v", err)
	}

	s := selection.Restore(ctx, store, seedTree())
	if s.PathID() != "lp-coding" || s.CourseID() != "c-code-1" {
		t.Errorf("restored = %q/%q, want lp-coding/c-code-1", s.PathID(), s.CourseID())
	}
}

func TestRestore_StaleSelectionDropped(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name                     string
		pathID, courseID         string
		wantPathID, wantCourseID string
	}{
		{"deleted path clears both", "lp-gone", "c-code-1", "", ""},
		{"deleted course clears course", "lp-coding", "c-gone", "lp-coding", ""},
		{"course from another path", "lp-art", "c-code-1", "lp-art", ""},
		{"course without path", "", "c-code-1", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := workspace.NewMemoryStore()
			if err := store.SaveSelection(ctx, tt.pathID, tt.courseID); err != nil {
				t.Fatalf("SaveSelection() error = %v", err)
			}

			s := selection.Restore(ctx, store, seedTree())
			if s.PathID() != tt.wantPathID || s.CourseID() != tt.wantCourseID {
				t.Errorf("restored = %q/%q, want %q/%q",
					s.PathID(), s.CourseID(), tt.wantPathID, tt.wantCourseID)
			}

			// The reconciled values are persisted, not just held in memory.
			pathID, courseID, err := store.LoadSelection(ctx)
			if err != nil {
				t.Fatalf("LoadSelection() error = %v", err)
			}
			if pathID != tt.wantPathID || courseID != tt.wantCourseID {
				t.Errorf("persisted = %q/%q, want %q/%q", pathID, courseID, tt.wantPathID, tt.wantCourseID)
			}
		})
	}
}

func TestSetPath_ClearsCourse(t *testing.T) {
	ctx := context.Background()
	store := workspace.NewMemoryStore()
	s := selection.Restore(ctx, store, seedTree())

	s.SetPath(ctx, "lp-coding")
	s.SetCourse(ctx, "c-code-1")
	s.SetPath(ctx, "lp-art")

	if s.PathID() != "lp-art" || s.CourseID() != "" {
		t.Errorf("selection = %q/%q, want lp-art/\"\"", s.PathID(), s.CourseID())
	}

	pathID, courseID, _ := store.LoadSelection(ctx)
	if pathID != "lp-art" || courseID != "" {
		t.Errorf("persisted = %q/%q, want lp-art/\"\"", pathID, courseID)
	}
}

func TestValidate_AfterDeletion(t *testing.T) {
	ctx := context.Background()
	store := workspace.NewMemoryStore()
	tree := seedTree()

	s := selection.Restore(ctx, store, tree)
	s.SetPath(ctx, "lp-coding")
	s.SetCourse(ctx, "c-code-1")

	next, err := catalog.DeleteCourse(tree, "lp-coding", "c-code-1")
	if err != nil {
		t.Fatalf("DeleteCourse() error = %v", err)
	}
	s.Validate(ctx, next)

	if s.PathID() != "lp-coding" {
		t.Errorf("PathID() = %q, want lp-coding", s.PathID())
	}
	if s.CourseID() != "" {
		t.Errorf("CourseID() = %q, want empty after course deletion", s.CourseID())
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	store := workspace.NewMemoryStore()
	s := selection.Restore(ctx, store, seedTree())

	s.SetPath(ctx, "lp-coding")
	s.SetCourse(ctx, "c-code-1")
	s.Clear(ctx)

	if s.PathID() != "" || s.CourseID() != "" {
		t.Errorf("selection = %q/%q after clear", s.PathID(), s.CourseID())
	}
	pathID, courseID, _ := store.LoadSelection(ctx)
	if pathID != "" || courseID != "" {
		t.Errorf("persisted = %q/%q after clear", pathID, courseID)
	}
}
