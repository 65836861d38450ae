package catalog

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNotFound is returned when a path, course, level, or document ID does not
// resolve. Every operation returns the input tree unchanged alongside it, so
// callers that want no-op-on-miss semantics can ignore the error.
var ErrNotFound = errors.New("not found")

// CourseFields holds the caller-supplied fields for a new course. ID, levels,
// and documents are filled in by AddCourse.
type CourseFields struct {
	Name       string
	Year       int
	AgeGroup   string
	Language   string
	Tools      []string
	Content    string
	Objectives string
}

// CourseUpdate is a partial course update. Nil fields are left untouched.
type CourseUpdate struct {
	Name       *string
	Year       *int
	AgeGroup   *string
	Language   *string
	Tools      *[]string
	Content    *string
	Objectives *string
}

// LevelFields holds the caller-supplied fields for a new level.
type LevelFields struct {
	Name       LevelName
	Content    string
	Objectives string
}

// LevelUpdate is a partial level update. Nil fields are left untouched.
type LevelUpdate struct {
	Name       *LevelName
	Content    *string
	Objectives *string
}

// DocumentFields holds the caller-supplied fields for a new document.
type DocumentFields struct {
	Category DocumentCategory
	Name     string
	URL      string
}

// DocumentUpdate is a partial document update. Nil fields are left untouched.
type DocumentUpdate struct {
	Category *DocumentCategory
	Name     *string
	URL      *string
}

// updatePath rebuilds the tree with fn applied to the named path. Only the
// affected path is replaced; every other element is shared with the input.
func updatePath(tree Tree, pathID string, fn func(LearningPath) (LearningPath, error)) (Tree, error) {
	for i := range tree {
		if tree[i].ID != pathID {
			continue
		}
		p, err := fn(tree[i])
		if err != nil {
			return tree, err
		}
		out := make(Tree, len(tree))
		copy(out, tree)
		out[i] = p
		return out, nil
	}
	return tree, fmt.Errorf("learning path %q: %w", pathID, ErrNotFound)
}

// updateCourse rebuilds the tree with fn applied to the named course.
func updateCourse(tree Tree, pathID, courseID string, fn func(Course) (Course, error)) (Tree, error) {
	return updatePath(tree, pathID, func(p LearningPath) (LearningPath, error) {
		for i := range p.Courses {
			if p.Courses[i].ID != courseID {
				continue
			}
			c, err := fn(p.Courses[i])
			if err != nil {
				return p, err
			}
			courses := make([]Course, len(p.Courses))
			copy(courses, p.Courses)
			courses[i] = c
			p.Courses = courses
			return p, nil
		}
		return p, fmt.Errorf("course %q: %w", courseID, ErrNotFound)
	})
}

// updateDocuments resolves the document list named by parent and rebuilds the
// tree with fn applied to it. Resolution rule: LevelID present → level list,
// else CourseID present → course list, else path list. This is the single
// place where container resolution lives; all document operations go through it.
func updateDocuments(tree Tree, parent ParentID, fn func([]Document) ([]Document, error)) (Tree, error) {
	switch {
	case parent.LevelID != "":
		return updateCourse(tree, parent.PathID, parent.CourseID, func(c Course) (Course, error) {
			for i := range c.Levels {
				if c.Levels[i].ID != parent.LevelID {
					continue
				}
				docs, err := fn(c.Levels[i].Documents)
				if err != nil {
					return c, err
				}
				levels := make([]Level, len(c.Levels))
				copy(levels, c.Levels)
				levels[i].Documents = docs
				c.Levels = levels
				return c, nil
			}
			return c, fmt.Errorf("level %q: %w", parent.LevelID, ErrNotFound)
		})
	case parent.CourseID != "":
		return updateCourse(tree, parent.PathID, parent.CourseID, func(c Course) (Course, error) {
			docs, err := fn(c.Documents)
			if err != nil {
				return c, err
			}
			c.Documents = docs
			return c, nil
		})
	default:
		return updatePath(tree, parent.PathID, func(p LearningPath) (LearningPath, error) {
			docs, err := fn(p.Documents)
			if err != nil {
				return p, err
			}
			p.Documents = docs
			return p, nil
		})
	}
}

// AddCourse appends a new course (fresh ID, empty levels and documents) to the
// named path. Returns the new tree and the generated course ID.
func AddCourse(tree Tree, pathID string, fields CourseFields) (Tree, string, error) {
	id := NewID("c")
	out, err := updatePath(tree, pathID, func(p LearningPath) (LearningPath, error) {
		course := Course{
			ID:         id,
			Name:       fields.Name,
			Year:       fields.Year,
			AgeGroup:   fields.AgeGroup,
			Language:   fields.Language,
			Tools:      fields.Tools,
			Content:    fields.Content,
			Objectives: fields.Objectives,
			Levels:     []Level{},
			Documents:  []Document{},
		}
		courses := make([]Course, len(p.Courses), len(p.Courses)+1)
		copy(courses, p.Courses)
		p.Courses = append(courses, course)
		return p, nil
	})
	if err != nil {
		return tree, "", err
	}
	return out, id, nil
}

// UpdateCourse merges the non-nil fields of upd into the named course.
func UpdateCourse(tree Tree, pathID, courseID string, upd CourseUpdate) (Tree, error) {
	return updateCourse(tree, pathID, courseID, func(c Course) (Course, error) {
		if upd.Name != nil {
			c.Name = *upd.Name
		}
		if upd.Year != nil {
			c.Year = *upd.Year
		}
		if upd.AgeGroup != nil {
			c.AgeGroup = *upd.AgeGroup
		}
		if upd.Language != nil {
			c.Language = *upd.Language
		}
		if upd.Tools != nil {
			c.Tools = *upd.Tools
		}
		if upd.Content != nil {
			c.Content = *upd.Content
		}
		if upd.Objectives != nil {
			c.Objectives = *upd.Objectives
		}
		return c, nil
	})
}

// DeleteCourse removes the named course and, with it, all of its levels and
// documents. Deletion is structural so nothing can dangle.
func DeleteCourse(tree Tree, pathID, courseID string) (Tree, error) {
	return updatePath(tree, pathID, func(p LearningPath) (LearningPath, error) {
		for i := range p.Courses {
			if p.Courses[i].ID != courseID {
				continue
			}
			courses := make([]Course, 0, len(p.Courses)-1)
			courses = append(courses, p.Courses[:i]...)
			courses = append(courses, p.Courses[i+1:]...)
			p.Courses = courses
			return p, nil
		}
		return p, fmt.Errorf("course %q: %w", courseID, ErrNotFound)
	})
}

// AddLevel appends a new level (fresh ID, empty documents) to the named course.
func AddLevel(tree Tree, pathID, courseID string, fields LevelFields) (Tree, string, error) {
	id := NewID("l")
	out, err := updateCourse(tree, pathID, courseID, func(c Course) (Course, error) {
		level := Level{
			ID:         id,
			Name:       fields.Name,
			Content:    fields.Content,
			Objectives: fields.Objectives,
			Documents:  []Document{},
		}
		levels := make([]Level, len(c.Levels), len(c.Levels)+1)
		copy(levels, c.Levels)
		c.Levels = append(levels, level)
		return c, nil
	})
	if err != nil {
		return tree, "", err
	}
	return out, id, nil
}

// UpdateLevel merges the non-nil fields of upd into the named level.
func UpdateLevel(tree Tree, pathID, courseID, levelID string, upd LevelUpdate) (Tree, error) {
	return updateCourse(tree, pathID, courseID, func(c Course) (Course, error) {
		for i := range c.Levels {
			if c.Levels[i].ID != levelID {
				continue
			}
			levels := make([]Level, len(c.Levels))
			copy(levels, c.Levels)
			if upd.Name != nil {
				levels[i].Name = *upd.Name
			}
			if upd.Content != nil {
				levels[i].Content = *upd.Content
			}
			if upd.Objectives != nil {
				levels[i].Objectives = *upd.Objectives
			}
			c.Levels = levels
			return c, nil
		}
		return c, fmt.Errorf("level %q: %w", levelID, ErrNotFound)
	})
}

// DeleteLevel removes the named level and its documents from the course.
func DeleteLevel(tree Tree, pathID, courseID, levelID string) (Tree, error) {
	return updateCourse(tree, pathID, courseID, func(c Course) (Course, error) {
		for i := range c.Levels {
			if c.Levels[i].ID != levelID {
				continue
			}
			levels := make([]Level, 0, len(c.Levels)-1)
			levels = append(levels, c.Levels[:i]...)
			levels = append(levels, c.Levels[i+1:]...)
			c.Levels = levels
			return c, nil
		}
		return c, fmt.Errorf("level %q: %w", levelID, ErrNotFound)
	})
}

// AddDocument appends a new document (fresh ID) to the container named by parent.
func AddDocument(tree Tree, parent ParentID, fields DocumentFields) (Tree, string, error) {
	id := NewID("doc")
	out, err := updateDocuments(tree, parent, func(docs []Document) ([]Document, error) {
		doc := Document{
			ID:       id,
			Category: fields.Category,
			Name:     fields.Name,
			URL:      fields.URL,
		}
		next := make([]Document, len(docs), len(docs)+1)
		copy(next, docs)
		return append(next, doc), nil
	})
	if err != nil {
		return tree, "", err
	}
	return out, id, nil
}

// UpdateDocument merges the non-nil fields of upd into the named document
// within the container named by parent.
func UpdateDocument(tree Tree, parent ParentID, documentID string, upd DocumentUpdate) (Tree, error) {
	return updateDocuments(tree, parent, func(docs []Document) ([]Document, error) {
		for i := range docs {
			if docs[i].ID != documentID {
				continue
			}
			next := make([]Document, len(docs))
			copy(next, docs)
			if upd.Category != nil {
				next[i].Category = *upd.Category
			}
			if upd.Name != nil {
				next[i].Name = *upd.Name
			}
			if upd.URL != nil {
				next[i].URL = *upd.URL
			}
			return next, nil
		}
		return docs, fmt.Errorf("document %q: %w", documentID, ErrNotFound)
	})
}

// DeleteDocument removes the named document from the container named by parent.
func DeleteDocument(tree Tree, parent ParentID, documentID string) (Tree, error) {
	return updateDocuments(tree, parent, func(docs []Document) ([]Document, error) {
		for i := range docs {
			if docs[i].ID != documentID {
				continue
			}
			next := make([]Document, 0, len(docs)-1)
			next = append(next, docs[:i]...)
			next = append(next, docs[i+1:]...)
			return next, nil
		}
		return docs, fmt.Errorf("document %q: %w", documentID, ErrNotFound)
	})
}

// ReorderDocuments replaces the order of the container's document list to match
// orderedIDs. Documents absent from orderedIDs are dropped — callers treat
// omission as intentional removal. IDs that do not name a document in the list
// are skipped, so every document in the result comes from the original list.
func ReorderDocuments(tree Tree, parent ParentID, orderedIDs []string) (Tree, error) {
	return updateDocuments(tree, parent, func(docs []Document) ([]Document, error) {
		byID := make(map[string]Document, len(docs))
		for _, d := range docs {
			byID[d.ID] = d
		}
		next := make([]Document, 0, len(docs))
		for _, id := range orderedIDs {
			if d, ok := byID[id]; ok {
				next = append(next, d)
				delete(byID, id)
			}
		}
		return next, nil
	})
}

// Clone returns a deep copy of the tree. Nil and empty slices are preserved
// as-is so a clone stays structurally equal to its source.
func (t Tree) Clone() Tree {
	if t == nil {
		return nil
	}
	out := make(Tree, len(t))
	for i, p := range t {
		out[i] = p
		out[i].Courses = cloneCourses(p.Courses)
		out[i].Documents = cloneDocuments(p.Documents)
	}
	return out
}

func cloneCourses(courses []Course) []Course {
	if courses == nil {
		return nil
	}
	out := make([]Course, len(courses))
	for i, c := range courses {
		out[i] = c
		if c.Tools != nil {
			out[i].Tools = append([]string(nil), c.Tools...)
		}
		out[i].Levels = cloneLevels(c.Levels)
		out[i].Documents = cloneDocuments(c.Documents)
	}
	return out
}

func cloneLevels(levels []Level) []Level {
	if levels == nil {
		return nil
	}
	out := make([]Level, len(levels))
	for i, l := range levels {
		out[i] = l
		out[i].Documents = cloneDocuments(l.Documents)
	}
	return out
}

func cloneDocuments(docs []Document) []Document {
	if docs == nil {
		return nil
	}
	return append([]Document(nil), docs...)
}

// Equal reports structural equality of two trees. Used for the workspace dirty
// flag instead of comparing serialized JSON.
func Equal(a, b Tree) bool {
	return reflect.DeepEqual(a, b)
}

// FindPath returns the learning path with the given ID.
func FindPath(tree Tree, pathID string) (LearningPath, bool) {
	for _, p := range tree {
		if p.ID == pathID {
			return p, true
		}
	}
	return LearningPath{}, false
}

// FindCourse returns the course with the given ID within the named path.
func FindCourse(tree Tree, pathID, courseID string) (Course, bool) {
	p, ok := FindPath(tree, pathID)
	if !ok {
		return Course{}, false
	}
	for _, c := range p.Courses {
		if c.ID == courseID {
			return c, true
		}
	}
	return Course{}, false
}
