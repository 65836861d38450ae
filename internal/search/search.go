// Package search answers free-text queries against the catalog tree. There is
// no persistent index; every query walks the tree, which is cheap at this
// data size.
package search

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/mindx-labs/coursecms/internal/catalog"
)

// Kind distinguishes the two searchable entity kinds.
type Kind string

const (
	KindCourse   Kind = "course"
	KindDocument Kind = "document"
)

const (
	// MinQueryLen is the minimum trimmed query length; shorter queries mean
	// "not yet searching" and return no results.
	MinQueryLen = 2
	// MaxResults caps a single query's result set. Callers wanting more
	// refine the query.
	MaxResults = 10
)

// Result is one search hit with enough context to render and navigate.
type Result struct {
	ID       string `json:"id"`
	Kind     Kind   `json:"type"`
	Name     string `json:"name"`
	Context  string `json:"context"`
	PathID   string `json:"pathId"`
	CourseID string `json:"courseId,omitempty"`
	URL      string `json:"url,omitempty"`
}

const contextSeparator = " / "

// Search matches query case-insensitively against course and document names.
// Matching is name-only; course body content is not searched. Result order is
// traversal order: within each path, courses and their documents first (course
// name, course documents, level documents), then the path's own documents.
// Results are de-duplicated by kind+id and capped at MaxResults.
func Search(tree catalog.Tree, query string) []Result {
	q := normalize(strings.TrimSpace(query))
	if utf8.RuneCountInString(q) < MinQueryLen {
		return nil
	}

	var results []Result
	seen := make(map[string]bool)

	add := func(r Result) bool {
		key := string(r.Kind) + ":" + r.ID
		if seen[key] {
			return len(results) < MaxResults
		}
		seen[key] = true
		results = append(results, r)
		return len(results) < MaxResults
	}

	for _, path := range tree {
		pathName := string(path.Name)
		for _, course := range path.Courses {
			if matches(course.Name, q) {
				if !add(Result{
					ID:       course.ID,
					Kind:     KindCourse,
					Name:     course.Name,
					Context:  pathName,
					PathID:   path.ID,
					CourseID: course.ID,
				}) {
					return results
				}
			}
			for _, doc := range course.Documents {
				if matches(doc.Name, q) {
					if !add(documentResult(doc, pathName+contextSeparator+course.Name, path.ID, course.ID)) {
						return results
					}
				}
			}
			for _, level := range course.Levels {
				for _, doc := range level.Documents {
					if matches(doc.Name, q) {
						ctx := pathName + contextSeparator + course.Name + contextSeparator + string(level.Name)
						if !add(documentResult(doc, ctx, path.ID, course.ID)) {
							return results
						}
					}
				}
			}
		}
		for _, doc := range path.Documents {
			if matches(doc.Name, q) {
				if !add(documentResult(doc, pathName, path.ID, "")) {
					return results
				}
			}
		}
	}
	return results
}

func documentResult(doc catalog.Document, context, pathID, courseID string) Result {
	return Result{
		ID:       doc.ID,
		Kind:     KindDocument,
		Name:     doc.Name,
		Context:  context,
		PathID:   pathID,
		CourseID: courseID,
		URL:      doc.URL,
	}
}

func matches(name, normalizedQuery string) bool {
	return strings.Contains(normalize(name), normalizedQuery)
}

// normalize lowercases and NFC-composes a string so Vietnamese names match
// regardless of how their diacritics were entered.
func normalize(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
