// Package catalog defines the course catalog tree (learning paths → courses →
// levels → documents) and the pure mutation operations over it.
package catalog

import "github.com/google/uuid"

// PathName is one of the three fixed learning path categories.
type PathName string

const (
	PathCodingAI  PathName = "Coding & AI"
	PathArtDesign PathName = "Art & Design"
	PathRobotics  PathName = "Robotics"
)

// LevelName is a difficulty tier within a course. Display values are Vietnamese.
type LevelName string

const (
	LevelBasic     LevelName = "Cơ bản"
	LevelAdvanced  LevelName = "Nâng cao"
	LevelIntensive LevelName = "Chuyên sâu"
)

// DocumentCategory classifies a document attached to a path, course, or level.
type DocumentCategory string

const (
	CategoryRoadmap       DocumentCategory = "Roadmap"
	CategorySyllabus      DocumentCategory = "Syllabus"
	CategoryTrial         DocumentCategory = "Trial"
	CategoryLessonPlan    DocumentCategory = "Lesson Plan"
	CategoryTeachingGuide DocumentCategory = "Teaching Guide"
	CategorySlide         DocumentCategory = "Slide"
	CategoryProject       DocumentCategory = "Project"
	CategoryHomework      DocumentCategory = "Homework"
	CategoryCheckpoint    DocumentCategory = "Checkpoint"
	CategoryStudentBook   DocumentCategory = "Student Book"
)

// Categories lists all document categories in display order.
var Categories = []DocumentCategory{
	CategoryRoadmap,
	CategorySyllabus,
	CategoryTrial,
	CategoryLessonPlan,
	CategoryTeachingGuide,
	CategorySlide,
	CategoryProject,
	CategoryHomework,
	CategoryCheckpoint,
	CategoryStudentBook,
}

// ValidLevelName reports whether s is one of the three level names.
func ValidLevelName(s string) bool {
	switch LevelName(s) {
	case LevelBasic, LevelAdvanced, LevelIntensive:
		return true
	}
	return false
}

// ValidCategory reports whether s is one of the ten document categories.
func ValidCategory(s string) bool {
	for _, c := range Categories {
		if DocumentCategory(s) == c {
			return true
		}
	}
	return false
}

// Document is a named, URL-referenced resource owned by exactly one container.
type Document struct {
	ID       string           `json:"id" yaml:"id"`
	Category DocumentCategory `json:"category" yaml:"category"`
	Name     string           `json:"name" yaml:"name"`
	URL      string           `json:"url" yaml:"url"`
}

// Level is a difficulty tier within a course with its own content and documents.
type Level struct {
	ID         string     `json:"id" yaml:"id"`
	Name       LevelName  `json:"name" yaml:"name"`
	Content    string     `json:"content" yaml:"content"`
	Objectives string     `json:"objectives" yaml:"objectives"`
	Documents  []Document `json:"documents" yaml:"documents"`
}

// Course belongs to a single learning path. Insertion order is display order.
type Course struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Year       int        `json:"year" yaml:"year"`
	AgeGroup   string     `json:"ageGroup" yaml:"ageGroup"`
	Language   string     `json:"language,omitempty" yaml:"language,omitempty"`
	Tools      []string   `json:"tools,omitempty" yaml:"tools,omitempty"`
	Content    string     `json:"content" yaml:"content"`
	Objectives string     `json:"objectives" yaml:"objectives"`
	Levels     []Level    `json:"levels" yaml:"levels"`
	Documents  []Document `json:"documents" yaml:"documents"`
}

// LearningPath is a top-level fixed category. Paths are seeded at startup and
// have no CRUD of their own.
type LearningPath struct {
	ID        string     `json:"id" yaml:"id"`
	Name      PathName   `json:"name" yaml:"name"`
	Courses   []Course   `json:"courses" yaml:"courses"`
	Documents []Document `json:"documents" yaml:"documents"`
}

// Tree is the full catalog: an ordered list of learning paths.
type Tree []LearningPath

// ParentID locates the container that owns a document or level. CourseID and
// LevelID may be empty: no CourseID means a path-level target, CourseID without
// LevelID means a course-level target.
type ParentID struct {
	PathID   string `json:"pathId"`
	CourseID string `json:"courseId,omitempty"`
	LevelID  string `json:"levelId,omitempty"`
}

// NewID generates a fresh entity ID with the given kind prefix ("c", "l",
// "doc"). Package variable so tests can install a deterministic generator.
var NewID = func(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
