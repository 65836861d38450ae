package httpapi

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mindx-labs/coursecms/internal/catalog"
)

// Request bodies are validated here, before anything reaches the catalog
// operations: the tree layer assumes well-typed input.

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type logoutRequest struct {
	Force bool `json:"force"`
}

type courseRequest struct {
	Name       string   `json:"name"`
	Year       int      `json:"year"`
	AgeGroup   string   `json:"ageGroup"`
	Language   string   `json:"language"`
	Tools      []string `json:"tools"`
	Content    string   `json:"content"`
	Objectives string   `json:"objectives"`
}

func (r courseRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Year, validation.Min(0)),
		validation.Field(&r.AgeGroup, validation.Required),
	)
}

func (r courseRequest) fields() catalog.CourseFields {
	return catalog.CourseFields{
		Name:       r.Name,
		Year:       r.Year,
		AgeGroup:   r.AgeGroup,
		Language:   r.Language,
		Tools:      r.Tools,
		Content:    r.Content,
		Objectives: r.Objectives,
	}
}

type courseUpdateRequest struct {
	Name       *string   `json:"name"`
	Year       *int      `json:"year"`
	AgeGroup   *string   `json:"ageGroup"`
	Language   *string   `json:"language"`
	Tools      *[]string `json:"tools"`
	Content    *string   `json:"content"`
	Objectives *string   `json:"objectives"`
}

func (r courseUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Year, validation.Min(0)),
		validation.Field(&r.AgeGroup, validation.NilOrNotEmpty),
	)
}

func (r courseUpdateRequest) update() catalog.CourseUpdate {
	return catalog.CourseUpdate{
		Name:       r.Name,
		Year:       r.Year,
		AgeGroup:   r.AgeGroup,
		Language:   r.Language,
		Tools:      r.Tools,
		Content:    r.Content,
		Objectives: r.Objectives,
	}
}

type levelRequest struct {
	Name       string `json:"name"`
	Content    string `json:"content"`
	Objectives string `json:"objectives"`
}

func (r levelRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.By(levelName)),
	)
}

func (r levelRequest) fields() catalog.LevelFields {
	return catalog.LevelFields{
		Name:       catalog.LevelName(r.Name),
		Content:    r.Content,
		Objectives: r.Objectives,
	}
}

type levelUpdateRequest struct {
	Name       *string `json:"name"`
	Content    *string `json:"content"`
	Objectives *string `json:"objectives"`
}

func (r levelUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.By(levelNamePtr)),
	)
}

func (r levelUpdateRequest) update() catalog.LevelUpdate {
	upd := catalog.LevelUpdate{
		Content:    r.Content,
		Objectives: r.Objectives,
	}
	if r.Name != nil {
		name := catalog.LevelName(*r.Name)
		upd.Name = &name
	}
	return upd
}

type documentRequest struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	URL      string `json:"url"`
}

func (r documentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Category, validation.Required, validation.By(documentCategory)),
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.URL, validation.Required),
	)
}

func (r documentRequest) fields() catalog.DocumentFields {
	return catalog.DocumentFields{
		Category: catalog.DocumentCategory(r.Category),
		Name:     r.Name,
		URL:      r.URL,
	}
}

type documentUpdateRequest struct {
	Category *string `json:"category"`
	Name     *string `json:"name"`
	URL      *string `json:"url"`
}

func (r documentUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Category, validation.NilOrNotEmpty, validation.By(documentCategoryPtr)),
		validation.Field(&r.Name, validation.NilOrNotEmpty),
		validation.Field(&r.URL, validation.NilOrNotEmpty),
	)
}

func (r documentUpdateRequest) update() catalog.DocumentUpdate {
	upd := catalog.DocumentUpdate{
		Name: r.Name,
		URL:  r.URL,
	}
	if r.Category != nil {
		cat := catalog.DocumentCategory(*r.Category)
		upd.Category = &cat
	}
	return upd
}

type reorderRequest struct {
	OrderedIDs []string `json:"orderedIds"`
}

func (r reorderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OrderedIDs, validation.NotNil),
	)
}

type selectionRequest struct {
	PathID   string `json:"pathId"`
	CourseID string `json:"courseId"`
}

func levelName(value any) error {
	s, _ := value.(string)
	if !catalog.ValidLevelName(s) {
		return validation.NewError("validation_level_name", "must be a valid level name")
	}
	return nil
}

func levelNamePtr(value any) error {
	p, _ := value.(*string)
	if p == nil {
		return nil
	}
	return levelName(*p)
}

func documentCategory(value any) error {
	s, _ := value.(string)
	if !catalog.ValidCategory(s) {
		return validation.NewError("validation_document_category", "must be a valid document category")
	}
	return nil
}

func documentCategoryPtr(value any) error {
	p, _ := value.(*string)
	if p == nil {
		return nil
	}
	return documentCategory(*p)
}

// parentIDFromQuery reads the document container locator from query params.
func parentIDFromQuery(r *http.Request) catalog.ParentID {
	q := r.URL.Query()
	return catalog.ParentID{
		PathID:   q.Get("pathId"),
		CourseID: q.Get("courseId"),
		LevelID:  q.Get("levelId"),
	}
}
