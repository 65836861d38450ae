package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/mindx-labs/coursecms/internal/catalog"
	"github.com/mindx-labs/coursecms/internal/export"
	"github.com/mindx-labs/coursecms/internal/session"
	"github.com/mindx-labs/coursecms/internal/workspace"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !s.sessions.Login(req.Username, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	user, _ := s.sessions.CurrentUser()
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if r.ContentLength > 0 {
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if err := s.sessions.Logout(req.Force); err != nil {
		if errors.Is(err, session.ErrUnsavedChanges) {
			writeJSON(w, http.StatusConflict, map[string]any{
				"error": "unsaved changes",
				"dirty": true,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	user, ok := s.sessions.CurrentUser()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": true, "user": user})
}

// requireUser gates read endpoints; requireAdmin gates mutations.
func (s *Server) requireUser(w http.ResponseWriter) bool {
	if _, ok := s.sessions.CurrentUser(); !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return false
	}
	return true
}

func (s *Server) requireAdmin(w http.ResponseWriter) bool {
	if _, ok := s.sessions.CurrentUser(); !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return false
	}
	if !s.sessions.IsAdmin() {
		writeError(w, http.StatusForbidden, "admin role required")
		return false
	}
	return true
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	if !s.requireUser(w) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tree":  s.workspace.Draft(),
		"dirty": s.workspace.Dirty(),
		"selection": map[string]string{
			"pathId":   s.selection.PathID(),
			"courseId": s.selection.CourseID(),
		},
	})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w) {
		return
	}
	if err := s.workspace.Save(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dirty": false})
}

func (s *Server) handleDiscard(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w) {
		return
	}
	s.workspace.Discard()
	s.selection.Validate(r.Context(), s.workspace.Draft())
	writeJSON(w, http.StatusOK, map[string]any{
		"tree":  s.workspace.Draft(),
		"dirty": false,
	})
}

// mutate applies op to the draft and revalidates the selection, since any
// delete can invalidate the selected path or course.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op workspace.Op) bool {
	if err := s.workspace.Mutate(op); err != nil {
		writeMutationError(w, err)
		return false
	}
	s.selection.Validate(r.Context(), s.workspace.Draft())
	return true
}

func (s *Server) handleAddCourse(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w) {
		return
	}
	var req courseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pathID := r.PathValue("pathID")
	var newID string
	op := func(tree catalog.Tree) (catalog.Tree, error) {
		next, id, err := catalog.AddCourse(tree, pathID, req.fields())
		newID = id
		return next, err
	}
	if !s.mutate(w, r, op) {
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": newID, "dirty": s.workspace.Dirty()})
}

func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w) {
		return
	}
	var req courseUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pathID, courseID := r.PathValue("pathID"), r.PathValue("courseID")
	op := func(tree catalog.Tree) (catalog.Tree, error) {
		return catalog.UpdateCourse(tree, pathID, courseID, req.update())
	}
	if !s.mutate(w, r, op) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dirty": s.workspace.Dirty()})
}

func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w) {
		return
	}
	pathID, courseID := r.PathValue("pathID"), r.PathValue("courseID")
	op := func(tree catalog.Tree) (catalog.Tree, error) {
		return catalog.DeleteCourse(tree, pathID, courseID)
	}
	if !s.mutate(w, r, op) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dirty": s.workspace.Dirty()})
}

func (s *Server) handleAddLevel(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w) {
		return
	}
	var req levelRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pathID, courseID := r.PathValue("pathID"), r.PathValue("courseID")
	var newID string
	op := func(tree catalog.Tree) (catalog.Tree, error) {
		next, id, err := catalog.AddLevel(tree, pathID, courseID, req.fields())
		newID = id
		return next, err
	}
	if !s.mutate(w, r, op) {
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": newID, "dirty": s.workspace.Dirty()})
}

func (s *Server) handleUpdateLevel(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w) {
		return
	}
	var req levelUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pathID, courseID, levelID := r.PathValue("pathID"), r.PathValue("courseID"), r.PathValue("levelID")
	op := func(tree catalog.Tree) (catalog.Tree, error) {
		return catalog.UpdateLevel(tree, pathID, courseID, levelID, req.update())
	}
	if !s.mutate(w, r, op) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dirty": s.workspace.Dirty()})
}

func (s *Server) handleDeleteLevel(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w) {
		return
	}
	pathID, courseID, levelID := r.PathValue("pathID"), r.PathValue("courseID"), r.PathValue("levelID")
	op := func(tree catalog.Tree) (catalog.Tree, error) {
		return catalog.DeleteLevel(tree, pathID, courseID, levelID)
	}
	if !s.mutate(w, r, op) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dirty": s.workspace.Dirty()})
}

func (s *Server) handleAddDocument(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w) {
		return
	}
	var req documentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	parent := parentIDFromQuery(r)
	var newID string
	op := func(tree catalog.Tree) (catalog.Tree, error) {
		next, id, err := catalog.AddDocument(tree, parent, req.fields())
		newID = id
		return next, err
	}
	if !s.mutate(w, r, op) {
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": newID, "dirty": s.workspace.Dirty()})
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w) {
		return
	}
	var req documentUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	parent := parentIDFromQuery(r)
	documentID := r.PathValue("documentID")
	op := func(tree catalog.Tree) (catalog.Tree, error) {
		return catalog.UpdateDocument(tree, parent, documentID, req.update())
	}
	if !s.mutate(w, r, op) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dirty": s.workspace.Dirty()})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w) {
		return
	}
	parent := parentIDFromQuery(r)
	documentID := r.PathValue("documentID")
	op := func(tree catalog.Tree) (catalog.Tree, error) {
		return catalog.DeleteDocument(tree, parent, documentID)
	}
	if !s.mutate(w, r, op) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dirty": s.workspace.Dirty()})
}

func (s *Server) handleReorderDocuments(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w) {
		return
	}
	var req reorderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	parent := parentIDFromQuery(r)
	op := func(tree catalog.Tree) (catalog.Tree, error) {
		return catalog.ReorderDocuments(tree, parent, req.OrderedIDs)
	}
	if !s.mutate(w, r, op) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dirty": s.workspace.Dirty()})
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	if !s.requireUser(w) {
		return
	}
	var req selectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()
	switch {
	case req.PathID == "":
		s.selection.Clear(ctx)
	case req.PathID != s.selection.PathID():
		s.selection.SetPath(ctx, req.PathID)
		if req.CourseID != "" {
			s.selection.SetCourse(ctx, req.CourseID)
		}
	default:
		s.selection.SetCourse(ctx, req.CourseID)
	}
	s.selection.Validate(ctx, s.workspace.Draft())

	writeJSON(w, http.StatusOK, map[string]string{
		"pathId":   s.selection.PathID(),
		"courseId": s.selection.CourseID(),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if !s.requireUser(w) {
		return
	}
	query := r.URL.Query().Get("q")

	gen := s.runner.Begin()
	results, ok := s.runner.Finish(gen, s.workspace.Draft(), query)
	if !ok {
		// A newer query started while this one ran; its response wins.
		writeJSON(w, http.StatusOK, map[string]any{"query": query, "results": []any{}, "stale": true})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": query, "results": results})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if !s.requireUser(w) {
		return
	}

	f, err := export.Workbook(s.workspace.Published())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("build workbook: %v", err))
		return
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("write workbook: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="catalog.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		// Client went away mid-download; nothing to do.
		return
	}
}
