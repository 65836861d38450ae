// Package httpapi is the HTTP surface consumed by the catalog SPA. It wires
// the session gate in front of the workspace mutators and leaves delete
// confirmations to the client; the only server-side interruption is the
// logout-with-unsaved-changes guard.
package httpapi

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/mindx-labs/coursecms/internal/search"
	"github.com/mindx-labs/coursecms/internal/selection"
	"github.com/mindx-labs/coursecms/internal/session"
	"github.com/mindx-labs/coursecms/internal/workspace"
)

// Server bundles the application state behind the HTTP handlers.
type Server struct {
	workspace *workspace.Workspace
	sessions  *session.Manager
	selection *selection.State
	runner    *search.Runner
	notifier  *Notifier
}

// NewServer creates the HTTP API server. The notifier is built by the caller
// because the workspace publish hook must reference it before the server
// exists; pass nil to get a fresh one.
func NewServer(ws *workspace.Workspace, sessions *session.Manager, sel *selection.State, notifier *Notifier) *Server {
	if notifier == nil {
		notifier = NewNotifier()
	}
	return &Server{
		workspace: ws,
		sessions:  sessions,
		selection: sel,
		runner:    &search.Runner{},
		notifier:  notifier,
	}
}

// Handler builds the route table and wraps it with CORS for the SPA origins.
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.handleLogout)
	mux.HandleFunc("GET /api/session", s.handleSession)

	mux.HandleFunc("GET /api/catalog", s.handleCatalog)
	mux.HandleFunc("POST /api/save", s.handleSave)
	mux.HandleFunc("POST /api/discard", s.handleDiscard)

	mux.HandleFunc("POST /api/paths/{pathID}/courses", s.handleAddCourse)
	mux.HandleFunc("PATCH /api/paths/{pathID}/courses/{courseID}", s.handleUpdateCourse)
	mux.HandleFunc("DELETE /api/paths/{pathID}/courses/{courseID}", s.handleDeleteCourse)

	mux.HandleFunc("POST /api/paths/{pathID}/courses/{courseID}/levels", s.handleAddLevel)
	mux.HandleFunc("PATCH /api/paths/{pathID}/courses/{courseID}/levels/{levelID}", s.handleUpdateLevel)
	mux.HandleFunc("DELETE /api/paths/{pathID}/courses/{courseID}/levels/{levelID}", s.handleDeleteLevel)

	mux.HandleFunc("POST /api/documents", s.handleAddDocument)
	mux.HandleFunc("PUT /api/documents/order", s.handleReorderDocuments)
	mux.HandleFunc("PATCH /api/documents/{documentID}", s.handleUpdateDocument)
	mux.HandleFunc("DELETE /api/documents/{documentID}", s.handleDeleteDocument)

	mux.HandleFunc("PUT /api/selection", s.handleSelection)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/export.xlsx", s.handleExport)

	mux.HandleFunc("GET /ws", s.notifier.Handle)

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(mux)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
