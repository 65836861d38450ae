// Package session holds the demo-grade login gate: a fixed credential list and
// a single in-memory session. This is not a security boundary; the catalog is
// internal tooling and the role flag only decides who may edit.
package session

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Role is either admin (full CRUD) or user (read and search only).
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is the current session holder. Never persisted; lost on restart.
type User struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Credential pairs a username with a bcrypt password hash and a role.
type Credential struct {
	Username     string
	PasswordHash []byte
	Role         Role
}

// ErrUnsavedChanges is returned by Logout when the draft has unsaved edits and
// the caller did not confirm discarding them.
var ErrUnsavedChanges = errors.New("unsaved changes")

// Workspace is the slice of the draft controller the session needs for the
// logout guard.
type Workspace interface {
	Dirty() bool
	Discard()
}

// Manager performs credential checks and owns the current session.
type Manager struct {
	mu        sync.RWMutex
	creds     []Credential
	workspace Workspace
	current   *User
}

// NewManager creates a session manager over a fixed credential list.
func NewManager(creds []Credential, ws Workspace) *Manager {
	return &Manager{creds: creds, workspace: ws}
}

// DefaultCredentials returns the built-in demo accounts.
func DefaultCredentials() []Credential {
	return []Credential{
		{Username: "admin", PasswordHash: mustHash("r&dk1@@025"), Role: RoleAdmin},
		{Username: "mindx", PasswordHash: mustHash("123"), Role: RoleUser},
	}
}

func mustHash(password string) []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return hash
}

// Login checks username (case-insensitive) and password (case-sensitive)
// against the credential list. On success the session is set and true is
// returned; on failure the session is untouched. Unknown user and wrong
// password are indistinguishable to the caller.
func (m *Manager) Login(username, password string) bool {
	for _, cred := range m.creds {
		if !strings.EqualFold(cred.Username, username) {
			continue
		}
		if bcrypt.CompareHashAndPassword(cred.PasswordHash, []byte(password)) != nil {
			return false
		}

		m.mu.Lock()
		m.current = &User{Username: cred.Username, Role: cred.Role}
		m.mu.Unlock()

		slog.Info("user logged in", "username", cred.Username, "role", cred.Role)
		return true
	}
	return false
}

// Logout clears the session. When the draft has unsaved changes it refuses
// with ErrUnsavedChanges unless force is set, in which case the draft is
// discarded first. Logout never persists draft changes.
func (m *Manager) Logout(force bool) error {
	if m.workspace != nil && m.workspace.Dirty() {
		if !force {
			return ErrUnsavedChanges
		}
		m.workspace.Discard()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		slog.Info("user logged out", "username", m.current.Username)
	}
	m.current = nil
	return nil
}

// CurrentUser returns the logged-in user, if any.
func (m *Manager) CurrentUser() (User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return User{}, false
	}
	return *m.current, true
}

// IsAdmin reports whether the current session may invoke CRUD mutations.
func (m *Manager) IsAdmin() bool {
	u, ok := m.CurrentUser()
	return ok && u.Role == RoleAdmin
}
