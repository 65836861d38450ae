package workspace

import (
	"context"
	"sync"
)

// Storage keys. The tree is one JSON blob under a single fixed key; the two
// selection values live under independent keys and are absent when cleared.
const (
	treeKey           = "cms:catalog:published"
	selectedPathKey   = "cms:catalog:selectedPathId"
	selectedCourseKey = "cms:catalog:selectedCourseId"
)

// Store persists the published catalog blob and the selection keys. LoadTree
// returns (nil, nil) when no blob has ever been saved.
type Store interface {
	LoadTree(ctx context.Context) ([]byte, error)
	SaveTree(ctx context.Context, data []byte) error

	// LoadSelection returns the persisted path and course IDs, "" when absent.
	LoadSelection(ctx context.Context) (pathID, courseID string, err error)
	// SaveSelection writes both selection keys; an empty value clears its key.
	SaveSelection(ctx context.Context, pathID, courseID string) error
}

// MemoryStore is an in-memory Store used for tests and for running without
// any storage backend configured.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) LoadTree(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[treeKey]
	if !ok {
		return nil, nil
	}
	return []byte(v), nil
}

func (s *MemoryStore) SaveTree(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[treeKey] = string(data)
	return nil
}

func (s *MemoryStore) LoadSelection(_ context.Context) (string, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[selectedPathKey], s.values[selectedCourseKey], nil
}

func (s *MemoryStore) SaveSelection(_ context.Context, pathID, courseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	setOrDelete(s.values, selectedPathKey, pathID)
	setOrDelete(s.values, selectedCourseKey, courseID)
	return nil
}

func setOrDelete(m map[string]string, key, value string) {
	if value == "" {
		delete(m, key)
		return
	}
	m[key] = value
}

// SeedBlob lets tests preload the tree blob as if a previous session saved it.
func (s *MemoryStore) SeedBlob(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[treeKey] = string(data)
}
