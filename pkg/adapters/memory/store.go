package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/anaradzetski/keyboard/pkg/domain"
)

// Store implements ports.SessionStore in memory.
// Safe for concurrent use. Sessions do not survive a process restart.
type Store struct {
	data map[string]string
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]string),
	}
}

// Start positions the session at root, replacing any previous position.
func (s *Store) Start(ctx context.Context, sessionID, root string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, existed := s.data[sessionID]
	s.data[sessionID] = root
	return existed, nil
}

// Get returns the current address of the session.
func (s *Store) Get(ctx context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	addr, ok := s.data[sessionID]
	if !ok {
		return "", domain.ErrNotStarted
	}
	return addr, nil
}

// Set moves a live session.
func (s *Store) Set(ctx context.Context, sessionID, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[sessionID]; !ok {
		return domain.ErrNotStarted
	}
	s.data[sessionID] = address
	return nil
}

// End removes the session.
func (s *Store) End(ctx context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, existed := s.data[sessionID]
	delete(s.data, sessionID)
	return existed, nil
}

// List returns active sessions, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	sort.Strings(sessions)
	return sessions, nil
}
