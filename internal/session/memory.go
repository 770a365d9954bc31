package session

import (
	"context"
	"sync"
)

// MemoryStore keeps session state in process memory. It is the default for
// single-node deployments and for tests; state survives navigation but not a
// process restart.
type MemoryStore struct {
	mu      sync.RWMutex
	carts   map[string][]Line
	saved   map[string][]string
	handles map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts:   make(map[string][]Line),
		saved:   make(map[string][]string),
		handles: make(map[string]string),
	}
}

func (s *MemoryStore) LoadCart(_ context.Context, sessionID string) ([]Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lines := make([]Line, len(s.carts[sessionID]))
	copy(lines, s.carts[sessionID])
	return lines, nil
}

func (s *MemoryStore) SaveCart(_ context.Context, sessionID string, lines []Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(lines) == 0 {
		delete(s.carts, sessionID)
		return nil
	}
	cp := make([]Line, len(lines))
	copy(cp, lines)
	s.carts[sessionID] = cp
	return nil
}

func (s *MemoryStore) LoadSaved(_ context.Context, sessionID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, len(s.saved[sessionID]))
	copy(ids, s.saved[sessionID])
	return ids, nil
}

func (s *MemoryStore) SaveSaved(_ context.Context, sessionID string, productIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(productIDs) == 0 {
		delete(s.saved, sessionID)
		return nil
	}
	cp := make([]string, len(productIDs))
	copy(cp, productIDs)
	s.saved[sessionID] = cp
	return nil
}

func (s *MemoryStore) SetOrderID(_ context.Context, sessionID, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handles[sessionID] = orderID
	return nil
}

func (s *MemoryStore) OrderID(_ context.Context, sessionID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.handles[sessionID]
	return id, ok, nil
}

func (s *MemoryStore) ClearOrderID(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.handles, sessionID)
	return nil
}
