package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/midiroute/pkg/domain"
)

// DefaultHistorySize bounds the session IDs kept per router.
const DefaultHistorySize = 20

// Store implements ports.StatusStore in memory.
// Safe for concurrent use.
type Store struct {
	data    map[string]domain.SessionSnapshot
	history map[string][]string
	mu      sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data:    make(map[string]domain.SessionSnapshot),
		history: make(map[string][]string),
	}
}

// Save records the snapshot and pushes its session ID onto the history.
func (s *Store) Save(ctx context.Context, routerID string, snapshot domain.SessionSnapshot) error {
	copied := cloneSnapshot(snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[routerID] = copied

	h := s.history[routerID]
	if len(h) == 0 || h[0] != snapshot.SessionID {
		h = append([]string{snapshot.SessionID}, h...)
		if len(h) > DefaultHistorySize {
			h = h[:DefaultHistorySize]
		}
		s.history[routerID] = h
	}
	return nil
}

// Load returns the latest snapshot.
func (s *Store) Load(ctx context.Context, routerID string) (domain.SessionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[routerID]
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSnapshotNotFound
	}
	// Copy on read so callers can't mutate the stored maps.
	return cloneSnapshot(snap), nil
}

// History returns recent session IDs, newest first.
func (s *Store) History(ctx context.Context, routerID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.history[routerID]), nil
}

func cloneSnapshot(s domain.SessionSnapshot) domain.SessionSnapshot {
	s.Inputs = maps.Clone(s.Inputs)
	s.Outputs = maps.Clone(s.Outputs)
	s.OpenInputs = slices.Clone(s.OpenInputs)
	s.OpenOutputs = slices.Clone(s.OpenOutputs)
	return s
}
