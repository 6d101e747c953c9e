package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	model "github.com/okian/courtside/internal/domain/model"
)

// MemoryStore implements Store with in-process maps. It is the default
// store for tests and ephemeral deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	matches map[string]MatchRecord
	logs    map[string][]model.Event
	closed  bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		matches: make(map[string]MatchRecord),
		logs:    make(map[string][]model.Event),
	}
}

// CreateMatch registers a match record.
func (s *MemoryStore) CreateMatch(ctx context.Context, rec MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if _, exists := s.matches[rec.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateMatch, rec.ID)
	}
	s.matches[rec.ID] = rec
	return nil
}

// UpdateMatchStatus transitions the directory status for a match.
func (s *MemoryStore) UpdateMatchStatus(ctx context.Context, matchID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	rec, exists := s.matches[matchID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, matchID)
	}
	rec.Status = status
	s.matches[matchID] = rec
	return nil
}

// GetMatch returns the directory row for a match.
func (s *MemoryStore) GetMatch(ctx context.Context, matchID string) (MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return MatchRecord{}, ErrClosed
	}
	rec, exists := s.matches[matchID]
	if !exists {
		return MatchRecord{}, fmt.Errorf("%w: %s", ErrNotFound, matchID)
	}
	return rec, nil
}

// ListMatches returns all matches, most recently created first.
func (s *MemoryStore) ListMatches(ctx context.Context) ([]MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}
	out := make([]MatchRecord, 0, len(s.matches))
	for _, rec := range s.matches {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// AppendEvent appends one event, enforcing gap-free sequencing.
func (s *MemoryStore) AppendEvent(ctx context.Context, e model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if _, exists := s.matches[e.MatchID]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, e.MatchID)
	}
	log := s.logs[e.MatchID]
	if e.Sequence != len(log) {
		return fmt.Errorf("%w: got %d, next is %d", ErrSequenceConflict, e.Sequence, len(log))
	}
	s.logs[e.MatchID] = append(log, e)
	return nil
}

// LoadEvents returns a copy of the ordered log for a match.
func (s *MemoryStore) LoadEvents(ctx context.Context, matchID string) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}
	if _, exists := s.matches[matchID]; !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, matchID)
	}
	log := s.logs[matchID]
	out := make([]model.Event, len(log))
	copy(out, log)
	return out, nil
}

// Close marks the store closed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
