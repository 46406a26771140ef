package selector

import (
	"context"
	"sync"

	"pointsgate/internal/rulecheck"
)

// VerdictStore holds the most recent rule-check verdict. Implementations
// replace the stored value wholesale; last writer wins.
type VerdictStore interface {
	// Get returns the stored verdict and whether one is present.
	Get(ctx context.Context) (rulecheck.Result, bool, error)
	// Put replaces the stored verdict.
	Put(ctx context.Context, res rulecheck.Result) error
	// Clear drops the stored verdict so the next read misses.
	Clear(ctx context.Context) error
}

// MemoryStore is the default in-process VerdictStore.
type MemoryStore struct {
	mu      sync.RWMutex
	verdict rulecheck.Result
	present bool
}

// NewMemoryStore creates an empty in-process verdict store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get returns the stored verdict, if any.
func (s *MemoryStore) Get(_ context.Context) (rulecheck.Result, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.verdict, s.present, nil
}

// Put replaces the stored verdict.
func (s *MemoryStore) Put(_ context.Context, res rulecheck.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verdict = res
	s.present = true
	return nil
}

// Clear drops the stored verdict.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verdict = rulecheck.Result{}
	s.present = false
	return nil
}
