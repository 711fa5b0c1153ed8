package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/okian/srcwatch/internal/domain/slots"
	"github.com/okian/srcwatch/pkg/metrics"
)

// MemoryStore is the in-memory Store implementation. Writes come only from
// the record tracker; the read API takes read locks.
type MemoryStore struct {
	mu     sync.RWMutex
	byKey  map[string]*slots.Slot
	byNode map[string][]*slots.Slot
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(ctx context.Context) *MemoryStore {
	return &MemoryStore{
		byKey:  make(map[string]*slots.Slot),
		byNode: make(map[string][]*slots.Slot),
	}
}

// Put registers expanded slots, keeping record state for known keys.
func (s *MemoryStore) Put(ctx context.Context, ss []*slots.Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, slot := range ss {
		key := slot.Key()
		if existing, ok := s.byKey[key]; ok {
			slot.Record = existing.Record
		}
		s.byKey[key] = slot
	}
	s.reindexLocked()
	s.updateGaugesLocked()
}

// Get returns the slot with the given key.
func (s *MemoryStore) Get(ctx context.Context, key string) (*slots.Slot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slot, ok := s.byKey[key]
	if !ok {
		return nil, fmt.Errorf("slot %s: %w", key, ErrNotFound)
	}
	return slot, nil
}

// ByNode returns the slots of one taxonomy node.
func (s *MemoryStore) ByNode(ctx context.Context, categoryID, levelID string) []*slots.Slot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byNode[slots.NodeKey(categoryID, levelID)]
}

// UpdateRecord applies the record rule: strictly lower time wins, an empty
// slot is always filled.
func (s *MemoryStore) UpdateRecord(ctx context.Context, key, runID string, seconds float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.byKey[key]
	if !ok {
		return false, fmt.Errorf("slot %s: %w", key, ErrNotFound)
	}
	if !slot.Record.Empty() && seconds >= slot.Record.Seconds {
		return false, nil
	}
	slot.Record = slots.Record{RunID: runID, Seconds: seconds}
	s.updateGaugesLocked()
	return true, nil
}

// ApplyRecords restores persisted record state; unknown keys are skipped.
func (s *MemoryStore) ApplyRecords(ctx context.Context, records map[string]slots.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, rec := range records {
		if slot, ok := s.byKey[key]; ok {
			slot.Record = rec
		}
	}
	s.updateGaugesLocked()
}

// All returns every slot sorted by key.
func (s *MemoryStore) All(ctx context.Context) []*slots.Slot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.byKey))
	for k := range s.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*slots.Slot, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.byKey[k])
	}
	return out
}

// Count returns the number of slots tracked.
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey)
}

// reindexLocked rebuilds the node index. Must hold s.mu.
func (s *MemoryStore) reindexLocked() {
	s.byNode = make(map[string][]*slots.Slot, len(s.byNode))
	keys := make([]string, 0, len(s.byKey))
	for k := range s.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		slot := s.byKey[k]
		nk := slot.NodeKey()
		s.byNode[nk] = append(s.byNode[nk], slot)
	}
}

// updateGaugesLocked refreshes slot gauges. Must hold s.mu.
func (s *MemoryStore) updateGaugesLocked() {
	empty := 0
	for _, slot := range s.byKey {
		if slot.Record.Empty() {
			empty++
		}
	}
	metrics.UpdateSlotCounts(len(s.byKey), empty)
}
