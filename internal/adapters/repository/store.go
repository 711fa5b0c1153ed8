// Package repository defines the slot store interface and errors.
package repository

import (
	"context"

	"github.com/okian/srcwatch/internal/domain/slots"
)

// Store provides read/write access to leaderboard slot state. Slots are
// created once during expansion; only their record state mutates afterwards.
type Store interface {
	// Put registers expanded slots. Existing slots with the same key keep
	// their record state.
	Put(ctx context.Context, ss []*slots.Slot)

	// Get returns the slot with the given key.
	// Returns ErrNotFound if the key is unknown.
	Get(ctx context.Context, key string) (*slots.Slot, error)

	// ByNode returns every slot belonging to the (categoryID, levelID) node.
	ByNode(ctx context.Context, categoryID, levelID string) []*slots.Slot

	// UpdateRecord sets a new record on a slot if the time strictly beats the
	// current one, or unconditionally when the slot is empty. Returns true
	// when the record changed.
	UpdateRecord(ctx context.Context, key, runID string, seconds float64) (bool, error)

	// ApplyRecords restores persisted record state by slot key. Keys that no
	// longer exist (taxonomy changed) are ignored.
	ApplyRecords(ctx context.Context, records map[string]slots.Record)

	// All returns every slot in deterministic key order.
	All(ctx context.Context) []*slots.Slot

	// Count returns the number of slots tracked.
	Count(ctx context.Context) int
}
