// Package seenwindow tracks the most recently seen run ids so each polling
// cycle can stop scanning at the first id it has already processed.
package seenwindow

import "sync"

// Default window configuration.
const defaultSize = 30

// Window is a fixed-capacity, most-recent-first list of run ids with set
// semantics. The tracker pushes each cycle's new ids at the front and trims
// back to capacity afterwards.
type Window struct {
	mu   sync.RWMutex
	ids  []string
	seen map[string]struct{}
	size int
}

// Option applies a configuration option to the Window.
type Option func(*Window)

// WithSize sets the maximum number of ids retained.
func WithSize(n int) Option {
	return func(w *Window) {
		if n > 0 {
			w.size = n
		}
	}
}

// New creates a Window with configuration options.
func New(opts ...Option) *Window {
	w := &Window{
		seen: make(map[string]struct{}),
		size: defaultSize,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Seed loads previously known ids, most recent first, e.g. recovered from an
// announcement channel at startup. Trims to capacity.
func (w *Window) Seed(ids []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, id := range ids {
		if _, dup := w.seen[id]; dup {
			continue
		}
		w.ids = append(w.ids, id)
		w.seen[id] = struct{}{}
	}
	w.trimLocked()
}

// Contains reports whether id is inside the window.
func (w *Window) Contains(id string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.seen[id]
	return ok
}

// PushFront prepends a batch of ids, preserving the batch's own order at the
// front of the window. Ids already present are left where they are.
func (w *Window) PushFront(ids []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fresh := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := w.seen[id]; dup {
			continue
		}
		fresh = append(fresh, id)
		w.seen[id] = struct{}{}
	}
	w.ids = append(fresh, w.ids...)
}

// Trim drops the oldest ids beyond capacity.
func (w *Window) Trim() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.trimLocked()
}

func (w *Window) trimLocked() {
	if len(w.ids) <= w.size {
		return
	}
	for _, id := range w.ids[w.size:] {
		delete(w.seen, id)
	}
	w.ids = w.ids[:w.size]
}

// IDs returns a copy of the window, most recent first.
func (w *Window) IDs() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]string, len(w.ids))
	copy(out, w.ids)
	return out
}

// Len returns the number of ids currently tracked.
func (w *Window) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.ids)
}
