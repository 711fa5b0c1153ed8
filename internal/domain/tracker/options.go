package tracker

import (
	"time"

	"github.com/okian/srcwatch/internal/domain/seenwindow"
	"github.com/okian/srcwatch/pkg/logger"
)

// Option configures a Tracker.
type Option func(*Tracker)

// WithInterval sets the pause between cycles.
func WithInterval(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.interval = d
		}
	}
}

// WithWindow replaces the seen-id window, e.g. one with a custom size.
func WithWindow(w *seenwindow.Window) Option {
	return func(t *Tracker) {
		if w != nil {
			t.window = w
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(t *Tracker) {
		t.logger = l
	}
}
