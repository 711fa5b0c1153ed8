// Package tracker runs the polling control loop: fetch newly verified runs,
// classify each into its leaderboard slot, update record state, and announce
// new runs and new records.
package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/okian/srcwatch/internal/domain/classify"
	"github.com/okian/srcwatch/internal/domain/model"
	"github.com/okian/srcwatch/internal/domain/seenwindow"
	"github.com/okian/srcwatch/internal/domain/slots"
	"github.com/okian/srcwatch/internal/domain/taxonomy"
	"github.com/okian/srcwatch/pkg/logger"
	"github.com/okian/srcwatch/pkg/metrics"
)

// State names the tracker's position in its cycle.
type State string

// Tracker states. The loop walks IDLE -> FETCHING -> CLASSIFYING ->
// UPDATING -> SLEEPING -> FETCHING ... and has no terminal state; a failed
// stage falls through to SLEEPING.
const (
	StateIdle        State = "idle"
	StateFetching    State = "fetching"
	StateClassifying State = "classifying"
	StateUpdating    State = "updating"
	StateSleeping    State = "sleeping"
)

var stateNames = []string{ //nolint:gochecknoglobals // fixed state inventory for metrics
	string(StateIdle), string(StateFetching), string(StateClassifying),
	string(StateUpdating), string(StateSleeping),
}

// Default tracker configuration constants.
const (
	defaultInterval = 30 * time.Second
)

// Source delivers the most recently verified runs, newest first.
type Source interface {
	VerifiedRuns(ctx context.Context, gameID string) ([]model.Run, error)
}

// Store is the slot store surface the tracker needs.
type Store interface {
	ByNode(ctx context.Context, categoryID, levelID string) []*slots.Slot
	UpdateRecord(ctx context.Context, key, runID string, seconds float64) (bool, error)
	All(ctx context.Context) []*slots.Slot
}

// Persister writes the full slot snapshot after a record update.
type Persister interface {
	Save(ctx context.Context, ss []*slots.Slot) error
}

// Emitter receives announcements. Delivery must not block; a false return
// means the announcement was dropped.
type Emitter interface {
	Enqueue(ctx context.Context, a model.Announcement) bool
}

// Tracker owns one polling loop for one game. It is the only writer of the
// slot store.
type Tracker struct {
	tax     *taxonomy.Taxonomy
	source  Source
	store   Store
	persist Persister
	emit    Emitter
	window  *seenwindow.Window

	gameID   string
	interval time.Duration
	logger   logger.Logger

	mu    sync.RWMutex
	state State

	done chan struct{}
}

// New creates a Tracker with configuration options.
func New(tax *taxonomy.Taxonomy, source Source, store Store, persist Persister, emit Emitter, opts ...Option) *Tracker {
	t := &Tracker{
		tax:      tax,
		source:   source,
		store:    store,
		persist:  persist,
		emit:     emit,
		window:   seenwindow.New(),
		gameID:   tax.GameID,
		interval: defaultInterval,
		state:    StateIdle,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = logger.Get().Named("tracker")
	}
	return t
}

// State returns the tracker's current state.
func (t *Tracker) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

func (t *Tracker) setState(s State) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
	metrics.UpdateTrackerState(string(s), stateNames)
}

// Window exposes the seen-id window, mainly for stats and tests.
func (t *Tracker) Window() *seenwindow.Window { return t.window }

// Run executes cycles until ctx is canceled. A failed cycle is logged and
// the loop continues after the normal pause; the loop itself never crashes.
func (t *Tracker) Run(ctx context.Context) {
	defer close(t.done)
	for {
		if err := t.Cycle(ctx); err != nil && !errors.Is(err, context.Canceled) {
			t.logger.Error(ctx, "cycle failed, continuing", logger.Error(err))
		}

		t.setState(StateSleeping)
		select {
		case <-ctx.Done():
			return
		case <-time.After(t.interval):
		}
	}
}

// Done is closed when Run has returned.
func (t *Tracker) Done() <-chan struct{} { return t.done }

// Cycle performs one fetch/classify/update pass.
func (t *Tracker) Cycle(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.RecordCycleDuration(time.Since(start).Seconds())
	}()

	t.setState(StateFetching)
	page, err := t.source.VerifiedRuns(ctx, t.gameID)
	if err != nil {
		metrics.RecordCycle("failed")
		return err
	}

	// The page is newest first; everything at and beyond the first known id
	// has been processed in an earlier cycle.
	var fresh []model.Run
	for _, run := range page {
		if t.window.Contains(run.ID) {
			break
		}
		fresh = append(fresh, run)
	}

	ids := make([]string, 0, len(fresh))
	for _, run := range fresh {
		ids = append(ids, run.ID)
	}
	t.window.PushFront(ids)

	for _, run := range fresh {
		t.processRun(ctx, run)
		if ctx.Err() != nil {
			metrics.RecordCycle("failed")
			return ctx.Err()
		}
	}

	t.window.Trim()
	metrics.UpdateSeenWindowSize(t.window.Len())
	metrics.RecordCycle("ok")
	return nil
}

// processRun announces one new run and applies the record rule. All failure
// modes skip the run without failing the cycle.
func (t *Tracker) processRun(ctx context.Context, run model.Run) {
	metrics.RecordRunSeen()
	t.announce(ctx, model.KindNewRun, run, nil)

	t.setState(StateClassifying)
	candidates := t.store.ByNode(ctx, run.CategoryID, run.LevelID)
	slot, err := classify.Classify(run, candidates)
	if err != nil {
		reason := "no_slot"
		if errors.Is(err, classify.ErrAmbiguous) {
			reason = "ambiguous"
		}
		metrics.RecordClassificationFailure(reason)
		t.logger.Warn(ctx, "run skipped",
			logger.String("run", run.ID),
			logger.String("category", run.CategoryID),
			logger.String("level", run.LevelID),
			logger.Error(err),
		)
		return
	}

	t.setState(StateUpdating)
	prev := slot.Record
	updated, err := t.store.UpdateRecord(ctx, slot.Key(), run.ID, run.Seconds)
	if err != nil {
		t.logger.Error(ctx, "record update failed",
			logger.String("run", run.ID),
			logger.String("slot", slot.Key()),
			logger.Error(err),
		)
		return
	}
	if !updated {
		return
	}

	metrics.RecordNewRecord()
	if !prev.Empty() {
		metrics.RecordImprovement(prev.Seconds - run.Seconds)
	}

	if err := t.persist.Save(ctx, t.store.All(ctx)); err != nil {
		// The in-memory record stands; the next successful save persists it.
		t.logger.Error(ctx, "snapshot save failed", logger.Error(err))
	}

	t.logger.Info(ctx, "new record",
		logger.String("run", run.ID),
		logger.String("slot", slot.Key()),
		logger.String("player", run.PlayerName),
		logger.Float64("seconds", run.Seconds),
	)
	t.announce(ctx, model.KindNewRecord, run, slot)
}

// announce resolves display data and emits one announcement. For records the
// matched slot's fixed choices are used; for plain new runs the run's own
// selections are resolved against the node's variants.
func (t *Tracker) announce(ctx context.Context, kind model.Kind, run model.Run, slot *slots.Slot) {
	a := model.Announcement{
		Kind:         kind,
		Run:          run,
		GameName:     t.tax.GameName,
		Abbreviation: t.tax.Abbreviation,
	}
	if cat, lvl, ok := t.tax.NodeNames(run.CategoryID, run.LevelID); ok {
		a.CategoryName = cat
		a.LevelName = lvl
	}
	if slot != nil {
		a.SlotKey = slot.Key()
		a.Choices = slot.Choices
	} else {
		a.Choices = t.tax.ResolveChoices(run.CategoryID, run.LevelID, run.Values)
	}
	if !t.emit.Enqueue(ctx, a) {
		t.logger.Warn(ctx, "announcement dropped",
			logger.String("run", run.ID),
			logger.String("kind", kind.String()),
		)
	}
}
