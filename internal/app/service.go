// Package service assembles the record watcher: it builds the game taxonomy,
// expands the slot table, restores the snapshot, and runs the tracker and
// notifier until stopped.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/srcwatch/internal/adapters/http/api"
	"github.com/okian/srcwatch/internal/adapters/mq/queue"
	"github.com/okian/srcwatch/internal/adapters/notify"
	"github.com/okian/srcwatch/internal/adapters/repository"
	"github.com/okian/srcwatch/internal/adapters/snapshot"
	"github.com/okian/srcwatch/internal/adapters/srcapi"
	"github.com/okian/srcwatch/internal/domain/model"
	"github.com/okian/srcwatch/internal/domain/seenwindow"
	"github.com/okian/srcwatch/internal/domain/slots"
	"github.com/okian/srcwatch/internal/domain/taxonomy"
	"github.com/okian/srcwatch/internal/domain/timefmt"
	"github.com/okian/srcwatch/internal/domain/tracker"
	"github.com/okian/srcwatch/pkg/logger"
)

// Default service configuration constants.
const (
	defaultGameID       = "76rqjqd8"
	defaultPollInterval = 30 * time.Second
	defaultQueueSize    = 1024
	defaultWindowSize   = 30
	defaultSnapshotPath = "srcwatch.db"
	shutdownGrace       = 5 * time.Second
)

// Source is the upstream the tracker polls. The live implementation is
// srcapi.Client; tests and the simulator substitute their own.
type Source interface {
	GameMetadata(ctx context.Context, gameID string) (taxonomy.Metadata, error)
	VerifiedRuns(ctx context.Context, gameID string) ([]model.Run, error)
}

// Service owns the component lifecycle and implements the read API.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    *repository.MemoryStore
	snap     *snapshot.Store
	queue    *queue.InMemoryQueue
	tracker  *tracker.Tracker
	notifier *notify.Notifier
	tax      *taxonomy.Taxonomy
	source   Source

	// Configuration
	gameID       string
	apiBaseURL   string
	pollInterval time.Duration
	queueSize    int
	windowSize   int
	snapshotPath string
	webhookURL   string
	toggleNames  []string

	retryAttempts int
	retryDelay    time.Duration
	pageSize      int

	// State
	started bool
	cancel  context.CancelFunc

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithGameID sets the speedrun.com game id to track.
func WithGameID(id string) Option {
	return func(s *Service) {
		if id != "" {
			s.gameID = id
		}
	}
}

// WithAPIBaseURL overrides the speedrun.com API base URL.
func WithAPIBaseURL(u string) Option {
	return func(s *Service) {
		s.apiBaseURL = u
	}
}

// WithPollInterval sets the pause between tracker cycles.
func WithPollInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithQueueSize sets the announcement queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithSeenWindowSize sets how many recent run ids are remembered.
func WithSeenWindowSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.windowSize = size
		}
	}
}

// WithSnapshotPath sets the sqlite snapshot file location.
func WithSnapshotPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.snapshotPath = path
		}
	}
}

// WithWebhookURL enables the Discord sink for record announcements.
func WithWebhookURL(u string) Option {
	return func(s *Service) {
		s.webhookURL = u
	}
}

// WithToggleNames sets the variable names treated as separating toggles.
func WithToggleNames(names []string) Option {
	return func(s *Service) {
		if len(names) > 0 {
			s.toggleNames = names
		}
	}
}

// WithSourceTuning adjusts the live client's retry policy and page size.
// Ignored when WithSource supplies a source directly.
func WithSourceTuning(retryAttempts int, retryDelay time.Duration, pageSize int) Option {
	return func(s *Service) {
		s.retryAttempts = retryAttempts
		s.retryDelay = retryDelay
		s.pageSize = pageSize
	}
}

// WithSource replaces the upstream, mainly for tests and the simulator.
func WithSource(src Source) Option {
	return func(s *Service) {
		s.source = src
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		gameID:       defaultGameID,
		pollInterval: defaultPollInterval,
		queueSize:    defaultQueueSize,
		windowSize:   defaultWindowSize,
		snapshotPath: defaultSnapshotPath,
		toggleNames:  []string{"amiibo"},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the taxonomy, restores persisted records, and launches the
// tracker and notifier. A snapshot that cannot be opened or read fails
// startup rather than silently discarding record state.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting record watcher",
		logger.String("game", s.gameID),
	)

	if s.source == nil {
		clientOpts := []srcapi.Option{srcapi.WithLogger(s.logger.Named("srcapi"))}
		if s.apiBaseURL != "" {
			clientOpts = append(clientOpts, srcapi.WithBaseURL(s.apiBaseURL))
		}
		if s.retryAttempts > 0 {
			clientOpts = append(clientOpts, srcapi.WithRetry(s.retryAttempts, s.retryDelay))
		}
		if s.pageSize > 0 {
			clientOpts = append(clientOpts, srcapi.WithPageSize(s.pageSize))
		}
		s.source = srcapi.NewClient(clientOpts...)
	}

	snap, err := snapshot.Open(ctx, s.snapshotPath)
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	s.snap = snap

	meta, err := s.source.GameMetadata(ctx, s.gameID)
	if err != nil {
		_ = snap.Close()
		return fmt.Errorf("loading game metadata: %w", err)
	}

	builder := taxonomy.NewBuilder(
		taxonomy.WithToggleNames(s.toggleNames),
		taxonomy.WithLogger(s.logger.Named("taxonomy")),
	)
	tax, err := builder.Build(ctx, meta)
	if err != nil {
		_ = snap.Close()
		return fmt.Errorf("building taxonomy: %w", err)
	}
	s.tax = tax

	s.store = repository.NewMemoryStore(ctx)
	s.store.Put(ctx, slots.ExpandAll(tax))

	records, err := snap.Load(ctx)
	if err != nil {
		_ = snap.Close()
		return fmt.Errorf("restoring snapshot: %w", err)
	}
	s.store.ApplyRecords(ctx, records)

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))

	notifyOpts := []notify.Option{notify.WithNotifierLogger(s.logger.Named("notify"))}
	if s.webhookURL != "" {
		notifyOpts = append(notifyOpts, notify.WithSink(notify.NewDiscordSink(s.webhookURL)))
	}
	s.notifier = notify.New(s.queue, notifyOpts...)

	window := seenwindow.New(seenwindow.WithSize(s.windowSize))
	s.tracker = tracker.New(tax, s.source, s.store, snap, s.queue,
		tracker.WithInterval(s.pollInterval),
		tracker.WithWindow(window),
		tracker.WithLogger(s.logger.Named("tracker")),
	)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	go s.tracker.Run(runCtx)
	go s.notifier.Run(runCtx)

	s.started = true
	s.logger.Info(ctx, "record watcher started",
		logger.String("game", tax.GameName),
		logger.Int("slots", s.store.Count(ctx)),
		logger.Int("restored", len(records)),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	s.logger.Info(ctx, "stopping record watcher")

	if s.cancel != nil {
		s.cancel()
	}
	if s.tracker != nil {
		select {
		case <-s.tracker.Done():
		case <-ctx.Done():
			s.logger.Warn(ctx, "tracker shutdown timed out")
		}
	}
	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.notifier != nil {
		_ = s.notifier.Shutdown(ctx)
	}
	if s.snap != nil {
		_ = s.snap.Close()
	}

	s.started = false
	s.logger.Info(ctx, "record watcher stopped")
}

// Records implements api.RecordsProvider. Results follow the store's sorted
// key order.
func (s *Service) Records(ctx context.Context, includeEmpty bool) []api.RecordEntry {
	s.mu.RLock()
	store, tax := s.store, s.tax
	s.mu.RUnlock()

	if store == nil {
		return nil
	}

	all := store.All(ctx)
	entries := make([]api.RecordEntry, 0, len(all))
	for _, slot := range all {
		if slot.Record.Empty() && !includeEmpty {
			continue
		}
		entry := api.RecordEntry{
			SlotKey:   slot.Key(),
			Category:  slot.CategoryID,
			HasRecord: !slot.Record.Empty(),
		}
		if tax != nil {
			if cat, lvl, ok := tax.NodeNames(slot.CategoryID, slot.LevelID); ok {
				entry.Category = cat
				entry.Level = lvl
			}
		}
		if len(slot.Choices) > 0 {
			entry.Choices = make(map[string]string, len(slot.Choices))
			for _, c := range slot.Choices {
				entry.Choices[c.VariantName] = c.ValueLabel
			}
		}
		if !slot.Record.Empty() {
			entry.RunID = slot.Record.RunID
			entry.Seconds = slot.Record.Seconds
			entry.Time = timefmt.Seconds(slot.Record.Seconds)
		}
		entries = append(entries, entry)
	}
	return entries
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":      s.started,
		"gameID":       s.gameID,
		"pollInterval": s.pollInterval.String(),
		"queueSize":    s.queueSize,
		"windowSize":   s.windowSize,
	}

	if s.started {
		stats["gameName"] = s.tax.GameName
		stats["totalSlots"] = s.store.Count(ctx)
		stats["queueLength"] = s.queue.Len(ctx)
		stats["trackerState"] = string(s.tracker.State())
		stats["seenWindow"] = s.tracker.Window().Len()
	}

	return stats
}
