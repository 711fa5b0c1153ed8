// Package metrics provides Prometheus metrics for the srcwatch record
// tracking service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the srcwatch service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Tracker metrics - the polling control loop
	cyclesTotal     *prometheus.CounterVec
	cycleDuration   prometheus.Histogram
	runsSeen        prometheus.Counter
	recordsSet      prometheus.Counter
	classifyFailed  *prometheus.CounterVec
	trackerState    *prometheus.GaugeVec
	seenWindowSize  prometheus.Gauge
	lastCycleUnix   prometheus.Gauge
	recordImproveBy prometheus.Histogram

	// Source client metrics
	sourceRequests prometheus.Counter
	sourceRetries  prometheus.Counter
	sourceErrors   prometheus.Counter
	sourceLatency  prometheus.Histogram

	// Slot store metrics
	slotsTotal prometheus.Gauge
	slotsEmpty prometheus.Gauge

	// Snapshot metrics
	snapshotSaves        prometheus.Counter
	snapshotSaveErrors   prometheus.Counter
	snapshotSaveDuration prometheus.Histogram
	snapshotLastUnix     prometheus.Gauge

	// Queue metrics - announcement delivery
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueRate   prometheus.Counter
	queueDequeueRate   prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Notifier metrics
	notificationsSent   *prometheus.CounterVec
	notificationErrors  prometheus.Counter
	notificationLatency prometheus.Histogram

	// HTTP metrics - read API
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "srcwatch",
		subsystem:        "tracker",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // metric inventory
	auto := promauto.With(m.registry)

	m.cyclesTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cycles_total",
		Help:      "Polling cycles completed, by outcome",
	}, []string{"outcome"})

	m.cycleDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cycle_duration_seconds",
		Help:      "Duration of one full polling cycle",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	m.runsSeen = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_seen_total",
		Help:      "Newly discovered verified runs",
	})

	m.recordsSet = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_set_total",
		Help:      "New records set (including first entries in empty slots)",
	})

	m.classifyFailed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "classification_failures_total",
		Help:      "Runs skipped by the classifier, by reason",
	}, []string{"reason"})

	m.trackerState = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "state",
		Help:      "Current tracker state (1 for the active state, 0 otherwise)",
	}, []string{"state"})

	m.seenWindowSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "seen_window_size",
		Help:      "Run ids currently held in the seen window",
	})

	m.lastCycleUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_cycle_timestamp_seconds",
		Help:      "Unix time of the last completed cycle",
	})

	m.recordImproveBy = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "record_improvement_seconds",
		Help:      "How much a new record improved on the previous one",
		Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300, 1800},
	})

	m.sourceRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "source",
		Name:      "requests_total",
		Help:      "Requests issued against the run data source",
	})

	m.sourceRetries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "source",
		Name:      "retries_total",
		Help:      "Retried source requests",
	})

	m.sourceErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "source",
		Name:      "errors_total",
		Help:      "Source operations that exhausted their retry budget",
	})

	m.sourceLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "source",
		Name:      "request_duration_seconds",
		Help:      "Source request latency",
		Buckets:   m.histogramBuckets,
	})

	m.slotsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "slots",
		Name:      "total",
		Help:      "Total leaderboard slots tracked",
	})

	m.slotsEmpty = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "slots",
		Name:      "empty",
		Help:      "Slots with no record holder yet",
	})

	m.snapshotSaves = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "snapshot",
		Name:      "saves_total",
		Help:      "Snapshot persistence writes",
	})

	m.snapshotSaveErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "snapshot",
		Name:      "save_errors_total",
		Help:      "Failed snapshot persistence writes",
	})

	m.snapshotSaveDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "snapshot",
		Name:      "save_duration_seconds",
		Help:      "Snapshot write latency",
		Buckets:   m.histogramBuckets,
	})

	m.snapshotLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "snapshot",
		Name:      "last_save_timestamp_seconds",
		Help:      "Unix time of the last successful snapshot write",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "queue",
		Name:      "size",
		Help:      "Announcements currently queued",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "queue",
		Name:      "capacity",
		Help:      "Maximum announcement queue capacity",
	})

	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "queue",
		Name:      "utilization_ratio",
		Help:      "Queue fill ratio (0-1)",
	})

	m.queueEnqueueRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "queue",
		Name:      "enqueued_total",
		Help:      "Announcements enqueued",
	})

	m.queueDequeueRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "queue",
		Name:      "dequeued_total",
		Help:      "Announcements dequeued",
	})

	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "queue",
		Name:      "enqueue_errors_total",
		Help:      "Announcements dropped on enqueue (full or closed queue)",
	})

	m.notificationsSent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "notify",
		Name:      "sent_total",
		Help:      "Notifications delivered, by event kind",
	}, []string{"kind"})

	m.notificationErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "notify",
		Name:      "errors_total",
		Help:      "Notification deliveries that failed and were dropped",
	})

	m.notificationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "notify",
		Name:      "delivery_duration_seconds",
		Help:      "Notification delivery latency",
		Buckets:   m.histogramBuckets,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served by the read API",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "Process memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutine_count",
		Help:      "Number of goroutines",
	})
}

// Tracker metrics functions.

// RecordCycle counts a completed cycle with its outcome ("ok" or "failed").
func RecordCycle(outcome string) {
	globalManager.cyclesTotal.WithLabelValues(outcome).Inc()
	globalManager.lastCycleUnix.SetToCurrentTime()
}

// RecordCycleDuration records the duration of one polling cycle.
func RecordCycleDuration(seconds float64) {
	globalManager.cycleDuration.Observe(seconds)
}

// RecordRunSeen counts a newly discovered run.
func RecordRunSeen() {
	globalManager.runsSeen.Inc()
}

// RecordNewRecord counts a record update.
func RecordNewRecord() {
	globalManager.recordsSet.Inc()
}

// RecordClassificationFailure counts a skipped run ("no_slot" or "ambiguous").
func RecordClassificationFailure(reason string) {
	globalManager.classifyFailed.WithLabelValues(reason).Inc()
}

// UpdateTrackerState marks the active tracker state among all known states.
func UpdateTrackerState(active string, all []string) {
	for _, s := range all {
		v := 0.0
		if s == active {
			v = 1.0
		}
		globalManager.trackerState.WithLabelValues(s).Set(v)
	}
}

// UpdateSeenWindowSize sets the current seen-window size.
func UpdateSeenWindowSize(n int) {
	globalManager.seenWindowSize.Set(float64(n))
}

// RecordImprovement records by how many seconds a record improved.
func RecordImprovement(seconds float64) {
	globalManager.recordImproveBy.Observe(seconds)
}

// Source metrics functions.

// RecordSourceRequest counts one source request attempt.
func RecordSourceRequest() {
	globalManager.sourceRequests.Inc()
}

// RecordSourceRetry counts one retried source request.
func RecordSourceRetry() {
	globalManager.sourceRetries.Inc()
}

// RecordSourceError counts one source operation that exhausted its retries.
func RecordSourceError() {
	globalManager.sourceErrors.Inc()
}

// RecordSourceLatency records source request latency in seconds.
func RecordSourceLatency(seconds float64) {
	globalManager.sourceLatency.Observe(seconds)
}

// Slot store metrics functions.

// UpdateSlotCounts sets the total and empty slot gauges.
func UpdateSlotCounts(total, empty int) {
	globalManager.slotsTotal.Set(float64(total))
	globalManager.slotsEmpty.Set(float64(empty))
}

// Snapshot metrics functions.

// RecordSnapshotSave counts a successful snapshot write.
func RecordSnapshotSave(seconds float64) {
	globalManager.snapshotSaves.Inc()
	globalManager.snapshotSaveDuration.Observe(seconds)
	globalManager.snapshotLastUnix.SetToCurrentTime()
}

// RecordSnapshotError counts a failed snapshot write.
func RecordSnapshotError() {
	globalManager.snapshotSaveErrors.Inc()
}

// Queue metrics functions.

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueUtilization sets the queue fill ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// Notifier metrics functions.

// RecordNotificationSent counts a delivered notification by event kind.
func RecordNotificationSent(kind string) {
	globalManager.notificationsSent.WithLabelValues(kind).Inc()
}

// RecordNotificationError counts a dropped notification.
func RecordNotificationError() {
	globalManager.notificationErrors.Inc()
}

// RecordNotificationLatency records delivery latency in seconds.
func RecordNotificationLatency(seconds float64) {
	globalManager.notificationLatency.Observe(seconds)
}

// HTTP metrics functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in seconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// System metrics functions.

// UpdateSystemMemoryUsage sets the process memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
