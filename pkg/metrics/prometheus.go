// Package metrics provides Prometheus metrics for the sporttools service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Scoring
	measurementsScored    prometheus.Counter
	measurementsDuplicate prometheus.Counter
	scoringLatency        prometheus.Histogram
	scoringErrors         prometheus.Counter
	bonusAwarded          *prometheus.CounterVec
	gradeLevels           *prometheus.CounterVec

	// Ranking
	rankingUpdates prometheus.Counter
	rankedStudents prometheus.Gauge

	// Scheduling
	scheduleRuns         prometheus.Counter
	scheduleDuration     prometheus.Histogram
	heatsGenerated       prometheus.Counter
	conflictsDetected    *prometheus.GaugeVec
	manualHeatsRejected  *prometheus.CounterVec
	scheduleEmptyResults prometheus.Counter

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors *prometheus.CounterVec

	// Workers
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// latencyBuckets are in milliseconds; scoring and scheduling run in-process.
var latencyBuckets = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000} //nolint:gochecknoglobals

// NewManager creates a metrics manager registered on the configured registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "sporttools",
		histogramBuckets: latencyBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     m.histogramBuckets,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.measurementsScored = auto.NewCounter(m.counterOpts("measurements_scored_total",
		"Total number of measurements scored"))
	m.measurementsDuplicate = auto.NewCounter(m.counterOpts("measurements_duplicate_total",
		"Total number of measurement submissions rejected as duplicates"))
	m.scoringLatency = auto.NewHistogram(m.histogramOpts("scoring_latency_milliseconds",
		"Time spent scoring one measurement"))
	m.scoringErrors = auto.NewCounter(m.counterOpts("scoring_errors_total",
		"Total number of measurements that failed to score"))
	m.bonusAwarded = auto.NewCounterVec(m.counterOpts("bonus_points_total",
		"Bonus points awarded, by item"), []string{"item"})
	m.gradeLevels = auto.NewCounterVec(m.counterOpts("grade_levels_total",
		"Scored measurements by grade level"), []string{"level"})

	m.rankingUpdates = auto.NewCounter(m.counterOpts("ranking_updates_total",
		"Total number of ranking updates"))
	m.rankedStudents = auto.NewGauge(m.gaugeOpts("ranked_students",
		"Number of students in the ranking"))

	m.scheduleRuns = auto.NewCounter(m.counterOpts("schedule_runs_total",
		"Total number of automatic scheduling runs"))
	m.scheduleDuration = auto.NewHistogram(m.histogramOpts("schedule_duration_milliseconds",
		"Time spent generating one schedule"))
	m.heatsGenerated = auto.NewCounter(m.counterOpts("heats_generated_total",
		"Total number of heats generated by automatic scheduling"))
	m.conflictsDetected = auto.NewGaugeVec(m.gaugeOpts("conflicts_detected",
		"Conflicts found in the latest check, by type"), []string{"type"})
	m.manualHeatsRejected = auto.NewCounterVec(m.counterOpts("manual_heats_rejected_total",
		"Manual heat saves rejected because of a conflict, by type"), []string{"type"})
	m.scheduleEmptyResults = auto.NewCounter(m.counterOpts("schedule_empty_results_total",
		"Scheduling runs that produced no heats"))

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size",
		"Current number of measurements waiting to be scored"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity",
		"Maximum number of measurements the queue can hold"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueued_total",
		"Total number of measurements enqueued"))
	m.queueDequeued = auto.NewCounter(m.counterOpts("queue_dequeued_total",
		"Total number of measurements dequeued"))
	m.queueEnqueueErrors = auto.NewCounterVec(m.counterOpts("queue_enqueue_errors_total",
		"Total number of failed enqueues, by reason"), []string{"reason"})

	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count",
		"Current number of scoring workers"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts("worker_processing_latency_milliseconds",
		"Time spent by a worker on one measurement including storage"))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total",
		"Total number of worker failures"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"})
	m.httpErrors = auto.NewCounterVec(m.counterOpts("http_errors_total",
		"HTTP error responses by endpoint, type and severity"),
		[]string{"endpoint", "method", "error_type", "severity"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes",
		"Heap memory in use"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count",
		"Number of running goroutines"))
}

// RecordMeasurementScored counts a scored measurement and its grade level.
func RecordMeasurementScored(level string) {
	globalManager.measurementsScored.Inc()
	if level != "" {
		globalManager.gradeLevels.WithLabelValues(level).Inc()
	}
}

// RecordMeasurementDuplicate counts a duplicate submission.
func RecordMeasurementDuplicate() {
	globalManager.measurementsDuplicate.Inc()
}

// RecordScoringLatency records scoring time in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// RecordScoringError counts a failed scoring attempt.
func RecordScoringError() {
	globalManager.scoringErrors.Inc()
}

// RecordBonusAwarded adds bonus points for an item.
func RecordBonusAwarded(item string, points int) {
	if points > 0 {
		globalManager.bonusAwarded.WithLabelValues(item).Add(float64(points))
	}
}

// RecordRankingUpdate counts a ranking change.
func RecordRankingUpdate() {
	globalManager.rankingUpdates.Inc()
}

// UpdateRankedStudents sets the ranking size.
func UpdateRankedStudents(count int) {
	globalManager.rankedStudents.Set(float64(count))
}

// RecordScheduleRun records one automatic scheduling run.
func RecordScheduleRun(durationMs float64, heats int) {
	globalManager.scheduleRuns.Inc()
	globalManager.scheduleDuration.Observe(durationMs)
	globalManager.heatsGenerated.Add(float64(heats))
	if heats == 0 {
		globalManager.scheduleEmptyResults.Inc()
	}
}

// UpdateConflictsDetected sets the conflict gauge for one type.
func UpdateConflictsDetected(conflictType string, count int) {
	globalManager.conflictsDetected.WithLabelValues(conflictType).Set(float64(count))
}

// RecordManualHeatRejected counts a manual save rejected by a conflict.
func RecordManualHeatRejected(conflictType string) {
	globalManager.manualHeatsRejected.WithLabelValues(conflictType).Inc()
}

// UpdateQueueSize sets the queue backlog.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue counts an enqueue.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue counts a dequeue.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError counts a failed enqueue.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// UpdateWorkerCount sets the worker gauge.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker time in milliseconds.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError counts a worker failure.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records request time in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError counts an error response.
func RecordHTTPError(endpoint, method, errorType, severity string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType, severity).Inc()
}

// UpdateSystemMemoryUsage sets heap usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the registry served at /metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
