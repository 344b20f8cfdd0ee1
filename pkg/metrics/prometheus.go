// Package metrics provides Prometheus metrics for the crossdash dashboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the dashboard.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Pipeline metrics
	renderCycles       prometheus.Counter
	renderCycleLatency prometheus.Histogram
	filteredRecords    prometheus.Gauge
	datasetRecords     prometheus.Gauge
	countries          prometheus.Gauge

	// Data loader metrics
	loadDuration  prometheus.Gauge
	loadFailures  prometheus.Counter
	invalidRows   *prometheus.CounterVec
	loadedRecords prometheus.Counter

	// Command metrics
	commandsEnqueued  *prometheus.CounterVec
	commandsRejected  *prometheus.CounterVec
	commandsProcessed *prometheus.CounterVec
	commandsDuplicate prometheus.Counter
	commandLatency    prometheus.Histogram

	// Queue metrics
	queueSize     prometheus.Gauge
	queueCapacity prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorsByComponent *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton recorder used by the package-level helpers

// customRegistry keeps default Go collectors off /healthz.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // registry served by promhttp

func init() { //nolint:gochecknoinits // metrics must exist before any component records
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers all metrics on its registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "crossdash",
		subsystem:        "dashboard",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)

	m.renderCycles = auto.NewCounter(m.counterOpts("render_cycles_total", "Total number of filter -> aggregate -> redraw cycles"))
	m.renderCycleLatency = auto.NewHistogram(m.histogramOpts("render_cycle_latency_milliseconds", "Render cycle latency in milliseconds"))
	m.filteredRecords = auto.NewGauge(m.gaugeOpts("filtered_records", "Number of records passing the current filter"))
	m.datasetRecords = auto.NewGauge(m.gaugeOpts("dataset_records", "Number of records in the loaded dataset"))
	m.countries = auto.NewGauge(m.gaugeOpts("countries", "Number of distinct country ids in the dataset"))

	m.loadDuration = auto.NewGauge(m.gaugeOpts("load_duration_milliseconds", "Duration of the last dataset load in milliseconds"))
	m.loadFailures = auto.NewCounter(m.counterOpts("load_failures_total", "Total number of failed dataset loads"))
	m.invalidRows = auto.NewCounterVec(m.counterOpts("invalid_rows_total", "Rows with unparseable numeric fields by applied policy"), []string{"policy"})
	m.loadedRecords = auto.NewCounter(m.counterOpts("loaded_records_total", "Total number of records accepted by the loader"))

	m.commandsEnqueued = auto.NewCounterVec(m.counterOpts("commands_enqueued_total", "Commands accepted by the queue"), []string{"kind"})
	m.commandsRejected = auto.NewCounterVec(m.counterOpts("commands_rejected_total", "Commands rejected by the queue"), []string{"reason"})
	m.commandsProcessed = auto.NewCounterVec(m.counterOpts("commands_processed_total", "Commands applied by the dispatcher"), []string{"kind"})
	m.commandsDuplicate = auto.NewCounter(m.counterOpts("commands_duplicate_total", "Commands dropped because their idempotency key was already seen"))
	m.commandLatency = auto.NewHistogram(m.histogramOpts("command_latency_milliseconds", "Time from enqueue to applied command in milliseconds"))

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current number of queued commands"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum number of queued commands"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(m.counterOpts("errors_total", "Errors by component and type"), []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap memory in use in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
}

// RecordRenderCycle counts one render cycle and its latency.
func RecordRenderCycle(latencyMs float64) {
	globalManager.renderCycles.Inc()
	globalManager.renderCycleLatency.Observe(latencyMs)
}

// UpdateFilteredRecords sets the number of records passing the filter.
func UpdateFilteredRecords(count int) {
	globalManager.filteredRecords.Set(float64(count))
}

// UpdateDatasetRecords sets the dataset size and distinct country count.
func UpdateDatasetRecords(records, countries int) {
	globalManager.datasetRecords.Set(float64(records))
	globalManager.countries.Set(float64(countries))
}

// RecordLoad records a successful load.
func RecordLoad(durationMs float64, records int) {
	globalManager.loadDuration.Set(durationMs)
	globalManager.loadedRecords.Add(float64(records))
}

// RecordLoadFailure records a failed load.
func RecordLoadFailure(durationMs float64) {
	globalManager.loadDuration.Set(durationMs)
	globalManager.loadFailures.Inc()
}

// RecordInvalidRows counts rows with unparseable numeric fields.
func RecordInvalidRows(policy string, count int) {
	if count <= 0 {
		return
	}
	globalManager.invalidRows.WithLabelValues(policy).Add(float64(count))
}

// RecordCommandEnqueued counts an accepted command.
func RecordCommandEnqueued(kind string) {
	globalManager.commandsEnqueued.WithLabelValues(kind).Inc()
}

// RecordCommandRejected counts a command the queue refused.
func RecordCommandRejected(reason string) {
	globalManager.commandsRejected.WithLabelValues(reason).Inc()
}

// RecordCommandProcessed counts an applied command and its queueing latency.
func RecordCommandProcessed(kind string, latencyMs float64) {
	globalManager.commandsProcessed.WithLabelValues(kind).Inc()
	globalManager.commandLatency.Observe(latencyMs)
}

// RecordCommandDuplicate counts a command dropped by idempotency checks.
func RecordCommandDuplicate() {
	globalManager.commandsDuplicate.Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap memory in use.
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
