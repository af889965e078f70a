// Package metrics provides Prometheus metrics for the oculo screening service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Pipeline metrics - the per-frame signal path
	framesProcessed prometheus.Counter
	facesDetected   prometheus.Counter
	facesMissed     prometheus.Counter
	blinksDetected  prometheus.Counter
	oracleLatency   prometheus.Histogram
	phasesCompleted *prometheus.CounterVec

	// Screening metrics - completed sessions and outcomes
	screeningsStarted   prometheus.Counter
	screeningsCompleted prometheus.Counter
	screeningsFailed    prometheus.Counter
	screeningsByTier    *prometheus.CounterVec
	riskScore           prometheus.Histogram
	summaryLatency      prometheus.Histogram
	summaryErrors       prometheus.Counter
	referralsSent       prometheus.Counter
	referralErrors      prometheus.Counter

	// Operational health
	queueSize     prometheus.Gauge
	queueCapacity prometheus.Gauge
	storedReports prometheus.Gauge
	stimulusPeers prometheus.Gauge

	// HTTP performance
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "oculo",
		subsystem:        "screening",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.framesProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frames_processed_total",
		Help:      "Total number of video frames run through the pipeline",
	})

	m.facesDetected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "faces_detected_total",
		Help:      "Total number of frames where the landmark oracle found a face",
	})

	m.facesMissed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "faces_missed_total",
		Help:      "Total number of frames with no detected face (sensing gaps)",
	})

	m.blinksDetected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "blinks_detected_total",
		Help:      "Total number of blink edges counted by the accumulator",
	})

	m.oracleLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "oracle_latency_milliseconds",
		Help:      "Landmark oracle round-trip latency per frame in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.phasesCompleted = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "phases_completed_total",
			Help:      "Total number of completed collection phases by name",
		},
		[]string{"phase"},
	)

	m.screeningsStarted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "screenings_started_total",
		Help:      "Total number of screening sessions started",
	})

	m.screeningsCompleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "screenings_completed_total",
		Help:      "Total number of screening sessions completed",
	})

	m.screeningsFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "screenings_failed_total",
		Help:      "Total number of screening sessions that failed",
	})

	m.screeningsByTier = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "screenings_by_tier_total",
			Help:      "Total number of completed screenings by risk tier",
		},
		[]string{"tier"},
	)

	m.riskScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "risk_score",
		Help:      "Distribution of computed risk scores",
		Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 10, 12},
	})

	m.summaryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "summary_latency_milliseconds",
		Help:      "AI summary generation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.summaryErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "summary_errors_total",
		Help:      "Total number of AI summary generation errors",
	})

	m.referralsSent = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "referrals_sent_total",
		Help:      "Total number of referral emails sent",
	})

	m.referralErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "referral_errors_total",
		Help:      "Total number of referral email errors",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current size of the screening job queue",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Maximum screening job queue capacity",
	})

	m.storedReports = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stored_reports",
		Help:      "Number of reports currently held in the store",
	})

	m.stimulusPeers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stimulus_peers",
		Help:      "Number of connected stimulus display clients",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "Current heap memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutine_count",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "gc_pause_milliseconds",
		Help:      "Average garbage collection pause time in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// GetRegistry returns the registry metrics are collected into.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RecordFrameProcessed increments the processed frames counter.
func RecordFrameProcessed() {
	globalManager.framesProcessed.Inc()
}

// RecordFaceDetected increments the detected faces counter.
func RecordFaceDetected() {
	globalManager.facesDetected.Inc()
}

// RecordFaceMissed increments the missed faces counter.
func RecordFaceMissed() {
	globalManager.facesMissed.Inc()
}

// RecordBlink increments the blink counter.
func RecordBlink() {
	globalManager.blinksDetected.Inc()
}

// RecordOracleLatency records oracle round-trip latency in milliseconds.
func RecordOracleLatency(latencyMs float64) {
	globalManager.oracleLatency.Observe(latencyMs)
}

// RecordPhaseCompleted increments the completed phase counter for a phase name.
func RecordPhaseCompleted(phase string) {
	globalManager.phasesCompleted.WithLabelValues(phase).Inc()
}

// RecordScreeningStarted increments the started screenings counter.
func RecordScreeningStarted() {
	globalManager.screeningsStarted.Inc()
}

// RecordScreeningCompleted increments the completed screenings counter.
func RecordScreeningCompleted() {
	globalManager.screeningsCompleted.Inc()
}

// RecordScreeningFailed increments the failed screenings counter.
func RecordScreeningFailed() {
	globalManager.screeningsFailed.Inc()
}

// RecordScreeningTier increments the completed screening counter for a tier.
func RecordScreeningTier(tier string) {
	globalManager.screeningsByTier.WithLabelValues(tier).Inc()
}

// RecordRiskScore records a computed risk score.
func RecordRiskScore(score int) {
	globalManager.riskScore.Observe(float64(score))
}

// RecordSummaryLatency records AI summary generation latency in milliseconds.
func RecordSummaryLatency(latencyMs float64) {
	globalManager.summaryLatency.Observe(latencyMs)
}

// RecordSummaryError increments the AI summary error counter.
func RecordSummaryError() {
	globalManager.summaryErrors.Inc()
}

// RecordReferralSent increments the referral emails sent counter.
func RecordReferralSent() {
	globalManager.referralsSent.Inc()
}

// RecordReferralError increments the referral email error counter.
func RecordReferralError() {
	globalManager.referralErrors.Inc()
}

// UpdateQueueSize sets the current screening job queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum screening job queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateStoredReports sets the number of reports held in the store.
func UpdateStoredReports(count int) {
	globalManager.storedReports.Set(float64(count))
}

// UpdateStimulusPeers sets the number of connected stimulus clients.
func UpdateStimulusPeers(count int) {
	globalManager.stimulusPeers.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// UpdateSystemMemoryUsage sets the current heap memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the current goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records the average GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}
