package prometheus

import (
	"fmt"
	"time"
)

// AppMetrics holds all application metrics.
type AppMetrics struct {
	// HTTP Layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPRequestSize     HistogramVec
	HTTPResponseSize    HistogramVec
	HTTPActiveRequests  GaugeVec

	// Scheduling Layer
	ReconcilesTotal          CounterVec
	ReconcileDuration        HistogramVec
	RemindersScheduledTotal  CounterVec
	RemindersDismissedTotal  CounterVec
	GateTodosRaisedTotal     CounterVec
	NoticeAttachmentsTotal   CounterVec

	// Events
	EventsPublishedTotal CounterVec
	EventPublishFailures CounterVec

	// Infrastructure Layer
	DBConnectionPoolSize   GaugeVec
	DBConnectionPoolActive GaugeVec
	DBQueryDuration        HistogramVec
	CacheHitsTotal         CounterVec
	CacheMissesTotal       CounterVec
	LockAcquireDuration    HistogramVec
	LockContentionTotal    CounterVec

	// System Health
	ServiceUptime     GaugeVec
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// Default Buckets
var (
	DefaultHTTPDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultSizeBuckets         = []float64{100, 1000, 10000, 100000, 1000000, 10000000}
	DefaultDBDurationBuckets   = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
)

// NewAppMetrics registers all metrics and returns AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPRequestSize = collector.RegisterHistogram("http_request_size_bytes", "HTTP request size", DefaultSizeBuckets, "method", "path")
	m.HTTPResponseSize = collector.RegisterHistogram("http_response_size_bytes", "HTTP response size", DefaultSizeBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method", "path")

	// Scheduling
	m.ReconcilesTotal = collector.RegisterCounter("reconciles_total", "Case reconciliations", "trigger", "outcome")
	m.ReconcileDuration = collector.RegisterHistogram("reconcile_duration_seconds", "Case reconciliation duration", DefaultDBDurationBuckets, "trigger")
	m.RemindersScheduledTotal = collector.RegisterCounter("reminders_scheduled_total", "Reminder todos created during reconciliation")
	m.RemindersDismissedTotal = collector.RegisterCounter("reminders_dismissed_total", "Reminder todos auto-dismissed during reconciliation")
	m.GateTodosRaisedTotal = collector.RegisterCounter("gate_todos_raised_total", "Missing voyage end date gate todos raised")
	m.NoticeAttachmentsTotal = collector.RegisterCounter("notice_attachments_total", "Notice type attachments", "operation")

	// Events
	m.EventsPublishedTotal = collector.RegisterCounter("events_published_total", "Events published", "topic")
	m.EventPublishFailures = collector.RegisterCounter("event_publish_failures_total", "Event publication failures", "topic")

	// Infrastructure
	m.DBConnectionPoolSize = collector.RegisterGauge("db_pool_size", "Database connection pool size", "db")
	m.DBConnectionPoolActive = collector.RegisterGauge("db_pool_active", "Database active connections", "db")
	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", DefaultDBDurationBuckets, "db", "operation")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.LockAcquireDuration = collector.RegisterHistogram("lock_acquire_duration_seconds", "Distributed lock acquisition duration", DefaultDBDurationBuckets, "lock")
	m.LockContentionTotal = collector.RegisterCounter("lock_contention_total", "Lock acquisition attempts that waited", "lock")

	// System Health
	m.ServiceUptime = collector.RegisterGauge("service_uptime_seconds", "Service uptime", "service")
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_type", "severity")

	return m
}

// RegisterAppMetrics is an alias for NewAppMetrics.
func RegisterAppMetrics(collector MetricsCollector) *AppMetrics {
	return NewAppMetrics(collector)
}

// Helpers

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration, reqSize, respSize int64) {
	status := fmt.Sprintf("%d", statusCode)
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	metrics.HTTPRequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	metrics.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
}

// RecordReconcile tracks one reconciliation pass.  trigger names the entry
// point (attach, recalculate, enable, delete); outcome is "scheduled" or
// "gated" depending on whether the voyage end date was present.
func RecordReconcile(metrics *AppMetrics, trigger string, gated bool, scheduled int, duration time.Duration) {
	outcome := "scheduled"
	if gated {
		outcome = "gated"
		metrics.GateTodosRaisedTotal.WithLabelValues().Inc()
	}
	metrics.ReconcilesTotal.WithLabelValues(trigger, outcome).Inc()
	metrics.ReconcileDuration.WithLabelValues(trigger).Observe(duration.Seconds())
	if scheduled > 0 {
		metrics.RemindersScheduledTotal.WithLabelValues().Add(float64(scheduled))
	}
}

func RecordEventPublished(metrics *AppMetrics, topic string, err error) {
	if err != nil {
		metrics.EventPublishFailures.WithLabelValues(topic).Inc()
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues(topic).Inc()
}

func RecordDBQuery(metrics *AppMetrics, db, operation string, duration time.Duration, err error) {
	metrics.DBQueryDuration.WithLabelValues(db, operation).Observe(duration.Seconds())
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues(db, "query_error", "error").Inc()
	}
}

func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordError(metrics *AppMetrics, component, errorType, severity string) {
	metrics.ErrorsTotal.WithLabelValues(component, errorType, severity).Inc()
}

//Personal.AI order the ending
