package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "nautilus_"

	resultSuccess = "success"
)

var (
	registerOnce sync.Once

	ingestRequests *prometheus.CounterVec
	ingestLatency  *prometheus.HistogramVec

	classificationsTotal  *prometheus.CounterVec
	classificationErrors  *prometheus.CounterVec
	classificationLatency *prometheus.HistogramVec

	notifyFailures *prometheus.CounterVec

	exportTotal *prometheus.CounterVec

	dbOpenConnections prometheus.Gauge
)

// Init registers observability metrics and a DB connection gauge.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		ingestRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "ingest_requests_total",
				Help: "Total ingest requests by result",
			},
			[]string{"result"},
		)
		ingestLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "ingest_latency_seconds",
				Help:    "Ingest latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		classificationsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "classifications_total",
				Help: "Total classifications by module and level",
			},
			[]string{"module", "level"},
		)
		classificationErrors = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "classification_errors_total",
				Help: "Total classifier failures by module",
			},
			[]string{"module"},
		)
		classificationLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "classification_latency_seconds",
				Help:    "Classification latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"module"},
		)

		notifyFailures = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "notify_failures_total",
				Help: "Total notification sink failures by module and sink",
			},
			[]string{"module", "sink"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "incident_export_total",
				Help: "Total incident export operations by format and result",
			},
			[]string{"format", "result"},
		)

		dbOpenConnections = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "db_open_connections",
				Help: "Open database connections",
			},
		)

		prometheus.MustRegister(
			ingestRequests,
			ingestLatency,
			classificationsTotal,
			classificationErrors,
			classificationLatency,
			notifyFailures,
			exportTotal,
			dbOpenConnections,
		)

		if db != nil {
			go collectDBStats(db, logger)
		}
	})
}

func collectDBStats(db *sql.DB, logger *log.Logger) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		stats := db.Stats()
		dbOpenConnections.Set(float64(stats.OpenConnections))
		if logger != nil && stats.WaitCount > 0 && stats.WaitDuration > time.Second {
			logger.Printf("metrics: db pool waits=%d total_wait=%s", stats.WaitCount, stats.WaitDuration)
		}
	}
}

// ObserveIngest records ingest request duration and result.
func ObserveIngest(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if ingestRequests != nil {
		ingestRequests.WithLabelValues(result).Inc()
	}
	if ingestLatency != nil {
		ingestLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncClassification counts one classification outcome.
func IncClassification(module, level string) {
	if module == "" {
		module = "unknown"
	}
	if classificationsTotal != nil {
		classificationsTotal.WithLabelValues(module, level).Inc()
	}
}

// IncClassificationError counts a classifier failure.
func IncClassificationError(module string) {
	if module == "" {
		module = "unknown"
	}
	if classificationErrors != nil {
		classificationErrors.WithLabelValues(module).Inc()
	}
}

// ObserveClassification records classification latency.
func ObserveClassification(module string, duration time.Duration) {
	if classificationLatency != nil {
		classificationLatency.WithLabelValues(module).Observe(duration.Seconds())
	}
}

// IncNotifyFailure counts a failed notification sink delivery.
func IncNotifyFailure(module, sink string) {
	if sink == "" {
		sink = "unknown"
	}
	if notifyFailures != nil {
		notifyFailures.WithLabelValues(module, sink).Inc()
	}
}

// ObserveExport counts an incident export by format and result.
func ObserveExport(format, result string) {
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
}
