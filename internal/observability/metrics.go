package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for record entry, classification, and storage.
type Metrics struct {
	RecordsAppended  prometheus.Counter
	ValidationErrors *prometheus.CounterVec // labels: kind={empty_field,not_a_number,out_of_range}
	Assessments      *prometheus.CounterVec // labels: level={LOW,MEDIUM,HIGH,INCOMPLETE,NO_DATA,ERROR}

	// Storage metrics.
	StorageOperations *prometheus.CounterVec   // labels: op={load,append,clear,ping}, outcome={success,error,corrupt}
	StorageDuration   *prometheus.HistogramVec // labels: op
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.RecordsAppended,
		m.ValidationErrors,
		m.Assessments,
		m.StorageOperations,
		m.StorageDuration,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics so repeated construction
// across tests does not panic with "already registered".
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsAppended: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "landslide",
			Name:      "records_appended_total",
			Help:      "Total sensor records appended to the store.",
		}),
		ValidationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "landslide",
			Name:      "validation_errors_total",
			Help:      "Rejected submissions by validation kind.",
		}, []string{"kind"}),
		Assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "landslide",
			Name:      "assessments_total",
			Help:      "Latest-risk assessments served by level.",
		}, []string{"level"}),
		StorageOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "landslide",
			Name:      "storage_operations_total",
			Help:      "Record store operations by operation and outcome.",
		}, []string{"op", "outcome"}),
		StorageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "landslide",
			Name:      "storage_operation_duration_seconds",
			Help:      "Record store operation duration in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"op"}),
	}
}
