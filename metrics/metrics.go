// Package metrics exposes Prometheus metrics for quantity takeoffs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Extraction metrics
	ModelsScanned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "takeoff_models_scanned_total",
			Help: "Total number of models walked by an extraction",
		},
		[]string{"path"},
	)

	ModelsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "takeoff_models_skipped_total",
			Help: "Models skipped because no property store was found",
		},
		[]string{"path"},
	)

	ElementsExtracted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "takeoff_elements_extracted_total",
			Help: "Total number of normalized elements produced",
		},
		[]string{"path"},
	)

	ElementFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "takeoff_element_failures_total",
			Help: "Records dropped because of an unexpected shape",
		},
		[]string{"path"},
	)

	ExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "takeoff_extraction_duration_seconds",
			Help:    "Time taken for one extraction pass",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"path"},
	)

	// Export metrics
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "takeoff_exports_total",
			Help: "Total number of generated export files",
		},
		[]string{"report", "format", "status"},
	)
)

// Recorder records extraction metrics for one extraction path.
type Recorder struct {
	path string
}

// NewRecorder creates a recorder labelled with the extraction path.
func NewRecorder(path string) *Recorder {
	return &Recorder{path: path}
}

// RecordModel records one walked model.
func (r *Recorder) RecordModel(skipped bool) {
	ModelsScanned.WithLabelValues(r.path).Inc()
	if skipped {
		ModelsSkipped.WithLabelValues(r.path).Inc()
	}
}

// RecordElements adds n extracted elements.
func (r *Recorder) RecordElements(n int) {
	ElementsExtracted.WithLabelValues(r.path).Add(float64(n))
}

// RecordFailure records one dropped record.
func (r *Recorder) RecordFailure() {
	ElementFailures.WithLabelValues(r.path).Inc()
}

// ObserveExtraction records the duration of one pass.
func (r *Recorder) ObserveExtraction(d time.Duration) {
	ExtractionDuration.WithLabelValues(r.path).Observe(d.Seconds())
}

// RecordExport records a generated (or failed) export.
func RecordExport(report, format string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	ExportsTotal.WithLabelValues(report, format, status).Inc()
}

// Timer is a helper for measuring duration
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop returns the elapsed time since the timer was created
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
