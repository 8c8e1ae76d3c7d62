// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "uptake"

// Job lifecycle metrics, labelled by zeebe task type.
var (
	WorkerJobsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "worker",
		Name:      "jobs_completed_total",
		Help:      "Jobs completed per task type",
	}, []string{"task_type"})

	WorkerJobsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "worker",
		Name:      "jobs_failed_total",
		Help:      "Jobs failed per task type and error code",
	}, []string{"task_type", "error_code"})

	WorkerJobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "worker",
		Name:      "job_duration_seconds",
		Help:      "Job handling time",
		Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
	}, []string{"task_type"})

	WorkerJobsActive = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "worker",
		Name:      "jobs_active",
		Help:      "Jobs currently being handled",
	}, []string{"task_type"})
)

// Model and record metrics.
var (
	UptakeProbability = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "probability",
		Help:      "Overall plan uptake probability per evaluation",
		Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
	}, []string{"scenario"})

	RecordsSaved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_saved_total",
		Help:      "Saved records appended per store backend",
	}, []string{"backend"})

	ReportsExported = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_exported_total",
		Help:      "Record reports written per format",
	}, []string{"format"})
)

// ObserveJob records the outcome of one job. An empty errorCode means success.
func ObserveJob(taskType, errorCode string, seconds float64) {
	WorkerJobDuration.WithLabelValues(taskType).Observe(seconds)
	if errorCode == "" {
		WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		return
	}
	WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
}
