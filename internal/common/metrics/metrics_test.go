package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveJob(t *testing.T) {
	completed := testutil.ToFloat64(WorkerJobsCompleted.WithLabelValues("test.task"))
	failed := testutil.ToFloat64(WorkerJobsFailed.WithLabelValues("test.task", "VALIDATION_FAILED"))

	ObserveJob("test.task", "", 0.01)
	ObserveJob("test.task", "VALIDATION_FAILED", 0.02)
	ObserveJob("test.task", "VALIDATION_FAILED", 0.02)

	assert.Equal(t, completed+1, testutil.ToFloat64(WorkerJobsCompleted.WithLabelValues("test.task")))
	assert.Equal(t, failed+2, testutil.ToFloat64(WorkerJobsFailed.WithLabelValues("test.task", "VALIDATION_FAILED")))
}

func TestUptakeProbabilityBuckets(t *testing.T) {
	UptakeProbability.WithLabelValues("1").Observe(0.42)
	assert.Equal(t, 1, testutil.CollectAndCount(UptakeProbability, "uptake_probability"))
}
