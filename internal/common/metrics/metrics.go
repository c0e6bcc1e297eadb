package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	CreditAssessments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_assessments_total",
			Help: "Credit assessments produced, by rating and by where the result came from",
		},
		[]string{"rating", "source"},
	)

	CreditAssessmentFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_assessment_failures_total",
			Help: "Credit assessments that failed, by error code",
		},
		[]string{"error_code"},
	)

	CreditAssessmentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "credit_assessment_duration_seconds",
			Help:    "Time spent scoring one application",
			Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05},
		},
	)

	CreditScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "credit_score",
			Help:    "Distribution of issued credit scores",
			Buckets: prometheus.LinearBuckets(300, 50, 13),
		},
	)
)

// Assessment sources.
const (
	SourceModel = "model"
	SourceCache = "cache"
)

// RecordAssessment counts a successful assessment.
func RecordAssessment(rating, source string, score int) {
	CreditAssessments.WithLabelValues(rating, source).Inc()
	CreditScores.Observe(float64(score))
}
