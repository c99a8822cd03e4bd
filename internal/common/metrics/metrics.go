// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"kaoyan-advisor/internal/models"
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

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

// ==========================
// Advisory scoring
// ==========================

var (
	CandidatesScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "advisory_candidates_scored_total",
			Help: "Total number of candidate school majors scored",
		},
	)

	DefaultSubstitutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisory_default_substitutions_total",
			Help: "Sub-metrics that fell back to their default score because data was missing",
		},
		[]string{"dimension", "metric"},
	)

	TierSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "advisory_tier_size",
			Help:    "Number of candidates returned per tier",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20},
		},
		[]string{"tier"},
	)

	ScoringDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "advisory_scoring_duration_seconds",
			Help:    "Time spent scoring one advisory request",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		},
	)
)

// ScoringRecorder feeds scoring events into the advisory metrics.
type ScoringRecorder struct{}

func (ScoringRecorder) DefaultSubstituted(dim models.Dimension, metric string) {
	DefaultSubstitutions.WithLabelValues(string(dim), metric).Inc()
}

// ObserveTierResult records the outcome of one scoring run.
func ObserveTierResult(res *models.TierResult, elapsed time.Duration) {
	CandidatesScored.Add(float64(res.TotalConsidered))
	TierSize.WithLabelValues(string(models.TierReach)).Observe(float64(len(res.Reach)))
	TierSize.WithLabelValues(string(models.TierMatch)).Observe(float64(len(res.Match)))
	TierSize.WithLabelValues(string(models.TierSafety)).Observe(float64(len(res.Safety)))
	ScoringDuration.Observe(elapsed.Seconds())
}
