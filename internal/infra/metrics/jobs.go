package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(jobsFinishedTotal, jobsCreatedTotal, stageDurationMs) }

var jobsFinishedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "webforge_jobs_finished_total",
		Help: "Total number of jobs that reached a terminal state, labeled by status.",
	},
	[]string{"status"}, // 'completed', 'failed'
)

var jobsCreatedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "webforge_jobs_created_total",
		Help: "Total number of jobs accepted for processing.",
	},
)

var stageDurationMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "webforge_pipeline_stage_duration_ms",
		Help:    "Pipeline stage latency distribution in milliseconds.",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 15000, 60000, 180000},
	},
	[]string{"stage"}, // 'fetch', 'resolve', 'assets', 'briefs', 'generate'
)

func IncJobCreated() { jobsCreatedTotal.Inc() }

func IncJobFinished(status string) {
	jobsFinishedTotal.WithLabelValues(norm(status)).Inc()
}

func ObserveStage(stage string, ms float64) {
	stageDurationMs.WithLabelValues(norm(stage)).Observe(ms)
}
