package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(generationAttemptsTotal, generationLatencyMs, briefPlanningTotal) }

var generationAttemptsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "webforge_generation_attempts_total",
		Help: "Total generation attempts, labeled by success.",
	},
	[]string{"success"},
)

var generationLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "webforge_generation_latency_ms",
		Help:    "Per-attempt generation latency distribution in milliseconds.",
		Buckets: []float64{250, 500, 1000, 2500, 5000, 10000, 30000, 60000, 120000},
	},
	[]string{"success"},
)

var briefPlanningTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "webforge_brief_planning_total",
		Help: "Total brief planning calls, labeled by success.",
	},
	[]string{"success"},
)

func ObserveGeneration(success bool, ms float64) {
	s := strconv.FormatBool(success)
	generationAttemptsTotal.WithLabelValues(s).Inc()
	generationLatencyMs.WithLabelValues(s).Observe(ms)
}

func IncBriefPlanning(success bool) {
	briefPlanningTotal.WithLabelValues(strconv.FormatBool(success)).Inc()
}
