package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(pipelineRunsTotal, pipelineDurationSeconds) }

var pipelineRunsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ugc_pipeline_runs_total",
		Help: "Total number of pipeline runs, labeled by final status.",
	},
	[]string{"status"}, // 'completed', 'failed'
)

var pipelineDurationSeconds = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "ugc_pipeline_duration_seconds",
		Help:    "End-to-end pipeline duration (script + submit + poll + store).",
		Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1200},
	},
	[]string{"status"},
)

func IncPipelineRun(status string) {
	pipelineRunsTotal.WithLabelValues(norm(status)).Inc()
}

func ObservePipelineDuration(status string, seconds float64) {
	pipelineDurationSeconds.WithLabelValues(norm(status)).Observe(seconds)
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
