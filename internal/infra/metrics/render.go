package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(renderJobsTotal, renderPollAttempts, renderSubmitRetries) }

var renderJobsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ugc_render_jobs_total",
		Help: "Render jobs by terminal outcome, labeled by status.",
	},
	[]string{"status"}, // 'completed', 'failed', 'timeout'
)

var renderPollAttempts = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "ugc_render_poll_attempts",
		Help:    "Number of status polls needed to reach a terminal state.",
		Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
	},
)

var renderSubmitRetries = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "ugc_render_submit_retries_total",
		Help: "Transient submit failures that were retried.",
	},
)

func IncRenderJob(status string) {
	renderJobsTotal.WithLabelValues(norm(status)).Inc()
}

func ObservePollAttempts(n int) {
	renderPollAttempts.Observe(float64(n))
}

func IncSubmitRetry() {
	renderSubmitRetries.Inc()
}
