package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(scriptRequestsTotal, scriptRetries, scriptPromptTokens) }

var scriptRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ugc_script_requests_total",
		Help: "Script requests by outcome, labeled by provider.",
	},
	[]string{"provider", "outcome"}, // 'ok', 'validation_error', 'error'
)

var scriptRetries = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ugc_script_retries_total",
		Help: "Transient script-call failures that were retried.",
	},
	[]string{"provider"},
)

var scriptPromptTokens = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ugc_script_prompt_tokens",
		Help: "Estimated prompt tokens sent per provider/model.",
	},
	[]string{"provider", "model"},
)

func IncScriptRequest(provider, outcome string) {
	scriptRequestsTotal.WithLabelValues(norm(provider), norm(outcome)).Inc()
}

func IncScriptRetry(provider string) {
	scriptRetries.WithLabelValues(norm(provider)).Inc()
}

func AddScriptPromptTokens(provider, model string, n int) {
	if n <= 0 {
		return
	}
	scriptPromptTokens.WithLabelValues(norm(provider), model).Add(float64(n))
}
