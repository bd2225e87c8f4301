package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for the agent and the embedding provider.
var (
	AgentQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "movieagent",
			Name:      "agent_queries_total",
			Help:      "Total number of agent queries",
		},
		[]string{"intent", "status"},
	)

	AgentQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "movieagent",
			Name:      "agent_query_duration_seconds",
			Help:      "Agent query duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"intent"},
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "movieagent",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"model", "status"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "movieagent",
			Name:      "embedding_tokens_total",
			Help:      "Total embedding tokens consumed",
		},
		[]string{"model", "type"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "movieagent",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var registered bool

// Register registers all Prometheus metrics. Must be called once from main.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(AgentQueriesTotal)
	prometheus.MustRegister(AgentQueryDuration)
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingTokensTotal)
	prometheus.MustRegister(EmbeddingCacheTotal)
	registered = true
}
