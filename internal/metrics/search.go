package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and chat Prometheus metrics.
var (
	SearchScansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wordguess",
			Name:      "search_scans_total",
			Help:      "Total number of dictionary scans",
		},
		[]string{"policy", "status"}, // status: "ok" / "not_found" / "error"
	)

	SearchScanDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wordguess",
			Name:      "search_scan_duration_seconds",
			Help:      "Dictionary load and scan duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"policy"},
	)

	SearchResultWords = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "wordguess",
			Name:      "search_result_words",
			Help:      "Number of words returned per scan",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	DictionaryCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wordguess",
			Name:      "dictionary_cache_total",
			Help:      "Word list cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	ChatMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wordguess",
			Name:      "chat_messages_total",
			Help:      "Chat messages received and sent",
		},
		[]string{"direction"}, // "in" / "out"
	)

	ChatCommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wordguess",
			Name:      "chat_commands_total",
			Help:      "Chat commands handled, by outcome",
		},
		[]string{"command", "outcome"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search, cache and chat metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchScansTotal)
	prometheus.MustRegister(SearchScanDuration)
	prometheus.MustRegister(SearchResultWords)
	prometheus.MustRegister(DictionaryCacheTotal)
	prometheus.MustRegister(ChatMessagesTotal)
	prometheus.MustRegister(ChatCommandsTotal)
	searchMetricsRegistered = true
}
