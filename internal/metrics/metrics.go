package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal *prometheus.CounterVec
	votesTotal        *prometheus.CounterVec
	tokensVotedTotal  prometheus.Counter
	purchasesTotal    prometheus.Counter
	registerOnce      sync.Once
)

// Register initializes Prometheus metrics on the default registry.
func Register() {
	registerOnce.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fanstock",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed by the FanStock API.",
		}, []string{"method", "path", "status"})

		votesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fanstock",
			Name:      "votes_total",
			Help:      "Total vote submissions accepted, split by first vote vs revote.",
		}, []string{"kind"})

		tokensVotedTotal = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "fanstock",
			Name:      "tokens_voted_total",
			Help:      "Total token power asserted across accepted votes.",
		})

		purchasesTotal = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "fanstock",
			Name:      "token_purchases_total",
			Help:      "Total simulated token purchases.",
		})
	})
}

// IncRequest increments the http_requests_total counter with the given labels.
func IncRequest(method, path string, status int) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// IncVote records an accepted vote submission.
func IncVote(revote bool, tokenPower int64) {
	if votesTotal == nil {
		return
	}
	kind := "first"
	if revote {
		kind = "revote"
	}
	votesTotal.WithLabelValues(kind).Inc()
	tokensVotedTotal.Add(float64(tokenPower))
}

// IncPurchase records a simulated token purchase.
func IncPurchase() {
	if purchasesTotal == nil {
		return
	}
	purchasesTotal.Inc()
}
