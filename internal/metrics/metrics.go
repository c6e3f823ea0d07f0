// Package metrics provides Prometheus metrics for benkyou.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeedFetchTotal counts feed fetches by source and result.
	FeedFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "benkyou",
			Name:      "feed_fetch_total",
			Help:      "Total number of feed fetches",
		},
		[]string{"source", "result"},
	)

	// FeedFetchDuration measures how long a single feed fetch takes.
	FeedFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "benkyou",
			Name:      "feed_fetch_duration_seconds",
			Help:      "Duration of feed fetches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// ArticlesReturned observes result sizes of example queries.
	ArticlesReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "benkyou",
			Name:      "articles_returned",
			Help:      "Number of articles returned per examples query",
			Buckets:   []float64{0, 1, 5, 10, 30, 50, 100},
		},
	)

	// LoginsTotal counts login attempts by outcome.
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "benkyou",
			Name:      "logins_total",
			Help:      "Total number of login attempts",
		},
		[]string{"outcome"},
	)
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// RecordFetch records a feed fetch.
func RecordFetch(source, result string, seconds float64) {
	FeedFetchTotal.WithLabelValues(source, result).Inc()
	FeedFetchDuration.WithLabelValues(source).Observe(seconds)
}

// RecordLogin records a login attempt.
func RecordLogin(outcome string) {
	LoginsTotal.WithLabelValues(outcome).Inc()
}
