package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	translationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sinhalate_translation_requests_total",
			Help: "Total number of translation requests",
		},
		[]string{"method", "status"},
	)

	translationRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sinhalate_translation_request_duration_seconds",
			Help:    "Duration of translation requests in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
		},
		[]string{"method"},
	)

	idiomMatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sinhalate_idiom_matches_total",
			Help: "Total number of idiom occurrences detected in requests",
		},
	)
)
