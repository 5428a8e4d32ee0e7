package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_logins_total",
			Help: "Total number of successful logins",
		},
		[]string{"role"},
	)

	EvaluationsSubmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_evaluations_submitted_total",
			Help: "Total number of evaluation submissions, including resubmissions",
		},
	)

	EvaluationScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "portal_evaluation_score",
			Help:    "Distribution of submitted scores",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		},
	)

	ProjectsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_projects_created_total",
			Help: "Total number of projects created through the API",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
