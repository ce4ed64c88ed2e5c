package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "budget_drilldown_requests_total",
		Help: "API requests by endpoint and response status.",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "budget_drilldown_request_duration_seconds",
		Help:    "API request latency by endpoint.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	drillTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "budget_drilldown_drill_operations_total",
		Help: "Navigator operations by kind and whether they changed the view.",
	}, []string{"operation", "changed"})

	datasetRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "budget_drilldown_dataset_records",
		Help: "Valid records in the active dataset.",
	})

	datasetUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "budget_drilldown_dataset_uploads_total",
		Help: "Dataset uploads by result.",
	}, []string{"result"})
)
