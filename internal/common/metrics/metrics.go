// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DatasetAcquisitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_dataset_acquisitions_total",
			Help: "Dataset acquisitions by outcome source (cache, api, failed)",
		},
		[]string{"dataset", "source"},
	)

	AggregationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "assistant_aggregation_duration_seconds",
			Help: "Wall-clock duration of full snapshot aggregation",
		},
	)

	ChatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_chat_requests_total",
			Help: "Chat requests by terminal status (completed, failed, rejected)",
		},
		[]string{"status"},
	)

	StreamFragments = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_stream_fragments_total",
			Help: "Model fragments relayed to clients",
		},
	)
)
