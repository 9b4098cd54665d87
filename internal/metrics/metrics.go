package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActivationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tinyshare_activations_total",
		Help: "Total number of activations started",
	})

	OutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tinyshare_outcomes_total",
		Help: "Outcomes handled by the controller, by kind",
	}, []string{"kind"})

	MessagesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tinyshare_messages_dropped_total",
		Help: "Messages discarded because the controller had torn down",
	})

	ShortenRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tinyshare_shorten_requests_total",
		Help: "Requests sent to the shortening API, by result",
	}, []string{"result"})

	ShortenDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tinyshare_shorten_duration_seconds",
		Help:    "Shortening API round trip duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	ShareFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tinyshare_share_failures_total",
		Help: "Share attempts that found no handler",
	})
)

// WriteTextfile dumps the default registry in the text exposition format,
// for pickup by the node exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
