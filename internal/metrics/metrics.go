// Package metrics holds the Prometheus collectors exported by logwatch.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	LinesReadMetricName        = "logwatch_lines_read_total"
	CallbackFailuresMetricName = "logwatch_callback_failures_total"
	SubscribersMetricName      = "logwatch_subscribers"
	TruncationsMetricName      = "logwatch_truncations_total"
	StreamClientsMetricName    = "logwatch_stream_clients"
	StreamDroppedMetricName    = "logwatch_stream_dropped_lines_total"
)

var LinesRead = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: LinesReadMetricName,
		Help: "Total non-empty lines delivered to subscribers.",
	},
	[]string{"source"},
)

var CallbackFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: CallbackFailuresMetricName,
		Help: "Subscriber callbacks that panicked.",
	},
	[]string{"source"},
)

var Subscribers = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: SubscribersMetricName,
		Help: "Currently registered subscriptions.",
	},
	[]string{"source"},
)

var Truncations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: TruncationsMetricName,
		Help: "Times the followed file shrank and reading restarted from the beginning.",
	},
	[]string{"source"},
)

var StreamClients = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: StreamClientsMetricName,
		Help: "Connected WebSocket stream clients.",
	},
)

var StreamDropped = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: StreamDroppedMetricName,
		Help: "Lines discarded because a stream client's buffer was full.",
	},
)

// Collectors returns every logwatch collector.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		LinesRead,
		CallbackFailures,
		Subscribers,
		Truncations,
		StreamClients,
		StreamDropped,
	}
}

//nolint:gochecknoinits
func init() {
	prometheus.MustRegister(Collectors()...)
}
