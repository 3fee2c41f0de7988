package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EventFeed is the view of an event hub the feed metrics read from.
type EventFeed interface {
	Subscribers() int
	Dropped() int64
}

// RegisterEventFeed registers gauges and counters that sample feed on
// every scrape.
func RegisterEventFeed(reg prometheus.Registerer, feed EventFeed) {
	factory := promauto.With(reg)

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "inventory_event_subscribers",
			Help: "Number of active event feed subscribers",
		},
		func() float64 { return float64(feed.Subscribers()) },
	)
	factory.NewCounterFunc(
		prometheus.CounterOpts{
			Name: "inventory_events_dropped_total",
			Help: "Total number of event deliveries skipped because a subscriber buffer was full",
		},
		func() float64 { return float64(feed.Dropped()) },
	)
}
