// Package metrics exports lifecycle operation counters and event feed
// statistics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vyrodovalexey/inventory-api/internal/lifecycle"
)

// LifecycleObserver counts lifecycle operations by kind, operation and outcome.
type LifecycleObserver struct {
	operations *prometheus.CounterVec
}

var _ lifecycle.Observer = (*LifecycleObserver)(nil)

// NewLifecycleObserver registers the lifecycle counters with reg.
func NewLifecycleObserver(reg prometheus.Registerer) *LifecycleObserver {
	return &LifecycleObserver{
		operations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_resource_operations_total",
				Help: "Total number of resource lifecycle operations",
			},
			[]string{"kind", "operation", "outcome"},
		),
	}
}

func (o *LifecycleObserver) OnRead(kind, operation string) {
	o.inc(kind, operation, lifecycle.OutcomeSuccess)
}

func (o *LifecycleObserver) OnCreate(kind string, _ int) {
	o.inc(kind, lifecycle.OpCreate, lifecycle.OutcomeSuccess)
}

func (o *LifecycleObserver) OnReplace(kind string, _ int) {
	o.inc(kind, lifecycle.OpReplace, lifecycle.OutcomeSuccess)
}

func (o *LifecycleObserver) OnDelete(kind string, _ int) {
	o.inc(kind, lifecycle.OpDelete, lifecycle.OutcomeSuccess)
}

func (o *LifecycleObserver) OnError(kind, operation string, outcome lifecycle.Outcome) {
	o.inc(kind, operation, outcome)
}

func (o *LifecycleObserver) inc(kind, operation string, outcome lifecycle.Outcome) {
	o.operations.WithLabelValues(kind, operation, outcome.String()).Inc()
}
