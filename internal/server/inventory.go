package server

import (
	"github.com/vyrodovalexey/inventory-api/internal/events"
	"github.com/vyrodovalexey/inventory-api/internal/lifecycle"
	"github.com/vyrodovalexey/inventory-api/internal/model"
	"github.com/vyrodovalexey/inventory-api/internal/store"
)

// Inventory holds the lifecycle controllers of both resource kinds and the
// event hub they publish to.
type Inventory struct {
	Products *lifecycle.TypedController[model.Product]
	Records  *lifecycle.Controller[model.Record]
	Events   *events.Hub
}

// NewInventory builds in-memory product and record controllers. Every
// controller notifies the event hub first, then the extra observers in order.
func NewInventory(observers ...lifecycle.Observer) *Inventory {
	hub := events.NewHub(events.DefaultBufferSize)

	fanout := make(lifecycle.Observers, 0, len(observers)+1)
	fanout = append(fanout, hub)
	fanout = append(fanout, observers...)

	return &Inventory{
		Products: lifecycle.NewTyped[model.Product](
			model.KindProduct,
			store.NewMemoryStore[model.Product](),
			lifecycle.WithObserver(fanout),
		),
		Records: lifecycle.New[model.Record](
			model.KindRecord,
			store.NewMemoryStore[model.Record](),
			lifecycle.WithObserver(fanout),
		),
		Events: hub,
	}
}
