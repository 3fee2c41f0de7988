package lifecycle

import (
	"context"

	"github.com/vyrodovalexey/inventory-api/internal/store"
)

// Typed is implemented by resources that carry a type tag.
type Typed interface {
	TypeTag() string
}

// TypedResource is a Resource that can be filtered by type tag.
type TypedResource[R any] interface {
	Resource[R]
	Typed
}

// TypedController adds type filtering to a Controller.
type TypedController[R TypedResource[R]] struct {
	*Controller[R]
}

// NewTyped creates a TypedController for kind backed by s.
func NewTyped[R TypedResource[R]](kind string, s store.Store[R], opts ...Option) *TypedController[R] {
	return &TypedController[R]{Controller: New[R](kind, s, opts...)}
}

// ListByTypes returns the stored resources whose type tag is in types.
// An empty types set yields an empty result, not the full listing.
func (c *TypedController[R]) ListByTypes(ctx context.Context, types []string) ([]R, error) {
	if len(types) == 0 {
		return []R{}, nil
	}

	items, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	return FilterByTypes(items, types), nil
}

// FilterByTypes keeps the items whose type tag is in types, preserving order.
func FilterByTypes[R Typed](items []R, types []string) []R {
	wanted := make(map[string]struct{}, len(types))
	for _, t := range types {
		wanted[t] = struct{}{}
	}

	result := make([]R, 0, len(items))
	for _, item := range items {
		if _, ok := wanted[item.TypeTag()]; ok {
			result = append(result, item)
		}
	}

	return result
}
