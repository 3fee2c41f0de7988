// Package store provides data storage interfaces and implementations.
package store

import (
	"context"
	"errors"
)

// Store errors.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrInvalidID = errors.New("invalid resource ID")
)

// Store holds resources of one kind keyed by integer identifier.
// Each method is atomic on its own; callers that need check-then-act
// sequences must serialize them externally.
type Store[R any] interface {
	// List returns all resources ordered by ascending identifier.
	List(ctx context.Context) ([]R, error)

	// Get retrieves a resource by its identifier.
	Get(ctx context.Context, id int) (R, error)

	// Contains reports whether a resource is stored under id.
	Contains(ctx context.Context, id int) (bool, error)

	// Put stores r under id, replacing any previous value.
	Put(ctx context.Context, id int, r R) error

	// Delete removes the resource stored under id.
	Delete(ctx context.Context, id int) error
}
