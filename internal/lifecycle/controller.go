// Package lifecycle enforces the create/read/replace/delete contract shared by
// every resource kind: identity assignment, input validation, existence checks
// and outcome classification. It never logs; the transport layer maps
// outcomes to responses.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vyrodovalexey/inventory-api/internal/identity"
	"github.com/vyrodovalexey/inventory-api/internal/store"
)

// Operation names reported to observers.
const (
	OpList    = "list"
	OpGet     = "get"
	OpCreate  = "create"
	OpReplace = "replace"
	OpDelete  = "delete"
)

// Resource is the capability set a kind needs to be managed by a Controller.
type Resource[R any] interface {
	Identified

	// WithIdentity returns a copy of the resource carrying id.
	WithIdentity(id int) R

	// Validate checks kind-specific attributes.
	Validate() error
}

type options struct {
	observer Observer
	sequence *identity.Sequence
}

// Option configures a Controller.
type Option func(*options)

// WithObserver registers an observer for completed operations.
func WithObserver(o Observer) Option {
	return func(opts *options) {
		if o != nil {
			opts.observer = o
		}
	}
}

// WithSequence overrides the identity allocator.
func WithSequence(seq *identity.Sequence) Option {
	return func(opts *options) {
		if seq != nil {
			opts.sequence = seq
		}
	}
}

// Controller runs lifecycle operations for one resource kind against a store.
// Mutations hold the write lock across their existence check, store write and
// observer notification, so observers see mutations in commit order.
type Controller[R Resource[R]] struct {
	kind     string
	store    store.Store[R]
	ids      *identity.Sequence
	observer Observer

	mu sync.RWMutex
}

// New creates a Controller for kind backed by s.
func New[R Resource[R]](kind string, s store.Store[R], opts ...Option) *Controller[R] {
	o := options{
		observer: NoopObserver{},
		sequence: identity.NewSequence(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Controller[R]{
		kind:     kind,
		store:    s,
		ids:      o.sequence,
		observer: o.observer,
	}
}

// Kind returns the resource kind name.
func (c *Controller[R]) Kind() string {
	return c.kind
}

// List returns every stored resource. An empty store yields an empty slice.
func (c *Controller[R]) List(ctx context.Context) ([]R, error) {
	c.mu.RLock()
	items, err := c.store.List(ctx)
	c.mu.RUnlock()

	if err != nil {
		return nil, c.fail(OpList, fmt.Errorf("list %s: %w", c.kind, err))
	}
	if items == nil {
		items = []R{}
	}

	c.observer.OnRead(c.kind, OpList)
	return items, nil
}

// Get returns the resource stored under id.
func (c *Controller[R]) Get(ctx context.Context, id int) (R, error) {
	c.mu.RLock()
	item, err := c.store.Get(ctx, id)
	c.mu.RUnlock()

	if err != nil {
		var zero R
		return zero, c.fail(OpGet, c.storeError(OpGet, id, err))
	}

	c.observer.OnRead(c.kind, OpGet)
	return item, nil
}

// Create stores r under a newly allocated identifier and returns it.
// r must not carry an id.
func (c *Controller[R]) Create(ctx context.Context, r R) (int, error) {
	if err := c.check(ValidateForCreate(c.kind, r), r); err != nil {
		return 0, c.fail(OpCreate, err)
	}

	id, err := c.insert(ctx, r)
	if err != nil {
		return 0, c.fail(OpCreate, err)
	}

	return id, nil
}

func (c *Controller[R]) insert(ctx context.Context, r R) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var lookupErr error
	id := c.ids.Next(func(candidate int) bool {
		taken, err := c.store.Contains(ctx, candidate)
		if err != nil {
			lookupErr = err
			return false
		}
		return taken
	})
	if lookupErr != nil {
		return 0, fmt.Errorf("create %s: %w", c.kind, lookupErr)
	}

	if err := c.store.Put(ctx, id, r.WithIdentity(id)); err != nil {
		return 0, fmt.Errorf("create %s: %w", c.kind, err)
	}

	c.observer.OnCreate(c.kind, id)
	return id, nil
}

// Replace overwrites the resource stored under id with r in its entirety.
// r may omit its id; if present it must equal id.
func (c *Controller[R]) Replace(ctx context.Context, id int, r R) error {
	if err := c.check(ValidateForReplace(c.kind, r, id), r); err != nil {
		return c.fail(OpReplace, err)
	}

	if err := c.overwrite(ctx, id, r.WithIdentity(id)); err != nil {
		return c.fail(OpReplace, err)
	}

	return nil
}

func (c *Controller[R]) overwrite(ctx context.Context, id int, r R) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	exists, err := c.store.Contains(ctx, id)
	if err != nil {
		return fmt.Errorf("replace %s: %w", c.kind, err)
	}
	if !exists {
		return notFound(c.kind, id)
	}

	if err := c.store.Put(ctx, id, r); err != nil {
		return c.storeError(OpReplace, id, err)
	}

	c.observer.OnReplace(c.kind, id)
	return nil
}

// Delete removes the resource stored under id.
func (c *Controller[R]) Delete(ctx context.Context, id int) error {
	if err := c.remove(ctx, id); err != nil {
		return c.fail(OpDelete, err)
	}

	return nil
}

func (c *Controller[R]) remove(ctx context.Context, id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	exists, err := c.store.Contains(ctx, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", c.kind, err)
	}
	if !exists {
		return notFound(c.kind, id)
	}

	if err := c.store.Delete(ctx, id); err != nil {
		return c.storeError(OpDelete, id, err)
	}

	c.observer.OnDelete(c.kind, id)
	return nil
}

// check runs the identity gate result and then attribute validation.
func (c *Controller[R]) check(gateErr error, r R) error {
	if gateErr != nil {
		return gateErr
	}
	if err := r.Validate(); err != nil {
		return invalidArgument(c.kind, "%s", err.Error())
	}
	return nil
}

// storeError translates store lookups of unknown ids into NotFound.
func (c *Controller[R]) storeError(op string, id int, err error) error {
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
		return notFound(c.kind, id)
	}
	return fmt.Errorf("%s %s %d: %w", op, c.kind, id, err)
}

func (c *Controller[R]) fail(op string, err error) error {
	c.observer.OnError(c.kind, op, OutcomeOf(err))
	return err
}
