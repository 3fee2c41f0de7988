package store

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// MemoryStore implements Store with in-memory storage.
type MemoryStore[R any] struct {
	mu    sync.RWMutex
	items map[int]R
}

// NewMemoryStore creates a new MemoryStore instance.
func NewMemoryStore[R any]() *MemoryStore[R] {
	return &MemoryStore[R]{
		items: make(map[int]R),
	}
}

// List returns all resources ordered by ascending identifier.
func (s *MemoryStore[R]) List(ctx context.Context) ([]R, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("list resources: %w", ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]R, 0, len(s.items))
	for _, id := range slices.Sorted(maps.Keys(s.items)) {
		items = append(items, s.items[id])
	}

	return items, nil
}

// Get retrieves a resource by its identifier.
func (s *MemoryStore[R]) Get(ctx context.Context, id int) (R, error) {
	var zero R

	select {
	case <-ctx.Done():
		return zero, fmt.Errorf("get resource: %w", ctx.Err())
	default:
	}

	if id <= 0 {
		return zero, ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.items[id]
	if !exists {
		return zero, ErrNotFound
	}

	return item, nil
}

// Contains reports whether a resource is stored under id.
func (s *MemoryStore[R]) Contains(ctx context.Context, id int) (bool, error) {
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("check resource: %w", ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.items[id]
	return exists, nil
}

// Put stores r under id, replacing any previous value.
func (s *MemoryStore[R]) Put(ctx context.Context, id int, r R) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("put resource: %w", ctx.Err())
	default:
	}

	if id <= 0 {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[id] = r

	return nil
}

// Delete removes the resource stored under id.
func (s *MemoryStore[R]) Delete(ctx context.Context, id int) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("delete resource: %w", ctx.Err())
	default:
	}

	if id <= 0 {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return ErrNotFound
	}

	delete(s.items, id)

	return nil
}

// Len returns the number of stored resources.
func (s *MemoryStore[R]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}
