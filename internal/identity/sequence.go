// Package identity allocates integer identifiers for stored resources.
package identity

import "sync/atomic"

// Sequence hands out increasing identifiers starting at 1.
// An identifier is never returned twice by the same Sequence, so ids
// stay unique for a resource kind even after the resource is deleted.
type Sequence struct {
	last atomic.Int64
}

// NewSequence creates a Sequence whose first identifier is 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next returns the next identifier for which inUse reports false.
// inUse may be nil when the caller has no existing identifiers to avoid.
func (s *Sequence) Next(inUse func(id int) bool) int {
	for {
		id := int(s.last.Add(1))
		if inUse == nil || !inUse(id) {
			return id
		}
	}
}

// Last returns the most recently issued identifier, or 0 if none was issued.
func (s *Sequence) Last() int {
	return int(s.last.Load())
}
