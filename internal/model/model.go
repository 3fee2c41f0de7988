// Package model defines data structures used throughout the application.
package model

import (
	"encoding/xml"
	"time"
)

// Resource kinds exposed by the API.
const (
	KindProduct = "product"
	KindRecord  = "record"
)

// Shared attribute limits.
const (
	MaxNameLength = 255
)

// APIResponse is a generic wrapper for API responses.
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewSuccessResponse creates a successful API response.
func NewSuccessResponse[T any](data T) APIResponse[T] {
	return APIResponse[T]{
		Success: true,
		Data:    data,
	}
}

// ErrorResponse represents an error response structure.
// It is encoded as JSON for products and as <error> for records.
type ErrorResponse struct {
	XMLName xml.Name `json:"-" xml:"error"`
	Code    int      `json:"code" xml:"code"`
	Message string   `json:"message" xml:"message"`
}

// EventType names a lifecycle transition.
type EventType string

// Event types.
const (
	EventCreated  EventType = "created"
	EventReplaced EventType = "replaced"
	EventDeleted  EventType = "deleted"
)

// Event is published on the WebSocket feed for every successful mutation.
type Event struct {
	Type      EventType `json:"type"`
	Kind      string    `json:"kind"`
	ID        int       `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent creates an event stamped with the current time.
func NewEvent(eventType EventType, kind string, id int) Event {
	return Event{
		Type:      eventType,
		Kind:      kind,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
}
