package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is a typed event.
type Event[T any] struct {
	Type     Topic
	Payload  T
	Metadata Metadata
}

// Metadata is attached to every event.
type Metadata struct {
	ID        string
	Timestamp time.Time
	// Source names the publishing component.
	Source string
}

// NewEvent creates an event with fresh metadata.
func NewEvent[T any](eventType Topic, payload T, source string) Event[T] {
	return Event[T]{
		Type:    eventType,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// EventTopic implements TopicProvider.
func (e Event[T]) EventTopic() Topic { return e.Type }

// EventMetadata implements MetadataProvider.
func (e Event[T]) EventMetadata() Metadata { return e.Metadata }

// TopicProvider is implemented by publishable events.
type TopicProvider interface {
	EventTopic() Topic
}

// MetadataProvider is implemented by events carrying metadata.
type MetadataProvider interface {
	EventMetadata() Metadata
}

// Handler processes a type-erased event.
type Handler func(ev any) error

// Typed adapts a payload handler to Handler. Events of other payload types
// are ignored.
func Typed[T any](fn func(ev Event[T]) error) Handler {
	return func(ev any) error {
		if e, ok := ev.(Event[T]); ok {
			return fn(e)
		}
		return nil
	}
}
