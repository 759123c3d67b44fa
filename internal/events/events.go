// Package events publishes record lifecycle notifications. Downstream
// tooling (follow-up email senders, dashboards) subscribes to these instead
// of polling the collections.
package events

import (
	"context"
	"time"

	"github.com/alfredjeanlab/intake/internal/idgen"
	"github.com/alfredjeanlab/intake/internal/model"
)

// Event topic constants
const (
	TopicRecordCreated     = "intake.record.created"
	TopicRecordUpdated     = "intake.record.updated"
	TopicCollectionCleared = "intake.collection.cleared"
)

// Event types

type RecordCreated struct {
	Collection string        `json:"collection"`
	Record     *model.Record `json:"record"`
}

type RecordUpdated struct {
	Collection string         `json:"collection"`
	Record     *model.Record  `json:"record"`
	Changes    map[string]any `json:"changes"` // field name -> new value
}

type CollectionCleared struct {
	Collection string `json:"collection"`
}

// Envelope is the wire frame around every published event.
type Envelope struct {
	EventID   string    `json:"event_id"`
	Topic     string    `json:"topic"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// newEnvelope stamps an event with a fresh id and the current time.
func newEnvelope(topic string, event any) (Envelope, error) {
	id, err := idgen.NewEventID()
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:   id,
		Topic:     topic,
		Timestamp: time.Now().UTC(),
		Data:      event,
	}, nil
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
