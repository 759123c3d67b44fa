package events

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNewEnvelope(t *testing.T) {
	env, err := newEnvelope(TopicRecordCreated, RecordCreated{Collection: "registrations"})
	if err != nil {
		t.Fatalf("newEnvelope: %v", err)
	}
	if !strings.HasPrefix(env.EventID, "evt-") {
		t.Errorf("EventID = %q, want evt- prefix", env.EventID)
	}
	if env.Topic != TopicRecordCreated {
		t.Errorf("Topic = %q", env.Topic)
	}
	if time.Since(env.Timestamp) > time.Minute {
		t.Errorf("Timestamp = %v, not recent", env.Timestamp)
	}
}

func TestEnvelope_UniqueIDs(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		env, err := newEnvelope(TopicRecordUpdated, nil)
		if err != nil {
			t.Fatalf("newEnvelope: %v", err)
		}
		if _, dup := seen[env.EventID]; dup {
			t.Fatalf("duplicate event id %q", env.EventID)
		}
		seen[env.EventID] = struct{}{}
	}
}

func TestNoopPublisher(t *testing.T) {
	p := &NoopPublisher{}
	if err := p.Publish(context.Background(), TopicCollectionCleared, CollectionCleared{Collection: "careers"}); err != nil {
		t.Errorf("Publish: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
