// Package server exposes the record collections over HTTP: form submissions
// come in, dashboards list and patch records, and exports stream out as CSV.
package server

import (
	"context"
	"log/slog"

	"github.com/alfredjeanlab/intake/internal/events"
	"github.com/alfredjeanlab/intake/internal/export"
	"github.com/alfredjeanlab/intake/internal/model"
	"github.com/alfredjeanlab/intake/internal/store"
)

// IntakeServer serves all configured collections.
type IntakeServer struct {
	collections map[string]model.Collection
	stores      map[string]store.Store
	templates   map[string]export.Template
	publisher   events.Publisher
}

// New returns a server over the given per-collection stores. Stores are keyed
// by collection name; every built-in collection must have one. Templates
// default per collection when absent.
func New(stores map[string]store.Store, templates map[string]export.Template, publisher events.Publisher) *IntakeServer {
	s := &IntakeServer{
		collections: make(map[string]model.Collection),
		stores:      stores,
		templates:   make(map[string]export.Template),
		publisher:   publisher,
	}
	for _, c := range model.Collections() {
		s.collections[c.Name] = c
		if tpl, ok := templates[c.Name]; ok {
			s.templates[c.Name] = tpl
		} else {
			s.templates[c.Name] = export.DefaultTemplate(c)
		}
	}
	return s
}

// lookup resolves a collection name from the request path.
func (s *IntakeServer) lookup(name string) (model.Collection, store.Store, bool) {
	c, ok := s.collections[name]
	if !ok {
		return model.Collection{}, nil, false
	}
	st, ok := s.stores[name]
	if !ok {
		return model.Collection{}, nil, false
	}
	return c, st, true
}

// publish emits an event best-effort; failures are logged and never fail the
// request that triggered them.
func (s *IntakeServer) publish(ctx context.Context, topic, collection string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "collection", collection, "error", err)
	}
}
