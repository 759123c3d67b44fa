package client_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alfredjeanlab/intake/internal/client"
	"github.com/alfredjeanlab/intake/internal/events"
	"github.com/alfredjeanlab/intake/internal/export"
	"github.com/alfredjeanlab/intake/internal/kv"
	"github.com/alfredjeanlab/intake/internal/model"
	"github.com/alfredjeanlab/intake/internal/server"
	"github.com/alfredjeanlab/intake/internal/store"
)

func startServer(t *testing.T, token string) *httptest.Server {
	t.Helper()
	backend := kv.NewMemory()
	stores := map[string]store.Store{
		model.Careers.Name:       store.ForCollection(backend, model.Careers),
		model.Registrations.Name: store.ForCollection(backend, model.Registrations),
	}
	srv := server.New(stores, map[string]export.Template{}, &events.NoopPublisher{})
	ts := httptest.NewServer(srv.NewHTTPHandler(token))
	t.Cleanup(ts.Close)
	return ts
}

func TestClientRoundTrip(t *testing.T) {
	ts := startServer(t, "")
	c := client.NewHTTPClient(ts.URL, "")
	ctx := context.Background()

	record, err := c.Submit(ctx, "registrations", map[string]any{
		"fullName": "Aline K.",
		"test":     "IELTS",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !strings.HasPrefix(record.ID, "ENG-") {
		t.Errorf("id = %q", record.ID)
	}
	if record.Status != model.StatusPendingPayment {
		t.Errorf("status = %q", record.Status)
	}

	got, err := c.Get(ctx, "registrations", record.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Field("fullName") != "Aline K." {
		t.Errorf("Get = %+v", got)
	}

	updated, err := c.Update(ctx, "registrations", record.ID, map[string]any{"status": "Paid"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != model.StatusPaid {
		t.Errorf("status after update = %q", updated.Status)
	}

	records, total, err := c.List(ctx, "registrations", client.ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(records) != 1 {
		t.Errorf("List = %d records, total %d", len(records), total)
	}

	csvBody, err := c.ExportCSV(ctx, "registrations", client.ListOptions{})
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if !strings.Contains(string(csvBody), `"Aline K."`) {
		t.Errorf("csv = %s", csvBody)
	}

	if err := c.Clear(ctx, "registrations"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	_, total, err = c.List(ctx, "registrations", client.ListOptions{})
	if err != nil {
		t.Fatalf("List after clear: %v", err)
	}
	if total != 0 {
		t.Errorf("total after clear = %d", total)
	}
}

func TestClientMissIsNil(t *testing.T) {
	ts := startServer(t, "")
	c := client.NewHTTPClient(ts.URL, "")
	ctx := context.Background()

	got, err := c.Get(ctx, "careers", "CGR-0-0")
	if err != nil || got != nil {
		t.Errorf("Get miss = (%v, %v), want (nil, nil)", got, err)
	}

	updated, err := c.Update(ctx, "careers", "CGR-0-0", map[string]any{"status": "Closed"})
	if err != nil || updated != nil {
		t.Errorf("Update miss = (%v, %v), want (nil, nil)", updated, err)
	}
}

func TestClientAuth(t *testing.T) {
	ts := startServer(t, "sekrit")
	ctx := context.Background()

	bad := client.NewHTTPClient(ts.URL, "wrong")
	if _, _, err := bad.List(ctx, "careers", client.ListOptions{}); err == nil {
		t.Error("expected error with wrong token")
	}

	good := client.NewHTTPClient(ts.URL, "sekrit")
	if _, _, err := good.List(ctx, "careers", client.ListOptions{}); err != nil {
		t.Errorf("List with token: %v", err)
	}

	// Health never needs the token.
	status, err := good.Health(ctx)
	if err != nil || status != "ok" {
		t.Errorf("Health = (%q, %v)", status, err)
	}
}
