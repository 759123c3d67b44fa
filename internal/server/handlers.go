package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alfredjeanlab/intake/internal/events"
	"github.com/alfredjeanlab/intake/internal/export"
	"github.com/alfredjeanlab/intake/internal/model"
	"github.com/alfredjeanlab/intake/internal/store"
)

// handleSubmit handles POST /v1/{collection}. The body is the submitted form
// payload; the response is the fully materialized record, whose id is the
// reference number shown to the applicant.
func (s *IntakeServer) handleSubmit(w http.ResponseWriter, r *http.Request) {
	c, st, ok := s.lookup(r.PathValue("collection"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown collection")
		return
	}

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(payload) == 0 {
		writeError(w, http.StatusBadRequest, "empty payload")
		return
	}

	record, err := store.Create(r.Context(), st, c, payload)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save submission")
		return
	}

	s.publish(r.Context(), events.TopicRecordCreated, c.Name, events.RecordCreated{
		Collection: c.Name,
		Record:     record,
	})

	writeJSON(w, http.StatusCreated, record)
}

// handleList handles GET /v1/{collection}. Supports q (substring over display
// fields), status, and limit query parameters.
func (s *IntakeServer) handleList(w http.ResponseWriter, r *http.Request) {
	c, st, ok := s.lookup(r.PathValue("collection"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown collection")
		return
	}

	records, err := st.LoadAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list records")
		return
	}

	q := r.URL.Query()
	filter := model.Filter{
		Search: q.Get("q"),
		Status: model.Status(q.Get("status")),
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	filtered := filter.Apply(c, records)

	writeJSON(w, http.StatusOK, map[string]any{
		"records": filtered,
		"total":   len(records),
	})
}

// handleGet handles GET /v1/{collection}/{id}.
func (s *IntakeServer) handleGet(w http.ResponseWriter, r *http.Request) {
	_, st, ok := s.lookup(r.PathValue("collection"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown collection")
		return
	}

	record, err := st.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get record")
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// handleUpdate handles PATCH /v1/{collection}/{id}. The body is a partial
// record; id and createdAt are immutable and ignored if present.
func (s *IntakeServer) handleUpdate(w http.ResponseWriter, r *http.Request) {
	c, st, ok := s.lookup(r.PathValue("collection"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown collection")
		return
	}

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(patch) == 0 {
		writeError(w, http.StatusBadRequest, "empty patch")
		return
	}

	record, err := st.UpdateByID(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update record")
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}

	s.publish(r.Context(), events.TopicRecordUpdated, c.Name, events.RecordUpdated{
		Collection: c.Name,
		Record:     record,
		Changes:    patch,
	})

	writeJSON(w, http.StatusOK, record)
}

// handleClear handles DELETE /v1/{collection}.
func (s *IntakeServer) handleClear(w http.ResponseWriter, r *http.Request) {
	c, st, ok := s.lookup(r.PathValue("collection"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown collection")
		return
	}

	if err := st.ClearAll(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear collection")
		return
	}

	s.publish(r.Context(), events.TopicCollectionCleared, c.Name, events.CollectionCleared{
		Collection: c.Name,
	})

	w.WriteHeader(http.StatusNoContent)
}

// handleExport handles GET /v1/{collection}/export: the collection (optionally
// filtered with q/status) rendered as a CSV attachment.
func (s *IntakeServer) handleExport(w http.ResponseWriter, r *http.Request) {
	c, st, ok := s.lookup(r.PathValue("collection"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown collection")
		return
	}
	tpl := s.templates[c.Name]

	records, err := st.LoadAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load records")
		return
	}

	q := r.URL.Query()
	filter := model.Filter{
		Search: q.Get("q"),
		Status: model.Status(q.Get("status")),
	}
	filtered := filter.Apply(c, records)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", tpl.Filename))
	if err := export.WriteCSV(w, tpl.Columns, filtered); err != nil {
		slog.Warn("csv export write failed", "collection", c.Name, "error", err)
	}
}
