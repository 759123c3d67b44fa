package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alfredjeanlab/intake/internal/events"
	"github.com/alfredjeanlab/intake/internal/export"
	"github.com/alfredjeanlab/intake/internal/kv"
	"github.com/alfredjeanlab/intake/internal/model"
	"github.com/alfredjeanlab/intake/internal/store"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	backend := kv.NewMemory()
	stores := map[string]store.Store{
		model.Careers.Name:       store.ForCollection(backend, model.Careers),
		model.Registrations.Name: store.ForCollection(backend, model.Registrations),
	}
	srv := New(stores, map[string]export.Template{}, &events.NoopPublisher{})
	return srv.NewHTTPHandler("")
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeRecord(t *testing.T, body []byte) map[string]any {
	t.Helper()
	obj := map[string]any{}
	if err := json.Unmarshal(body, &obj); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, body)
	}
	return obj
}

func TestSubmitRegistration_EndToEnd(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, "POST", "/v1/registrations",
		`{"fullName":"Aline K.","email":"a@x.com","test":"IELTS","plan":"Standard","amountUSD":300}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}

	record := decodeRecord(t, w.Body.Bytes())
	if record["status"] != "Pending Payment" {
		t.Errorf("status = %v", record["status"])
	}
	if record["paymentStatus"] != "Unpaid" {
		t.Errorf("paymentStatus = %v", record["paymentStatus"])
	}
	id, _ := record["id"].(string)
	if !strings.HasPrefix(id, "ENG-") {
		t.Errorf("id = %q, want ENG- reference number", id)
	}

	// The new submission lists first.
	w = doJSON(t, h, "GET", "/v1/registrations", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var listed struct {
		Records []map[string]any `json:"records"`
		Total   int              `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if listed.Total != 1 || len(listed.Records) != 1 || listed.Records[0]["id"] != id {
		t.Errorf("list = %+v", listed)
	}
}

func TestSubmit_UnknownCollection(t *testing.T) {
	h := newTestHandler(t)
	w := doJSON(t, h, "POST", "/v1/invoices", `{"a":1}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestSubmit_InvalidBody(t *testing.T) {
	h := newTestHandler(t)
	w := doJSON(t, h, "POST", "/v1/careers", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGet_NotFound(t *testing.T) {
	h := newTestHandler(t)
	w := doJSON(t, h, "GET", "/v1/careers/CGR-0-0", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestUpdate_PatchAndMiss(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, "POST", "/v1/registrations", `{"fullName":"Eric N."}`)
	id := decodeRecord(t, w.Body.Bytes())["id"].(string)

	w = doJSON(t, h, "PATCH", "/v1/registrations/"+id, `{"status":"Paid","paymentStatus":"Paid"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("patch status = %d, body %s", w.Code, w.Body)
	}
	record := decodeRecord(t, w.Body.Bytes())
	if record["status"] != "Paid" || record["paymentStatus"] != "Paid" {
		t.Errorf("patched record = %v", record)
	}
	if record["updatedAt"] == nil {
		t.Error("updatedAt missing after patch")
	}

	w = doJSON(t, h, "PATCH", "/v1/registrations/ENG-0-0", `{"status":"Paid"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("patch on miss = %d, want 404", w.Code)
	}
}

func TestList_FilterQuery(t *testing.T) {
	h := newTestHandler(t)
	doJSON(t, h, "POST", "/v1/registrations", `{"fullName":"Aline K.","test":"IELTS"}`)
	doJSON(t, h, "POST", "/v1/registrations", `{"fullName":"Eric N.","test":"TOEFL"}`)

	w := doJSON(t, h, "GET", "/v1/registrations?q=toefl", "")
	var listed struct {
		Records []map[string]any `json:"records"`
		Total   int              `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed.Records) != 1 || listed.Records[0]["fullName"] != "Eric N." {
		t.Errorf("filtered = %+v", listed.Records)
	}
	if listed.Total != 2 {
		t.Errorf("total = %d, want unfiltered count", listed.Total)
	}
}

func TestClear(t *testing.T) {
	h := newTestHandler(t)
	doJSON(t, h, "POST", "/v1/careers", `{"fullName":"Jo"}`)

	w := doJSON(t, h, "DELETE", "/v1/careers", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("clear status = %d", w.Code)
	}

	w = doJSON(t, h, "GET", "/v1/careers", "")
	var listed struct {
		Total int `json:"total"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &listed)
	if listed.Total != 0 {
		t.Errorf("total after clear = %d", listed.Total)
	}
}

func TestExportCSV(t *testing.T) {
	h := newTestHandler(t)
	doJSON(t, h, "POST", "/v1/registrations", `{"fullName":"Aline K.","email":"a@x.com"}`)

	w := doJSON(t, h, "GET", "/v1/registrations/export", "")
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "english_test_registrations.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	lines := strings.Split(w.Body.String(), "\n")
	if lines[0] != `"id","createdAt","status","paymentStatus","fullName","email","phone","test","plan","examDate","paymentMethod","amountUSD"` {
		t.Errorf("header = %s", lines[0])
	}
	if len(lines) != 2 || !strings.Contains(lines[1], `"Aline K."`) {
		t.Errorf("rows = %v", lines[1:])
	}
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)
	w := doJSON(t, h, "GET", "/v1/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("health = %d", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	backend := kv.NewMemory()
	stores := map[string]store.Store{
		model.Careers.Name:       store.ForCollection(backend, model.Careers),
		model.Registrations.Name: store.ForCollection(backend, model.Registrations),
	}
	srv := New(stores, nil, &events.NoopPublisher{})
	h := srv.NewHTTPHandler("sekrit")

	// Health is exempt.
	w := doJSON(t, h, "GET", "/v1/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("health with auth enabled = %d", w.Code)
	}

	// Everything else requires the token.
	w = doJSON(t, h, "GET", "/v1/careers", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated list = %d, want 401", w.Code)
	}

	req := httptest.NewRequest("GET", "/v1/careers", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated list = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest("GET", "/v1/careers", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", rec.Code)
	}
}
