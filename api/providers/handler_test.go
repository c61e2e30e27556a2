package providers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/careops/bookd/core/model"
	"github.com/careops/bookd/core/providerstatus"
	"github.com/careops/bookd/core/usage"
)

func TestStatusHandler_Basic(t *testing.T) {
	store := providerstatus.NewMemoryStore()
	store.Set(providerstatus.Status{ProviderName: "clinic-a", CurrentStatus: "idle"})
	h := NewStatusHandler(store, "")
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/providers/status", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out []providerstatus.Status
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].ProviderName != "clinic-a" {
		t.Fatalf("unexpected output %#v", out)
	}
}

func TestStatusHandler_Filter(t *testing.T) {
	store := providerstatus.NewMemoryStore()
	store.Set(providerstatus.Status{ProviderName: "clinic-a", Categories: []model.CategoryID{"general"}})
	store.Set(providerstatus.Status{ProviderName: "clinic-b", Categories: []model.CategoryID{"dental"}})
	h := NewStatusHandler(store, "")
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/providers/status?category=dental", nil)
	h.ServeHTTP(rr, req)
	var out []providerstatus.Status
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].ProviderName != "clinic-b" {
		t.Fatalf("unexpected filter result %#v", out)
	}
}

func TestStatusHandler_Auth(t *testing.T) {
	store := providerstatus.NewMemoryStore()
	h := NewStatusHandler(store, "tok")
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/providers/status", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/providers/status", nil)
	req.Header.Set("Authorization", "Bearer tok")
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
}

func TestStatusHandler_Empty(t *testing.T) {
	store := providerstatus.NewMemoryStore()
	h := NewStatusHandler(store, "")
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/providers/status", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if rr.Body.String() != "[]\n" {
		t.Fatalf("expected empty array got %s", rr.Body.String())
	}
}

func TestUsageHandler(t *testing.T) {
	store := usage.NewMemoryStore()
	day := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	if err := store.Add(usage.Record{Provider: "clinic-a", Date: day, Placed: 3, Cycles: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}
	h := NewUsageHandler(store, map[string]int{"clinic-a": 6}, "")

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/providers/clinic-a/usage?start=2026-03-01T00:00:00Z&end=2026-03-03T00:00:00Z", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out []struct {
		Date     string  `json:"date"`
		Placed   int     `json:"placed"`
		Cycles   int     `json:"cycles"`
		FillRate float64 `json:"fill_rate"`
		PerCycle float64 `json:"placed_per_cycle"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 record got %d", len(out))
	}
	if out[0].Date != "2026-03-02" || out[0].FillRate != 0.5 || out[0].PerCycle != 1.5 {
		t.Fatalf("unexpected record %+v", out[0])
	}
}

func TestUsageHandler_NotFoundPath(t *testing.T) {
	h := NewUsageHandler(usage.NewMemoryStore(), nil, "")
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/providers/clinic-a", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
}
