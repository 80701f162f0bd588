package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"superstore-dashboard/internal/models"
	"superstore-dashboard/internal/services"
)

var testHeader = []string{"Order Date", "Region", "State", "City", "Category", "Sub-Category", "Segment", "Ship Mode", "Customer Name", "Sales", "Profit", "Quantity"}

func testRecord(date time.Time, region, state, city, category, customer string, sales, profit float64) models.Record {
	r := models.Record{
		OrderDate:    date,
		Region:       region,
		State:        state,
		City:         city,
		Category:     category,
		SubCategory:  "Phones",
		Segment:      "Consumer",
		ShipMode:     "Second Class",
		CustomerName: customer,
		Sales:        sales,
		Profit:       profit,
		Quantity:     1,
	}
	r.Raw = []string{date.Format(time.DateOnly), region, state, city, category, r.SubCategory, r.Segment, r.ShipMode, customer, "", "", "1"}
	return r
}

func createTestAnalytics() *services.Analytics {
	a := services.NewAnalytics(quietLogger())
	a.SetData(testHeader, []models.Record{
		testRecord(time.Date(2016, 1, 10, 0, 0, 0, 0, time.UTC), "West", "California", "Los Angeles", "Technology", "Alice", 100, 20),
		testRecord(time.Date(2016, 3, 2, 0, 0, 0, 0, time.UTC), "East", "New York", "New York City", "Furniture", "Bob", 50, -10),
		testRecord(time.Date(2017, 6, 18, 0, 0, 0, 0, time.UTC), "West", "Washington", "Seattle", "Office Supplies", "Carol", 25, 5),
	})
	return a
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeSuccess(t *testing.T, body io.Reader) json.RawMessage {
	t.Helper()
	var response struct {
		Data    json.RawMessage `json:"data"`
		Success bool            `json:"success"`
	}
	if err := json.NewDecoder(body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if !response.Success {
		t.Fatal("expected success=true in response")
	}
	return response.Data
}

func TestNewAPIHandlers(t *testing.T) {
	analytics := createTestAnalytics()
	handlers := NewAPIHandlers(analytics, quietLogger())

	if handlers == nil {
		t.Fatal("NewAPIHandlers() returned nil")
	}
	if handlers.analytics != analytics {
		t.Error("NewAPIHandlers() should set analytics field")
	}
}

func TestAPIHandlers_HandleDashboard(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), quietLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?region=West", nil)
	w := httptest.NewRecorder()
	handlers.HandleDashboard(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("expected content-type 'application/json', got %q", got)
	}
	if got := w.Header().Get("Cache-Control"); got != "public, max-age=300" {
		t.Errorf("expected cache-control 'public, max-age=300', got %q", got)
	}

	var d struct {
		RecordCount int `json:"record_count"`
		Totals      struct {
			Sales float64 `json:"sales"`
		} `json:"totals"`
		Options struct {
			States []string `json:"states"`
		} `json:"options"`
		Summaries []struct {
			Name string `json:"name"`
		} `json:"summaries"`
	}
	if err := json.Unmarshal(decodeSuccess(t, w.Body), &d); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}

	if d.RecordCount != 2 {
		t.Errorf("record_count = %d, want 2", d.RecordCount)
	}
	if d.Totals.Sales != 125 {
		t.Errorf("totals.sales = %v, want 125", d.Totals.Sales)
	}
	if len(d.Options.States) != 2 {
		t.Errorf("state options = %v, want the two West states", d.Options.States)
	}
	if len(d.Summaries) == 0 {
		t.Error("expected summaries in dashboard")
	}
}

func TestAPIHandlers_HandleSummary(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), quietLogger())

	tests := []struct {
		name       string
		summary    string
		wantStatus int
	}{
		{"category", "category", http.StatusOK},
		{"state sales", "state-sales", http.StatusOK},
		{"unknown", "nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/summaries/"+tt.summary, nil)
			req.SetPathValue("name", tt.summary)
			w := httptest.NewRecorder()

			handlers.HandleSummary(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var s models.Summary
			if err := json.Unmarshal(decodeSuccess(t, w.Body), &s); err != nil {
				t.Fatalf("decode summary: %v", err)
			}
			if s.Name != tt.summary {
				t.Errorf("summary name = %q, want %q", s.Name, tt.summary)
			}
		})
	}
}

func TestAPIHandlers_InvalidDate(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), quietLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?start=01/02/2016", nil)
	w := httptest.NewRecorder()
	handlers.HandleDashboard(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if !strings.Contains(w.Body.String(), "VALIDATION_ERROR") {
		t.Errorf("expected validation error body, got %s", w.Body.String())
	}
}

func TestAPIHandlers_NotLoaded(t *testing.T) {
	handlers := NewAPIHandlers(services.NewAnalytics(quietLogger()), quietLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	w := httptest.NewRecorder()
	handlers.HandleDashboard(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}
}

func TestAPIHandlers_HandleStateGeoJSON(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), quietLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/state-sales.geojson", nil)
	w := httptest.NewRecorder()
	handlers.HandleStateGeoJSON(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	if err := json.NewDecoder(w.Body).Decode(&fc); err != nil {
		t.Fatalf("decode geojson: %v", err)
	}
	if fc.Type != "FeatureCollection" {
		t.Errorf("type = %q, want FeatureCollection", fc.Type)
	}
	if len(fc.Features) != 3 {
		t.Errorf("got %d features, want 3", len(fc.Features))
	}
}

func TestAPIHandlers_HandleHealth(t *testing.T) {
	tests := []struct {
		name      string
		analytics *services.Analytics
		want      string
	}{
		{"loaded", createTestAnalytics(), "healthy"},
		{"empty", services.NewAnalytics(quietLogger()), "loading"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlers := NewAPIHandlers(tt.analytics, quietLogger())
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()

			handlers.HandleHealth(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
			}
			var health map[string]string
			if err := json.Unmarshal(decodeSuccess(t, w.Body), &health); err != nil {
				t.Fatalf("decode health: %v", err)
			}
			if health["status"] != tt.want {
				t.Errorf("status = %q, want %q", health["status"], tt.want)
			}
		})
	}
}

func TestAPIHandlers_HandleStats(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), quietLogger())

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	w := httptest.NewRecorder()
	handlers.HandleStats(w, req)

	var stats map[string]any
	if err := json.Unmarshal(decodeSuccess(t, w.Body), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats["record_count"] != float64(3) {
		t.Errorf("record_count = %v, want 3", stats["record_count"])
	}
}
