package server

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"superstore-dashboard/internal/config"
	"superstore-dashboard/internal/models"
	"superstore-dashboard/internal/services"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testServer() *Server {
	a := services.NewAnalytics(quietLogger())
	date := time.Date(2016, 11, 8, 0, 0, 0, 0, time.UTC)
	a.SetData([]string{"Order Date", "Region", "State", "City", "Category", "Sub-Category", "Segment", "Ship Mode", "Customer Name", "Sales", "Profit", "Quantity"}, []models.Record{{
		OrderDate:    date,
		Region:       "South",
		State:        "Kentucky",
		City:         "Henderson",
		Category:     "Furniture",
		SubCategory:  "Bookcases",
		Segment:      "Consumer",
		ShipMode:     "Second Class",
		CustomerName: "Claire Gute",
		Sales:        261.96,
		Profit:       41.91,
		Quantity:     2,
		Raw:          []string{"2016-11-08", "South", "Kentucky", "Henderson", "Furniture", "Bookcases", "Consumer", "Second Class", "Claire Gute", "261.96", "41.91", "2"},
	}})

	return NewServer(a, quietLogger(), &TemplateHandlers{
		Dashboard: func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("page"))
		},
	})
}

func TestServer_Routes(t *testing.T) {
	srv := testServer()

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/admin/stats", http.StatusOK},
		{http.MethodGet, "/api/dashboard", http.StatusOK},
		{http.MethodGet, "/api/summaries/category", http.StatusOK},
		{http.MethodGet, "/api/state-sales.geojson", http.StatusOK},
		{http.MethodGet, "/export/category.csv", http.StatusOK},
		{http.MethodGet, "/sse/dashboard", http.StatusOK},
		{http.MethodGet, "/index.html", http.StatusNotFound},
		{http.MethodPost, "/api/dashboard", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}

func shutdownConfig() *config.Config {
	return &config.Config{Server: config.ServerConfig{ShutdownTimeout: time.Second}}
}

func TestGracefulServer_Shutdown(t *testing.T) {
	gs := NewGracefulServer(&http.Server{Handler: http.NotFoundHandler()}, quietLogger(), shutdownConfig())

	var ran atomic.Int32
	for range 3 {
		gs.RegisterShutdownHook(func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
	}

	if err := gs.Shutdown(t.Context()); err != nil {
		t.Fatalf("Shutdown() failed: %v", err)
	}
	if ran.Load() != 3 {
		t.Errorf("ran %d hooks, want 3", ran.Load())
	}
}

func TestGracefulServer_ShutdownJoinsErrors(t *testing.T) {
	gs := NewGracefulServer(&http.Server{Handler: http.NotFoundHandler()}, quietLogger(), shutdownConfig())

	errFlush := stderrors.New("flush failed")
	gs.RegisterShutdownHook(func(ctx context.Context) error { return errFlush })
	gs.RegisterShutdownHook(func(ctx context.Context) error { return nil })

	err := gs.Shutdown(t.Context())
	if !stderrors.Is(err, errFlush) {
		t.Fatalf("Shutdown() error = %v, want it to wrap %v", err, errFlush)
	}
	if !strings.Contains(err.Error(), "shutdown hook 0") {
		t.Errorf("error should name the failing hook, got %v", err)
	}
}

func TestGracefulServer_ContextCancel(t *testing.T) {
	cfg := shutdownConfig()
	gs := NewGracefulServer(&http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}, quietLogger(), cfg)

	hookRan := make(chan struct{})
	gs.RegisterShutdownHook(func(ctx context.Context) error {
		close(hookRan)
		return nil
	})

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- gs.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ListenAndServe() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after context cancel")
	}

	select {
	case <-hookRan:
	default:
		t.Error("shutdown hook did not run")
	}
}
