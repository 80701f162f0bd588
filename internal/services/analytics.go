package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"superstore-dashboard/internal/analytics"
	"superstore-dashboard/internal/dataset"
	"superstore-dashboard/internal/errors"
	"superstore-dashboard/internal/models"
	"superstore-dashboard/internal/observability"
)

// Analytics owns the loaded dataset and runs the render pipeline against it.
// The dataset is replaced wholesale on load and only read afterwards, so
// concurrent renders each get an isolated pass over the same rows.
type Analytics struct {
	mu       sync.RWMutex
	data     *dataset.Dataset
	source   string
	loadedAt time.Time
	renders  int64
	logger   *slog.Logger
}

func NewAnalytics(logger *slog.Logger) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analytics{logger: logger}
}

// SetData installs an already parsed record table.
func (a *Analytics) SetData(header []string, records []models.Record) {
	ds := dataset.New(header, records)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.data = ds
	a.source = "memory"
	a.loadedAt = time.Now()
}

func (a *Analytics) LoadFromFile(ctx context.Context, path string, opts dataset.Options) error {
	ctx, span := observability.StartSpan(ctx, "dataset.load")
	span.SetAttr("path", path)
	defer span.End(a.logger)

	start := time.Now()
	a.logger.Info("loading dataset", "path", path, "sheet", opts.Sheet)

	ds, err := dataset.Load(ctx, path, opts)
	if err != nil {
		span.SetError(err)
		return fmt.Errorf("load dataset %s: %w", path, err)
	}

	a.mu.Lock()
	a.data = ds
	a.source = path
	a.loadedAt = time.Now()
	a.mu.Unlock()

	duration := time.Since(start)
	span.SetAttr("records", ds.Len())
	a.logger.Info("dataset loaded",
		"records", ds.Len(),
		"columns", len(ds.Header),
		"min_date", ds.MinDate.Format(time.DateOnly),
		"max_date", ds.MaxDate.Format(time.DateOnly),
		"duration", duration,
	)
	return nil
}

// Render filters and aggregates the dataset for one selection.
func (a *Analytics) Render(ctx context.Context, sel models.Selection) (*analytics.Dashboard, error) {
	a.mu.Lock()
	ds := a.data
	a.renders++
	a.mu.Unlock()

	if ds == nil {
		return nil, errors.ServiceUnavailable("dataset is not loaded yet")
	}

	_, span := observability.StartSpan(ctx, "dashboard.render")
	defer span.End(a.logger)

	d := analytics.Render(ds, sel)

	span.SetAttr("request_id", observability.GetRequestID(ctx))
	span.SetAttr("rows", d.RecordCount)
	span.SetAttr("regions", len(sel.Regions))
	span.SetAttr("states", len(sel.States))
	span.SetAttr("cities", len(sel.Cities))
	return d, nil
}

// Reconcile clears selected values the cascading options no longer offer.
// Without a dataset the selection comes back unchanged.
func (a *Analytics) Reconcile(sel models.Selection) models.Selection {
	a.mu.RLock()
	ds := a.data
	a.mu.RUnlock()

	if ds == nil {
		return sel
	}
	return analytics.Reconcile(ds, sel)
}

func (a *Analytics) Loaded() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.data != nil
}

// Stats reports what is loaded, for the admin endpoint.
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := map[string]any{
		"loaded":  a.data != nil,
		"source":  a.source,
		"renders": a.renders,
	}
	if a.data != nil {
		stats["record_count"] = a.data.Len()
		stats["columns"] = a.data.Header
		stats["min_date"] = a.data.MinDate.Format(time.DateOnly)
		stats["max_date"] = a.data.MaxDate.Format(time.DateOnly)
		stats["loaded_at"] = a.loadedAt
	}
	return stats
}
