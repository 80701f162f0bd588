package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"superstore-dashboard/internal/analytics"
	"superstore-dashboard/internal/errors"
	"superstore-dashboard/internal/export"
	"superstore-dashboard/internal/observability"
	"superstore-dashboard/internal/services"
)

const cacheControl = "public, max-age=300"

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// render parses the filter query and runs one pipeline pass. On failure it
// has already written the error response.
func (h *APIHandlers) render(w http.ResponseWriter, r *http.Request) (*analytics.Dashboard, bool) {
	requestID := observability.GetRequestID(r.Context())

	sel, err := selectionFromQuery(r.URL.Query())
	if err != nil {
		errors.WriteError(w, h.logger, errors.ValidationWrap(err, "invalid filter selection"), requestID)
		return nil, false
	}

	d, err := h.analytics.Render(r.Context(), sel)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return nil, false
	}
	return d, true
}

func (h *APIHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	d, ok := h.render(w, r)
	if !ok {
		return
	}

	errors.WriteSuccessWithHeaders(w, d, map[string]string{
		"Cache-Control": cacheControl,
	})
}

func (h *APIHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	d, ok := h.render(w, r)
	if !ok {
		return
	}

	s, found := d.Summary(name)
	if !found {
		errors.WriteError(w, h.logger, errors.NotFound("unknown summary "+name), observability.GetRequestID(r.Context()))
		return
	}

	errors.WriteSuccessWithHeaders(w, s, map[string]string{
		"Cache-Control": cacheControl,
	})
}

func (h *APIHandlers) HandleStateGeoJSON(w http.ResponseWriter, r *http.Request) {
	d, ok := h.render(w, r)
	if !ok {
		return
	}

	s, _ := d.Summary(analytics.SummaryStateSales)
	fc := export.StateFeatures(s)

	w.Header().Set("Content-Type", export.ContentTypeGeoJSON)
	w.Header().Set("Cache-Control", cacheControl)
	if err := json.NewEncoder(w).Encode(fc); err != nil {
		h.logger.Error("encode state features", "error", err)
	}
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if !h.analytics.Loaded() {
		status = "loading"
	}

	errors.WriteSuccess(w, map[string]string{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}
