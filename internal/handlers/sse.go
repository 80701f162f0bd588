package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"superstore-dashboard/internal/analytics"
	"superstore-dashboard/internal/errors"
	"superstore-dashboard/internal/export"
	"superstore-dashboard/internal/observability"
	"superstore-dashboard/internal/services"
)

var sseFuncs = template.FuncMap{
	"currency": export.Currency,
	"percent":  export.Percent,
	"count":    export.Count,
	"selected": func(values []string, v string) bool { return slices.Contains(values, v) },
}

var kpiTemplate = template.Must(template.New("kpis").Funcs(sseFuncs).Parse(`
<div id="kpis" class="kpis">
<div class="kpi"><span class="kpi-label">Orders</span><strong>{{count .RecordCount}}</strong></div>
<div class="kpi"><span class="kpi-label">Sales</span><strong>{{currency .Totals.Sales}}</strong></div>
<div class="kpi"><span class="kpi-label">Profit</span><strong>{{currency .Totals.Profit}}</strong></div>
<div class="kpi"><span class="kpi-label">Quantity</span><strong>{{count .Totals.Quantity}}</strong></div>
{{if .Margin}}<div class="kpi"><span class="kpi-label">Margin</span><strong>{{percent .MarginValue}}</strong></div>{{end}}
</div>`))

var optionsTemplate = template.Must(template.New("options").Funcs(sseFuncs).Parse(`
<select id="{{.ID}}" multiple data-bind:{{.Signal}} data-on:change="@get('/sse/dashboard')">
{{range .Options}}<option value="{{.}}"{{if selected $.Selected .}} selected{{end}}>{{.}}</option>
{{end}}</select>`))

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

type kpiData struct {
	*analytics.Dashboard
	Margin      bool
	MarginValue float64
}

type optionsData struct {
	ID       string
	Signal   string
	Options  []string
	Selected []string
}

func (h *SSEHandlers) renderKPIs(d *analytics.Dashboard) (string, error) {
	data := kpiData{Dashboard: d}
	if d.Totals.Sales != 0 {
		data.Margin = true
		data.MarginValue = d.Totals.Profit / d.Totals.Sales * 100
	}

	var buf strings.Builder
	err := kpiTemplate.Execute(&buf, data)
	return strings.TrimSpace(buf.String()), err
}

func (h *SSEHandlers) renderOptions(d *analytics.Dashboard) ([]string, error) {
	lists := []optionsData{
		{ID: "region-select", Signal: "regions", Options: d.Options.Regions, Selected: d.Selection.Regions},
		{ID: "state-select", Signal: "states", Options: d.Options.States, Selected: d.Selection.States},
		{ID: "city-select", Signal: "cities", Options: d.Options.Cities, Selected: d.Selection.Cities},
	}

	out := make([]string, 0, len(lists))
	for _, l := range lists {
		var buf strings.Builder
		if err := optionsTemplate.Execute(&buf, l); err != nil {
			return nil, err
		}
		out = append(out, strings.TrimSpace(buf.String()))
	}
	return out, nil
}

// dashboardSignals is patched back after every render. The chart payload is
// underscore-prefixed so datastar keeps it client side and never sends it
// with the next @get.
type dashboardSignals struct {
	Start     string               `json:"start"`
	End       string               `json:"end"`
	Regions   []string             `json:"regions"`
	States    []string             `json:"states"`
	Cities    []string             `json:"cities"`
	Dashboard *analytics.Dashboard `json:"_dashboard"`
}

// HandleDashboard re-runs the whole pipeline for the filter signals the page
// sent, then patches the KPI strip, the three cascading option lists and the
// signals the charts draw from. Selections the cascade no longer offers are
// dropped before rendering and the cleaned selection is patched back.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	var signals filterSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		errors.WriteError(w, h.logger, errors.ValidationWrap(err, "invalid signals"), requestID)
		return
	}

	sel, err := signals.selection()
	if err != nil {
		errors.WriteError(w, h.logger, errors.ValidationWrap(err, "invalid filter selection"), requestID)
		return
	}

	d, err := h.analytics.Render(r.Context(), h.analytics.Reconcile(sel))
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	kpis, err := h.renderKPIs(d)
	if err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "failed to render KPIs"), requestID)
		return
	}
	options, err := h.renderOptions(d)
	if err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "failed to render filter options"), requestID)
		return
	}
	payload, err := json.Marshal(dashboardSignals{
		Start:     d.Selection.Start.Format(time.DateOnly),
		End:       d.Selection.End.Format(time.DateOnly),
		Regions:   d.Selection.Regions,
		States:    d.Selection.States,
		Cities:    d.Selection.Cities,
		Dashboard: d,
	})
	if err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "failed to encode dashboard"), requestID)
		return
	}

	sse := datastar.NewSSE(w, r)

	if err := sse.PatchElements(kpis); err != nil {
		h.logger.Warn("patch kpis", "error", err, "request_id", requestID)
		return
	}
	for _, html := range options {
		if err := sse.PatchElements(html); err != nil {
			h.logger.Warn("patch filter options", "error", err, "request_id", requestID)
			return
		}
	}
	if err := sse.PatchSignals(payload); err != nil {
		h.logger.Warn("patch dashboard signals", "error", err, "request_id", requestID)
		return
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
