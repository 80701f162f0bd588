package handlers

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"superstore-dashboard/internal/models"
)

// filterSignals mirrors the datastar signals the dashboard page keeps for
// its filter widgets.
type filterSignals struct {
	Start   string   `json:"start"`
	End     string   `json:"end"`
	Regions []string `json:"regions"`
	States  []string `json:"states"`
	Cities  []string `json:"cities"`
}

func (f filterSignals) selection() (models.Selection, error) {
	start, err := parseDateParam("start", f.Start)
	if err != nil {
		return models.Selection{}, err
	}
	end, err := parseDateParam("end", f.End)
	if err != nil {
		return models.Selection{}, err
	}

	return models.Selection{
		Start:   start,
		End:     end,
		Regions: compact(f.Regions),
		States:  compact(f.States),
		Cities:  compact(f.Cities),
	}, nil
}

// selectionFromQuery reads start/end as YYYY-MM-DD and repeated
// region/state/city parameters.
func selectionFromQuery(q url.Values) (models.Selection, error) {
	return filterSignals{
		Start:   q.Get("start"),
		End:     q.Get("end"),
		Regions: q["region"],
		States:  q["state"],
		Cities:  q["city"],
	}.selection()
}

func parseDateParam(name, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be YYYY-MM-DD: %w", name, err)
	}
	return t, nil
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
