package analytics

import (
	"slices"
	"time"

	"superstore-dashboard/internal/dataset"
	"superstore-dashboard/internal/models"
)

// Filtered is the output of the filter stage: the surviving rows, the
// selection with its date bounds resolved, and the option lists each
// multiselect should offer given the narrower selections before it.
// InRange holds the rows inside the date range before any categorical step.
type Filtered struct {
	Selection models.Selection
	Options   models.FilterOptions
	InRange   []models.Record
	Records   []models.Record
}

// ResolveSelection replaces a zero Start or End with the dataset's own bound
// and normalises both to calendar dates.
func ResolveSelection(ds *dataset.Dataset, sel models.Selection) models.Selection {
	out := models.Selection{
		Start:   sel.Start,
		End:     sel.End,
		Regions: slices.Clone(sel.Regions),
		States:  slices.Clone(sel.States),
		Cities:  slices.Clone(sel.Cities),
	}
	if out.Start.IsZero() && ds != nil {
		out.Start = ds.MinDate
	}
	if out.End.IsZero() && ds != nil {
		out.End = ds.MaxDate
	}
	out.Start = dateOf(out.Start)
	out.End = dateOf(out.End)
	return out
}

// Filter applies the date range, then region, then state, then city. Each
// categorical step sees only the rows the previous step kept. A start after
// the end simply matches nothing.
func Filter(ds *dataset.Dataset, sel models.Selection) Filtered {
	sel = ResolveSelection(ds, sel)
	out := Filtered{Selection: sel}
	if ds == nil {
		out.InRange = []models.Record{}
		out.Records = []models.Record{}
		return out
	}

	byDate := make([]models.Record, 0, len(ds.Records))
	for _, r := range ds.Records {
		if !r.OrderDate.Before(sel.Start) && !r.OrderDate.After(sel.End) {
			byDate = append(byDate, r)
		}
	}
	out.InRange = byDate

	out.Options.Regions = distinct(byDate, regionOf)
	byRegion := keepMembers(byDate, regionOf, sel.Regions)

	out.Options.States = distinct(byRegion, stateOf)
	byState := keepMembers(byRegion, stateOf, sel.States)

	out.Options.Cities = distinct(byState, cityOf)
	out.Records = keepMembers(byState, cityOf, sel.Cities)

	return out
}

// Reconcile drops selected regions, states and cities that the cascade no
// longer offers, level by level, so a state picked under an earlier region
// does not silently narrow the result after the region changes.
func Reconcile(ds *dataset.Dataset, sel models.Selection) models.Selection {
	sel = ResolveSelection(ds, sel)
	if ds == nil {
		return sel
	}

	rows := make([]models.Record, 0, len(ds.Records))
	for _, r := range ds.Records {
		if !r.OrderDate.Before(sel.Start) && !r.OrderDate.After(sel.End) {
			rows = append(rows, r)
		}
	}

	sel.Regions = offered(sel.Regions, distinct(rows, regionOf))
	rows = keepMembers(rows, regionOf, sel.Regions)

	sel.States = offered(sel.States, distinct(rows, stateOf))
	rows = keepMembers(rows, stateOf, sel.States)

	sel.Cities = offered(sel.Cities, distinct(rows, cityOf))
	return sel
}

func offered(selected, options []string) []string {
	kept := make([]string, 0, len(selected))
	for _, v := range selected {
		if slices.Contains(options, v) {
			kept = append(kept, v)
		}
	}
	return kept
}

func regionOf(r models.Record) string { return r.Region }
func stateOf(r models.Record) string  { return r.State }
func cityOf(r models.Record) string   { return r.City }

func keepMembers(records []models.Record, field func(models.Record) string, allowed []string) []models.Record {
	if len(allowed) == 0 {
		return records
	}

	set := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		set[v] = struct{}{}
	}

	kept := make([]models.Record, 0, len(records))
	for _, r := range records {
		if _, ok := set[field(r)]; ok {
			kept = append(kept, r)
		}
	}
	return kept
}

// distinct lists field values in order of first appearance.
func distinct(records []models.Record, field func(models.Record) string) []string {
	seen := make(map[string]struct{})
	values := []string{}
	for _, r := range records {
		v := field(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}

func dateOf(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
