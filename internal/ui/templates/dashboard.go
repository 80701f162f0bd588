// Package templates renders the single dashboard page. The page is a shell:
// filter widgets, KPI strip and one chart slot per summary. Everything inside
// it is filled by datastar patches from /sse/dashboard.
package templates

import (
	"encoding/json"
	"strings"
)

const defaultTitle = "SuperStore Sales Dashboard"

// Panel is one chart slot on the page.
type Panel struct {
	Name  string
	Title string
	File  string
	Wide  bool
}

type PageData struct {
	Title  string
	Start  string
	End    string
	Panels []Panel
}

// pageSignals seeds the datastar store. _dashboard is local to the browser:
// datastar does not send underscore-prefixed signals with @get.
type pageSignals struct {
	Start     string   `json:"start"`
	End       string   `json:"end"`
	Regions   []string `json:"regions"`
	States    []string `json:"states"`
	Cities    []string `json:"cities"`
	Dashboard any      `json:"_dashboard"`
}

type filterField struct {
	Label string
	ID    string
}

var filterFields = []filterField{
	{Label: "Pick your Region", ID: "region-select"},
	{Label: "Pick the State", ID: "state-select"},
	{Label: "Pick the City", ID: "city-select"},
}

var exportFormats = []string{"csv", "xlsx"}

func pageTitle(data PageData) string {
	if data.Title == "" {
		return defaultTitle
	}
	return data.Title
}

func initialSignals(data PageData) (string, error) {
	b, err := json.Marshal(pageSignals{
		Start:   data.Start,
		End:     data.End,
		Regions: []string{},
		States:  []string{},
		Cities:  []string{},
	})
	return string(b), err
}

// exportHref is a datastar expression that appends the current filter to a
// download link.
func exportHref(file string) string {
	return "'/export/" + file + "?' + filterQuery($start, $end, $regions, $states, $cities)"
}

func exportFile(p Panel, ext string) string {
	return p.Name + "." + ext
}

func formatLabel(ext string) string {
	return strings.ToUpper(ext)
}
