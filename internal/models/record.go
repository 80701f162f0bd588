package models

import "time"

type Record struct {
	OrderDate    time.Time
	Region       string
	State        string
	City         string
	Category     string
	SubCategory  string
	Segment      string
	ShipMode     string
	CustomerName string
	Sales        float64
	Profit       float64
	Quantity     int

	// Raw holds every source cell in header order, for the full-table export.
	Raw []string
}

// Selection is the filter state of one rendering pass. A zero Start or End
// means the dataset's own bound; an empty set means no restriction.
type Selection struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Regions []string  `json:"regions"`
	States  []string  `json:"states"`
	Cities  []string  `json:"cities"`
}

type FilterOptions struct {
	Regions []string `json:"regions"`
	States  []string `json:"states"`
	Cities  []string `json:"cities"`
}

type Totals struct {
	Sales    float64 `json:"sales"`
	Profit   float64 `json:"profit"`
	Quantity int     `json:"quantity"`
}
