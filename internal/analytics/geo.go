package analytics

import "superstore-dashboard/internal/models"

var stateAbbreviations = map[string]string{
	"Alabama": "AL", "Alaska": "AK", "Arizona": "AZ", "Arkansas": "AR", "California": "CA",
	"Colorado": "CO", "Connecticut": "CT", "Delaware": "DE", "Florida": "FL", "Georgia": "GA",
	"Hawaii": "HI", "Idaho": "ID", "Illinois": "IL", "Indiana": "IN", "Iowa": "IA",
	"Kansas": "KS", "Kentucky": "KY", "Louisiana": "LA", "Maine": "ME", "Maryland": "MD",
	"Massachusetts": "MA", "Michigan": "MI", "Minnesota": "MN", "Mississippi": "MS", "Missouri": "MO",
	"Montana": "MT", "Nebraska": "NE", "Nevada": "NV", "New Hampshire": "NH", "New Jersey": "NJ",
	"New Mexico": "NM", "New York": "NY", "North Carolina": "NC", "North Dakota": "ND", "Ohio": "OH",
	"Oklahoma": "OK", "Oregon": "OR", "Pennsylvania": "PA", "Rhode Island": "RI", "South Carolina": "SC",
	"South Dakota": "SD", "Tennessee": "TN", "Texas": "TX", "Utah": "UT", "Vermont": "VT",
	"Virginia": "VA", "Washington": "WA", "West Virginia": "WV", "Wisconsin": "WI", "Wyoming": "WY",
}

// StateCode returns the two-letter postal code for a full US state name.
func StateCode(state string) (string, bool) {
	code, ok := stateAbbreviations[state]
	return code, ok
}

type StateSales struct {
	State string
	Code  *string
	Sales float64
}

// GeoRollup sums sales per state and attaches the postal code. States the
// lookup does not know (District of Columbia, typos) keep a nil code.
func GeoRollup(records []models.Record) []StateSales {
	groups := GroupSum(records, stateOf, Sales)
	out := make([]StateSales, len(groups))
	for i, g := range groups {
		out[i] = StateSales{State: g.Key, Sales: g.Value}
		if code, ok := StateCode(g.Key); ok {
			out[i].Code = &code
		}
	}
	return out
}
