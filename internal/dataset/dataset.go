// Package dataset loads the superstore transactions export into an in-memory
// record table and validates it against the fixed schema.
package dataset

import (
	"time"

	"superstore-dashboard/internal/models"
)

// Dataset is the loaded record table. It is never mutated after load and may
// be shared between concurrent render passes.
type Dataset struct {
	Header  []string
	Records []models.Record
	MinDate time.Time
	MaxDate time.Time
}

// New builds a Dataset from already parsed records, computing the date bounds.
func New(header []string, records []models.Record) *Dataset {
	ds := &Dataset{
		Header:  header,
		Records: records,
	}
	for i, r := range records {
		if i == 0 || r.OrderDate.Before(ds.MinDate) {
			ds.MinDate = r.OrderDate
		}
		if i == 0 || r.OrderDate.After(ds.MaxDate) {
			ds.MaxDate = r.OrderDate
		}
	}
	return ds
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}
