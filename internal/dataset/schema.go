package dataset

import (
	"fmt"
	"strings"
)

// Column names as they appear in the superstore export.
const (
	ColOrderDate    = "Order Date"
	ColRegion       = "Region"
	ColState        = "State"
	ColCity         = "City"
	ColCategory     = "Category"
	ColSubCategory  = "Sub-Category"
	ColSegment      = "Segment"
	ColShipMode     = "Ship Mode"
	ColCustomerName = "Customer Name"
	ColSales        = "Sales"
	ColProfit       = "Profit"
	ColQuantity     = "Quantity"
)

var requiredColumns = []string{
	ColOrderDate,
	ColRegion,
	ColState,
	ColCity,
	ColCategory,
	ColSubCategory,
	ColSegment,
	ColShipMode,
	ColCustomerName,
	ColSales,
	ColProfit,
	ColQuantity,
}

// SchemaError lists every required column the header lacks.
type SchemaError struct {
	Missing []string
	Header  []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataset is missing required columns: %s", strings.Join(e.Missing, ", "))
}

// RowError points at the cell that could not be parsed. Line is the 1-based
// line of the source file, header included.
type RowError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d, column %q: cannot parse %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

type columnIndex map[string]int

// resolveColumns maps each required column to its position in header.
// Matching ignores case, spaces, hyphens and underscores, so "sub_category"
// and "SubCategory" both bind to Sub-Category.
func resolveColumns(header []string) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		key := normalizeColumn(name)
		if _, seen := positions[key]; !seen {
			positions[key] = i
		}
	}

	idx := make(columnIndex, len(requiredColumns))
	var missing []string
	for _, col := range requiredColumns {
		pos, ok := positions[normalizeColumn(col)]
		if !ok {
			missing = append(missing, col)
			continue
		}
		idx[col] = pos
	}

	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing, Header: header}
	}
	return idx, nil
}

func normalizeColumn(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch r {
		case ' ', '-', '_':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
