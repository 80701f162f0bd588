// Package export serialises summaries for download: delimited text,
// spreadsheets, and GeoJSON for map renderers.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"superstore-dashboard/internal/models"
)

const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// WriteCSV writes the header row and one line per summary row. Floats keep
// full precision so the file parses back to the same values; nil cells are
// left empty.
func WriteCSV(w io.Writer, s *models.Summary) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(s.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	line := make([]string, len(s.Columns))
	for i, row := range s.Rows {
		for j := range line {
			line[j] = ""
			if j < len(row) {
				line[j] = FormatCell(row[j])
			}
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteRecordsCSV writes the source columns of records, in header order.
func WriteRecordsCSV(w io.Writer, header []string, records []models.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	line := make([]string, len(header))
	for i, r := range records {
		for j := range line {
			line[j] = ""
			if j < len(r.Raw) {
				line[j] = r.Raw[j]
			}
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func FormatCell(c models.Cell) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}
