package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

const testHeader = "Row ID,Order ID,Order Date,Ship Mode,Customer Name,Segment,Country,City,State,Region,Category,Sub-Category,Sales,Quantity,Profit"

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_CSV(t *testing.T) {
	csv := testHeader + `
1,CA-1,11/8/2016,Second Class,Claire Gute,Consumer,United States,Henderson,Kentucky,South,Furniture,Bookcases,261.96,2,41.9136
2,CA-2,2016-11-08,Second Class,Claire Gute,Consumer,United States,Henderson,Kentucky,South,Furniture,Chairs,"1,731.80",3,-219.58
3,CA-3,6/12/16,Standard Class,Darrin Van Huff,Corporate,United States,Los Angeles,California,West,Office Supplies,Labels,$14.62,2.0,6.8714
`
	path := writeFile(t, "Superstore.csv", []byte(csv))

	ds, err := Load(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if ds.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", ds.Len())
	}

	first := ds.Records[0]
	if !first.OrderDate.Equal(time.Date(2016, 11, 8, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("OrderDate = %v", first.OrderDate)
	}
	if first.State != "Kentucky" || first.SubCategory != "Bookcases" || first.CustomerName != "Claire Gute" {
		t.Errorf("unexpected record: %+v", first)
	}
	if first.Sales != 261.96 || first.Quantity != 2 || first.Profit != 41.9136 {
		t.Errorf("unexpected measures: sales=%v qty=%d profit=%v", first.Sales, first.Quantity, first.Profit)
	}

	if ds.Records[1].Sales != 1731.80 || ds.Records[1].Profit != -219.58 {
		t.Errorf("thousands separator not handled: %+v", ds.Records[1])
	}
	if ds.Records[2].Sales != 14.62 || ds.Records[2].Quantity != 2 {
		t.Errorf("currency or float quantity not handled: %+v", ds.Records[2])
	}

	if !ds.MinDate.Equal(time.Date(2016, 6, 12, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("MinDate = %v", ds.MinDate)
	}
	if !ds.MaxDate.Equal(time.Date(2016, 11, 8, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("MaxDate = %v", ds.MaxDate)
	}
	if len(first.Raw) != len(ds.Header) || first.Raw[1] != "CA-1" {
		t.Errorf("Raw = %v", first.Raw)
	}
}

func TestLoad_Errors(t *testing.T) {
	row := "1,CA-1,%s,Second Class,Claire Gute,Consumer,United States,Henderson,Kentucky,South,Furniture,Bookcases,%s,2,41.91"

	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, err error)
	}{
		{
			name:    "empty file",
			content: "",
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrEmptyFile) {
					t.Errorf("error = %v, want ErrEmptyFile", err)
				}
			},
		},
		{
			name:    "header only",
			content: testHeader + "\n",
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrNoRecords) {
					t.Errorf("error = %v, want ErrNoRecords", err)
				}
			},
		},
		{
			name:    "missing columns",
			content: "Order Date,Region,Sales\n2016-01-01,West,1\n",
			check: func(t *testing.T, err error) {
				var schemaErr *SchemaError
				if !errors.As(err, &schemaErr) {
					t.Fatalf("error = %v, want SchemaError", err)
				}
				if len(schemaErr.Missing) != 9 {
					t.Errorf("Missing = %v, want 9 columns", schemaErr.Missing)
				}
			},
		},
		{
			name:    "bad date",
			content: testHeader + "\n" + fmt.Sprintf(row, "2016-01-01", "1") + "\n" + fmt.Sprintf(row, "not-a-date", "1"),
			check: func(t *testing.T, err error) {
				var rowErr *RowError
				if !errors.As(err, &rowErr) {
					t.Fatalf("error = %v, want RowError", err)
				}
				if rowErr.Line != 3 || rowErr.Column != "Order Date" {
					t.Errorf("RowError = %+v, want line 3 Order Date", rowErr)
				}
			},
		},
		{
			name:    "bad sales",
			content: testHeader + "\n" + fmt.Sprintf(row, "2016-01-01", "abc"),
			check: func(t *testing.T, err error) {
				var rowErr *RowError
				if !errors.As(err, &rowErr) || rowErr.Column != "Sales" {
					t.Errorf("error = %v, want Sales RowError", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "data.csv", []byte(tt.content))
			_, err := Load(context.Background(), path, Options{})
			if err == nil {
				t.Fatal("Load() should fail")
			}
			tt.check(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := Load(context.Background(), "data.parquet", Options{})
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("error = %v, want ErrUnsupported", err)
	}
}

func TestLoad_Spreadsheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet("Orders"); err != nil {
		t.Fatal(err)
	}
	header := strings.Split(testHeader, ",")
	hdr := make([]any, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := f.SetSheetRow("Orders", "A1", &hdr); err != nil {
		t.Fatal(err)
	}
	row := []any{1, "CA-1", 41640, "First Class", "Ken Black", "Corporate", "United States", "Fremont", "Nebraska", "Central", "Technology", "Phones", 371.168, 4, 41.9136}
	if err := f.SetSheetRow("Orders", "A2", &row); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "Superstore.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	ds, err := Load(context.Background(), path, Options{Sheet: "Orders"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ds.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", ds.Len())
	}

	rec := ds.Records[0]
	if !rec.OrderDate.Equal(time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("OrderDate = %v, want 2014-01-01", rec.OrderDate)
	}
	if rec.Sales != 371.168 || rec.Quantity != 4 || rec.State != "Nebraska" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.Raw[2] != "2014-01-01" {
		t.Errorf("serial order date should be rewritten in Raw, got %q", rec.Raw[2])
	}
}

func TestReadCSV_Windows1252(t *testing.T) {
	// "Montréal" with é encoded as the single byte 0xE9.
	content := []byte(testHeader + "\n1,CA-1,2016-01-01,First Class,Ana,Consumer,United States,Montr\xe9al,Quebec,East,Technology,Phones,10,1,2\n")

	ds, err := ReadCSV(context.Background(), strings.NewReader(string(content)), Options{})
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if got := ds.Records[0].City; got != "Montréal" {
		t.Errorf("City = %q, want Montréal", got)
	}
}

func TestParse_PreservesOrderAcrossBatches(t *testing.T) {
	rows := [][]string{strings.Split(testHeader, ",")}
	n := batchSize*3 + 17
	for i := 0; i < n; i++ {
		rows = append(rows, []string{
			fmt.Sprint(i), "CA", "2016-01-01", "First Class", fmt.Sprintf("Customer %d", i), "Consumer",
			"United States", "City", "Texas", "Central", "Furniture", "Chairs", fmt.Sprint(i), "1", "0",
		})
	}
	rows = append(rows, []string{"", "", ""})

	ds, err := Parse(context.Background(), rows, Options{Workers: 4})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if ds.Len() != n {
		t.Fatalf("Len() = %d, want %d", ds.Len(), n)
	}
	for i, r := range ds.Records {
		if r.Sales != float64(i) {
			t.Fatalf("record %d has sales %v, order not preserved", i, r.Sales)
		}
	}
}

func TestResolveColumns_Normalization(t *testing.T) {
	header := []string{"\ufefforder_date", "REGION", "state", "City", "category", "SubCategory", "segment", "ship mode", "customer-name", "sales", "profit", "quantity"}
	cols, err := resolveColumns(header)
	if err != nil {
		t.Fatalf("resolveColumns() error = %v", err)
	}
	if cols[ColSubCategory] != 5 || cols[ColOrderDate] != 0 {
		t.Errorf("unexpected column index: %v", cols)
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2017, 3, 4, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2017-03-04", "3/4/2017", "03/04/2017", "3/4/17", "2017/03/04", "2017-03-04 13:45:00", "42798"} {
		t.Run(in, func(t *testing.T) {
			got, err := parseDate(in)
			if err != nil {
				t.Fatalf("parseDate(%q) error = %v", in, err)
			}
			if !got.Equal(want) {
				t.Errorf("parseDate(%q) = %v, want %v", in, got, want)
			}
		})
	}

	if _, err := parseDate("yesterday"); err == nil {
		t.Error("parseDate should reject free text")
	}
}
