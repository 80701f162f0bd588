package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/charmap"

	"superstore-dashboard/internal/models"
)

const batchSize = 2048

var (
	ErrEmptyFile   = errors.New("dataset file is empty")
	ErrNoRecords   = errors.New("dataset has a header but no records")
	ErrUnsupported = errors.New("unsupported dataset format")
)

type Options struct {
	// Sheet selects the worksheet of a spreadsheet; empty means the first one.
	Sheet string
	// Workers bounds the row-parsing pool; zero means GOMAXPROCS.
	Workers int
}

// Load reads the dataset at path. CSV and text files go through encoding/csv,
// spreadsheets through excelize. Any schema or cell error fails the whole load.
func Load(ctx context.Context, path string, opts Options) (*Dataset, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		rows, err = readCSVFile(path)
	case ".xlsx", ".xlsm":
		rows, err = readSpreadsheet(path, opts.Sheet)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	return Parse(ctx, rows, opts)
}

// ReadCSV parses delimited text into a Dataset. Input that is not valid UTF-8
// is decoded as Windows-1252, the encoding the public superstore export ships in.
func ReadCSV(ctx context.Context, r io.Reader, opts Options) (*Dataset, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	return Parse(ctx, rows, opts)
}

func readCSVFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return readCSV(f)
}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	if !utf8.Valid(data) {
		data, err = charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decode dataset: %w", err)
		}
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}

func readSpreadsheet(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyFile
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// Parse validates the header row and converts the remaining rows to records.
// Batches are parsed concurrently; output keeps the source row order.
func Parse(ctx context.Context, rows [][]string, opts Options) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	body := make([][]string, 0, len(rows)-1)
	lines := make([]int, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		body = append(body, row)
		lines = append(lines, i+2)
	}
	if len(body) == 0 {
		return nil, ErrNoRecords
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	records := make([]models.Record, len(body))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for start := 0; start < len(body); start += batchSize {
		end := min(start+batchSize, len(body))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				rec, err := parseRecord(body[i], len(header), cols, header)
				if err != nil {
					var rowErr *RowError
					if errors.As(err, &rowErr) {
						rowErr.Line = lines[i]
					}
					return err
				}
				records[i] = rec
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return New(header, records), nil
}

func parseRecord(row []string, width int, cols columnIndex, header []string) (models.Record, error) {
	raw := make([]string, width)
	copy(raw, row)

	cell := func(col string) string {
		return strings.TrimSpace(raw[cols[col]])
	}
	fail := func(col string, err error) error {
		return &RowError{Column: header[cols[col]], Value: raw[cols[col]], Err: err}
	}

	orderDate, err := parseDate(cell(ColOrderDate))
	if err != nil {
		return models.Record{}, fail(ColOrderDate, err)
	}
	if _, serialErr := strconv.ParseFloat(cell(ColOrderDate), 64); serialErr == nil {
		raw[cols[ColOrderDate]] = orderDate.Format(time.DateOnly)
	}

	sales, err := parseAmount(cell(ColSales))
	if err != nil {
		return models.Record{}, fail(ColSales, err)
	}

	profit, err := parseAmount(cell(ColProfit))
	if err != nil {
		return models.Record{}, fail(ColProfit, err)
	}

	quantity, err := parseQuantity(cell(ColQuantity))
	if err != nil {
		return models.Record{}, fail(ColQuantity, err)
	}

	return models.Record{
		OrderDate:    orderDate,
		Region:       cell(ColRegion),
		State:        cell(ColState),
		City:         cell(ColCity),
		Category:     cell(ColCategory),
		SubCategory:  cell(ColSubCategory),
		Segment:      cell(ColSegment),
		ShipMode:     cell(ColShipMode),
		CustomerName: cell(ColCustomerName),
		Sales:        sales,
		Profit:       profit,
		Quantity:     quantity,
		Raw:          raw,
	}, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
