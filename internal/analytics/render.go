package analytics

import (
	"superstore-dashboard/internal/dataset"
	"superstore-dashboard/internal/models"
)

const (
	SummaryCategory         = "category"
	SummaryRegion           = "region"
	SummaryTimeSeries       = "time-series"
	SummaryTreemap          = "treemap"
	SummarySegment          = "segment"
	SummarySample           = "sample"
	SummaryMonthSubCategory = "month-subcategory"
	SummaryScatter          = "scatter"
	SummaryPreview          = "preview"
	SummarySubCategory      = "subcategory"
	SummaryStateSales       = "state-sales"
	SummaryTopCustomers     = "top-customers"
	SummaryShipMode         = "ship-mode"
	SummaryProfitMargin     = "profit-margin"
)

const (
	topCustomers = 10
	sampleRows   = 5
	previewRows  = 500
)

// Dashboard is everything one rendering pass produces. Records holds the
// filtered rows for the full-table download and is not serialised.
type Dashboard struct {
	Selection   models.Selection     `json:"selection"`
	Options     models.FilterOptions `json:"options"`
	RecordCount int                  `json:"record_count"`
	Totals      models.Totals        `json:"totals"`
	Summaries   []*models.Summary    `json:"summaries"`
	Tree        *models.TreeNode     `json:"tree"`
	Header      []string             `json:"-"`
	Records     []models.Record      `json:"-"`
}

func (d *Dashboard) Summary(name string) (*models.Summary, bool) {
	for _, s := range d.Summaries {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Render runs the filter stage and every aggregate over ds. It reads ds only
// and shares no state between calls.
func Render(ds *dataset.Dataset, sel models.Selection) *Dashboard {
	filtered := Filter(ds, sel)
	records := filtered.Records

	var (
		all    []models.Record
		header []string
	)
	if ds != nil {
		all = ds.Records
		header = ds.Header
	}
	inRange := filtered.InRange

	tree := Rollup(records, []KeyFunc{regionOf, categoryOf, subCategoryOf}, Sales)

	return &Dashboard{
		Selection:   filtered.Selection,
		Options:     filtered.Options,
		RecordCount: len(records),
		Totals:      Total(records),
		Tree:        tree,
		Header:      header,
		Records:     records,
		Summaries: []*models.Summary{
			categorySales(records),
			regionSales(records),
			timeSeries(records),
			treemap(tree),
			segmentSales(records),
			sample(inRange),
			monthSubCategory(all),
			scatter(records),
			preview(header, records),
			subCategorySalesProfit(records),
			stateSales(records),
			topCustomerSales(records),
			shipModeSales(records),
			profitMargin(records),
		},
	}
}

func categoryOf(r models.Record) string    { return r.Category }
func subCategoryOf(r models.Record) string { return r.SubCategory }
func segmentOf(r models.Record) string     { return r.Segment }
func shipModeOf(r models.Record) string    { return r.ShipMode }
func customerOf(r models.Record) string    { return r.CustomerName }

func groupTable(keyCol string, groups []Group) ([]string, []models.Row) {
	rows := make([]models.Row, len(groups))
	for i, g := range groups {
		rows[i] = models.Row{g.Key, g.Value}
	}
	return []string{keyCol, "Sales"}, rows
}

func pieSummary(name, title, file, keyCol string, groups []Group) *models.Summary {
	columns, rows := groupTable(keyCol, groups)
	return &models.Summary{
		Name:     name,
		Title:    title,
		File:     file,
		Chart:    models.ChartPie,
		Bindings: models.Bindings{Names: keyCol, Values: "Sales"},
		Columns:  columns,
		Rows:     rows,
	}
}

func categorySales(records []models.Record) *models.Summary {
	columns, rows := groupTable("Category", GroupSum(records, categoryOf, Sales))
	return &models.Summary{
		Name:     SummaryCategory,
		Title:    "Category wise Sales",
		File:     "Category.csv",
		Chart:    models.ChartBar,
		Bindings: models.Bindings{X: "Category", Y: []string{"Sales"}, Text: "Sales"},
		Columns:  columns,
		Rows:     rows,
	}
}

func regionSales(records []models.Record) *models.Summary {
	return pieSummary(SummaryRegion, "Region wise Sales", "Region.csv", "Region", GroupSum(records, regionOf, Sales))
}

func segmentSales(records []models.Record) *models.Summary {
	return pieSummary(SummarySegment, "Segment wise Sales", "Segment.csv", "Segment", GroupSum(records, segmentOf, Sales))
}

func shipModeSales(records []models.Record) *models.Summary {
	return pieSummary(SummaryShipMode, "Sales by Shipping Mode", "ShipMode.csv", "Ship Mode", GroupSum(records, shipModeOf, Sales))
}

func timeSeries(records []models.Record) *models.Summary {
	columns, rows := groupTable("month_year", MonthlySeries(records, Sales))
	return &models.Summary{
		Name:     SummaryTimeSeries,
		Title:    "Time Series Analysis",
		File:     "TimeSeries.csv",
		Chart:    models.ChartLine,
		Bindings: models.Bindings{X: "month_year", Y: []string{"Sales"}},
		Columns:  columns,
		Rows:     rows,
	}
}

func treemap(tree *models.TreeNode) *models.Summary {
	paths, values := Leaves(tree)
	rows := make([]models.Row, len(paths))
	for i, p := range paths {
		rows[i] = models.Row{p[0], p[1], p[2], values[i]}
	}
	return &models.Summary{
		Name:  SummaryTreemap,
		Title: "Hierarchical view of Sales using TreeMap",
		File:  "TreeMap.csv",
		Chart: models.ChartTreemap,
		Bindings: models.Bindings{
			Path:   []string{"Region", "Category", "Sub-Category"},
			Values: "Sales",
			Color:  "Sub-Category",
		},
		Columns: []string{"Region", "Category", "Sub-Category", "Sales"},
		Rows:    rows,
	}
}

// sample shows the head of the rows inside the date range, ahead of the
// region, state and city steps.
func sample(inRange []models.Record) *models.Summary {
	n := min(sampleRows, len(inRange))
	rows := make([]models.Row, n)
	for i, r := range inRange[:n] {
		rows[i] = models.Row{r.Region, r.State, r.City, r.Category, r.Sales, r.Profit, float64(r.Quantity)}
	}
	return &models.Summary{
		Name:    SummarySample,
		Title:   "Summary Table",
		File:    "Sample.csv",
		Chart:   models.ChartTable,
		Columns: []string{"Region", "State", "City", "Category", "Sales", "Profit", "Quantity"},
		Rows:    rows,
	}
}

// monthSubCategory pivots over the unfiltered dataset.
func monthSubCategory(all []models.Record) *models.Summary {
	months, pivot := MonthPivot(all, subCategoryOf, Sales)
	columns := append([]string{"Sub-Category"}, months...)

	rows := make([]models.Row, len(pivot))
	for i, p := range pivot {
		row := make(models.Row, 0, len(columns))
		row = append(row, p.Key)
		for _, v := range p.Values {
			if v == nil {
				row = append(row, nil)
				continue
			}
			row = append(row, *v)
		}
		rows[i] = row
	}

	return &models.Summary{
		Name:    SummaryMonthSubCategory,
		Title:   "Month wise sub-Category Table",
		File:    "MonthSubCategory.csv",
		Chart:   models.ChartTable,
		Columns: columns,
		Rows:    rows,
	}
}

func scatter(records []models.Record) *models.Summary {
	rows := make([]models.Row, len(records))
	for i, r := range records {
		rows[i] = models.Row{r.Sales, r.Profit, float64(r.Quantity)}
	}
	return &models.Summary{
		Name:     SummaryScatter,
		Title:    "Relationship between Sales and Profits",
		File:     "Scatter.csv",
		Chart:    models.ChartScatter,
		Bindings: models.Bindings{X: "Sales", Y: []string{"Profit"}, Size: "Quantity"},
		Columns:  []string{"Sales", "Profit", "Quantity"},
		Rows:     rows,
	}
}

// preview echoes the source columns of the first filtered rows.
func preview(header []string, records []models.Record) *models.Summary {
	n := min(previewRows, len(records))
	rows := make([]models.Row, n)
	for i, r := range records[:n] {
		row := make(models.Row, len(header))
		for j := range header {
			if j < len(r.Raw) {
				row[j] = r.Raw[j]
			} else {
				row[j] = ""
			}
		}
		rows[i] = row
	}
	columns := append([]string(nil), header...)
	if columns == nil {
		columns = []string{}
	}
	return &models.Summary{
		Name:    SummaryPreview,
		Title:   "View Data",
		File:    "Preview.csv",
		Chart:   models.ChartTable,
		Columns: columns,
		Rows:    rows,
	}
}

func subCategorySalesProfit(records []models.Record) *models.Summary {
	groups := GroupSumMulti(records, subCategoryOf, Sales, Profit)
	rows := make([]models.Row, len(groups))
	for i, g := range groups {
		rows[i] = models.Row{g.Key, g.Values[0], g.Values[1]}
	}
	return &models.Summary{
		Name:     SummarySubCategory,
		Title:    "Sales and Profit by Sub-Category",
		File:     "SubCategory.csv",
		Chart:    models.ChartGroupedBar,
		Bindings: models.Bindings{X: "Sub-Category", Y: []string{"Sales", "Profit"}},
		Columns:  []string{"Sub-Category", "Sales", "Profit"},
		Rows:     rows,
	}
}

func stateSales(records []models.Record) *models.Summary {
	states := GeoRollup(records)
	rows := make([]models.Row, len(states))
	for i, s := range states {
		var code models.Cell
		if s.Code != nil {
			code = *s.Code
		}
		rows[i] = models.Row{s.State, code, s.Sales}
	}
	return &models.Summary{
		Name:     SummaryStateSales,
		Title:    "Sales Distribution by State",
		File:     "StateSales.csv",
		Chart:    models.ChartChoropleth,
		Bindings: models.Bindings{Location: "Code", Color: "Sales"},
		Columns:  []string{"State", "Code", "Sales"},
		Rows:     rows,
	}
}

func topCustomerSales(records []models.Record) *models.Summary {
	columns, rows := groupTable("Customer Name", TopN(GroupSum(records, customerOf, Sales), topCustomers))
	return &models.Summary{
		Name:     SummaryTopCustomers,
		Title:    "Top 10 Customers by Sales",
		File:     "TopCustomers.csv",
		Chart:    models.ChartBar,
		Bindings: models.Bindings{X: "Customer Name", Y: []string{"Sales"}},
		Columns:  columns,
		Rows:     rows,
	}
}

func profitMargin(records []models.Record) *models.Summary {
	groups := GroupRatio(records, categoryOf, Profit, Sales, 100)
	rows := make([]models.Row, len(groups))
	for i, g := range groups {
		var v models.Cell
		if g.Value != nil {
			v = *g.Value
		}
		rows[i] = models.Row{g.Key, v}
	}
	return &models.Summary{
		Name:     SummaryProfitMargin,
		Title:    "Profit Margin by Category",
		File:     "ProfitMargin.csv",
		Chart:    models.ChartBar,
		Bindings: models.Bindings{X: "Category", Y: []string{"Profit Margin (%)"}},
		Columns:  []string{"Category", "Profit Margin (%)"},
		Rows:     rows,
	}
}
