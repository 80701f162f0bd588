package models

type ChartKind string

const (
	ChartBar        ChartKind = "bar"
	ChartGroupedBar ChartKind = "grouped_bar"
	ChartPie        ChartKind = "pie"
	ChartLine       ChartKind = "line"
	ChartTreemap    ChartKind = "treemap"
	ChartScatter    ChartKind = "scatter"
	ChartChoropleth ChartKind = "choropleth"
	ChartTable      ChartKind = "table"
)

// Bindings tells the renderer which columns feed which visual channel.
type Bindings struct {
	X        string   `json:"x,omitempty"`
	Y        []string `json:"y,omitempty"`
	Names    string   `json:"names,omitempty"`
	Values   string   `json:"values,omitempty"`
	Size     string   `json:"size,omitempty"`
	Location string   `json:"location,omitempty"`
	Color    string   `json:"color,omitempty"`
	Path     []string `json:"path,omitempty"`
	Text     string   `json:"text,omitempty"`
}

// Cell is a string, a float64, or nil.
type Cell = any

type Row []Cell

type Summary struct {
	Name     string    `json:"name"`
	Title    string    `json:"title"`
	File     string    `json:"file"`
	Chart    ChartKind `json:"chart"`
	Bindings Bindings  `json:"bindings"`
	Columns  []string  `json:"columns"`
	Rows     []Row     `json:"rows"`
}

func (s *Summary) Len() int {
	return len(s.Rows)
}

// Column returns the index of the named column, or -1.
func (s *Summary) Column(name string) int {
	for i, c := range s.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

type TreeNode struct {
	Name     string      `json:"name"`
	Value    float64     `json:"value"`
	Children []*TreeNode `json:"children,omitempty"`
}
