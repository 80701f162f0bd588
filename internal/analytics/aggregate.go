package analytics

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"superstore-dashboard/internal/models"
)

type (
	KeyFunc     func(models.Record) string
	MeasureFunc func(models.Record) float64
)

func Sales(r models.Record) float64    { return r.Sales }
func Profit(r models.Record) float64   { return r.Profit }
func Quantity(r models.Record) float64 { return float64(r.Quantity) }

type Group struct {
	Key   string
	Value float64
}

type MultiGroup struct {
	Key    string
	Values []float64
}

// RatioGroup carries a nil Value when the group's denominator summed to zero.
type RatioGroup struct {
	Key   string
	Value *float64
}

type PivotRow struct {
	Key    string
	Values []*float64
}

// GroupSum sums measure per distinct key. Groups come back in ascending key
// order.
func GroupSum(records []models.Record, key KeyFunc, measure MeasureFunc) []Group {
	multi := GroupSumMulti(records, key, measure)
	groups := make([]Group, len(multi))
	for i, g := range multi {
		groups[i] = Group{Key: g.Key, Value: g.Values[0]}
	}
	return groups
}

func GroupSumMulti(records []models.Record, key KeyFunc, measures ...MeasureFunc) []MultiGroup {
	index := make(map[string]int)
	groups := []MultiGroup{}

	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, MultiGroup{Key: k, Values: make([]float64, len(measures))})
		}
		for m, measure := range measures {
			groups[i].Values[m] += measure(r)
		}
	}

	slices.SortFunc(groups, func(a, b MultiGroup) int {
		return strings.Compare(a.Key, b.Key)
	})
	return groups
}

// GroupRatio computes sum(num)/sum(den)*scale per key.
func GroupRatio(records []models.Record, key KeyFunc, num, den MeasureFunc, scale float64) []RatioGroup {
	multi := GroupSumMulti(records, key, num, den)
	out := make([]RatioGroup, len(multi))
	for i, g := range multi {
		out[i] = RatioGroup{Key: g.Key}
		if g.Values[1] != 0 {
			v := g.Values[0] / g.Values[1] * scale
			out[i].Value = &v
		}
	}
	return out
}

// TopN orders groups by value, largest first, and keeps at most n. Equal
// values keep their incoming order, which for GroupSum output is by key.
func TopN(groups []Group, n int) []Group {
	sorted := slices.Clone(groups)
	slices.SortStableFunc(sorted, func(a, b Group) int {
		return cmp.Compare(b.Value, a.Value)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// MonthlySeries sums sales per calendar month of the order date, labelled
// like "2014-Jan" and ordered chronologically.
func MonthlySeries(records []models.Record, measure MeasureFunc) []Group {
	type bucket struct {
		month time.Time
		value float64
	}

	index := make(map[time.Time]int)
	buckets := []bucket{}
	for _, r := range records {
		m := time.Date(r.OrderDate.Year(), r.OrderDate.Month(), 1, 0, 0, 0, 0, time.UTC)
		i, ok := index[m]
		if !ok {
			i = len(buckets)
			index[m] = i
			buckets = append(buckets, bucket{month: m})
		}
		buckets[i].value += measure(r)
	}

	slices.SortFunc(buckets, func(a, b bucket) int {
		return a.month.Compare(b.month)
	})

	out := make([]Group, len(buckets))
	for i, b := range buckets {
		out[i] = Group{Key: b.month.Format("2006-Jan"), Value: b.value}
	}
	return out
}

// MonthPivot averages measure per key and calendar month name. Columns are
// the months that occur, January first; a key with no rows in a month gets nil.
func MonthPivot(records []models.Record, key KeyFunc, measure MeasureFunc) ([]string, []PivotRow) {
	type cell struct {
		sum   float64
		count int
	}

	var present [13]bool
	cells := make(map[string]*[13]cell)
	for _, r := range records {
		k := key(r)
		row, ok := cells[k]
		if !ok {
			row = &[13]cell{}
			cells[k] = row
		}
		m := r.OrderDate.Month()
		row[m].sum += measure(r)
		row[m].count++
		present[m] = true
	}

	var months []time.Month
	columns := []string{}
	for m := time.January; m <= time.December; m++ {
		if present[m] {
			months = append(months, m)
			columns = append(columns, m.String())
		}
	}

	keys := make([]string, 0, len(cells))
	for k := range cells {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	rows := make([]PivotRow, len(keys))
	for i, k := range keys {
		rows[i] = PivotRow{Key: k, Values: make([]*float64, len(months))}
		for j, m := range months {
			c := cells[k][m]
			if c.count == 0 {
				continue
			}
			mean := c.sum / float64(c.count)
			rows[i].Values[j] = &mean
		}
	}
	return columns, rows
}

// Rollup builds a tree with one level per key function, each node holding
// the measure summed over its subtree. Children are ordered by name.
func Rollup(records []models.Record, levels []KeyFunc, measure MeasureFunc) *models.TreeNode {
	root := &models.TreeNode{Name: "Total"}
	index := map[*models.TreeNode]map[string]*models.TreeNode{}

	for _, r := range records {
		v := measure(r)
		node := root
		node.Value += v
		for _, level := range levels {
			name := level(r)
			children, ok := index[node]
			if !ok {
				children = make(map[string]*models.TreeNode)
				index[node] = children
			}
			child, ok := children[name]
			if !ok {
				child = &models.TreeNode{Name: name}
				children[name] = child
				node.Children = append(node.Children, child)
			}
			child.Value += v
			node = child
		}
	}

	sortTree(root)
	return root
}

func sortTree(n *models.TreeNode) {
	slices.SortFunc(n.Children, func(a, b *models.TreeNode) int {
		return strings.Compare(a.Name, b.Name)
	})
	for _, c := range n.Children {
		sortTree(c)
	}
}

// Leaves walks the tree depth first and returns the path to every leaf below
// the root together with its value.
func Leaves(root *models.TreeNode) ([][]string, []float64) {
	var (
		paths  [][]string
		values []float64
	)
	var walk func(n *models.TreeNode, path []string)
	walk = func(n *models.TreeNode, path []string) {
		if len(n.Children) == 0 {
			if len(path) > 0 {
				paths = append(paths, slices.Clone(path))
				values = append(values, n.Value)
			}
			return
		}
		for _, c := range n.Children {
			walk(c, append(path, c.Name))
		}
	}
	if root != nil {
		walk(root, nil)
	}
	return paths, values
}

func Total(records []models.Record) models.Totals {
	var t models.Totals
	for _, r := range records {
		t.Sales += r.Sales
		t.Profit += r.Profit
		t.Quantity += r.Quantity
	}
	return t
}
