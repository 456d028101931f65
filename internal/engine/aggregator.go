package engine

import (
	"sort"
	"strconv"
	"strings"
)

// Func is an aggregation applied to each group.
type Func string

const (
	Mean   Func = "mean"
	Median Func = "median"
	Count  Func = "count"
)

// ParseFunc validates an aggregation name.
func ParseFunc(s string) (Func, error) {
	switch f := Func(strings.ToLower(strings.TrimSpace(s))); f {
	case Mean, Median, Count:
		return f, nil
	default:
		return "", &InvalidFuncError{Func: Func(s)}
	}
}

// Group is one partition of an aggregation. Keys line up with Aggregation.GroupBy.
type Group struct {
	Keys  []string `json:"keys"`
	Count int      `json:"count"`
	Value Value    `json:"value"`

	rows []int
}

// Aggregation is the per-group summary of a table.
type Aggregation struct {
	GroupBy []string `json:"group_by"`
	Field   string   `json:"field,omitempty"`
	Func    Func     `json:"func"`
	Groups  []Group  `json:"groups"`
}

// Lookup returns the group with the given key values.
func (a *Aggregation) Lookup(keys ...string) (Group, bool) {
	for _, g := range a.Groups {
		if equalKeys(g.Keys, keys) {
			return g, true
		}
	}
	return Group{}, false
}

func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ============================================================================
// OPTIONS
// ============================================================================

// AggregateOption configures Aggregate via the functional options pattern.
type AggregateOption func(*aggConfig)

type aggConfig struct {
	sorted   bool
	restrict bool
	topField string
	topN     int
}

// Sorted orders groups ascending by key instead of first occurrence.
func Sorted() AggregateOption {
	return func(c *aggConfig) { c.sorted = true }
}

// RestrictTop aggregates only rows whose field value is among the n most
// frequent values of that field. See TopValues for the ranking rule.
func RestrictTop(field string, n int) AggregateOption {
	return func(c *aggConfig) {
		c.restrict = true
		c.topField = field
		c.topN = n
	}
}

// ============================================================================
// AGGREGATION
// ============================================================================

// Aggregate partitions t by the values of groupKey and summarizes valueField
// in each group with fn. Count ignores valueField.
func Aggregate(t *Table, groupKey []string, valueField string, fn Func, opts ...AggregateOption) (*Aggregation, error) {
	cfg := &aggConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	fn, err := ParseFunc(string(fn))
	if err != nil {
		return nil, err
	}
	keyCols, err := keyColumns(t, groupKey)
	if err != nil {
		return nil, err
	}
	var valCol *Column
	if fn != Count {
		if valCol, err = t.numericColumn(valueField); err != nil {
			return nil, err
		}
	}

	var rows []int
	if cfg.restrict {
		if rows, err = topRows(t, cfg.topField, cfg.topN); err != nil {
			return nil, err
		}
	}

	groups := groupRows(t, keyCols, rows)
	if cfg.sorted {
		sortGroups(groups, keyCols)
	}

	for i := range groups {
		g := &groups[i]
		switch fn {
		case Count:
			g.Value = ValueOf(float64(g.Count))
		case Mean:
			g.Value = mean(present(valCol, g.rows))
		case Median:
			g.Value = median(present(valCol, g.rows))
		}
	}

	agg := &Aggregation{GroupBy: append([]string(nil), groupKey...), Func: fn, Groups: groups}
	if fn != Count {
		agg.Field = valueField
	}
	return agg, nil
}

func keyColumns(t *Table, groupKey []string) ([]*Column, error) {
	if len(groupKey) == 0 {
		return nil, &InvalidFieldError{Reason: "group key is empty"}
	}
	cols := make([]*Column, len(groupKey))
	for i, name := range groupKey {
		c, err := t.column(name)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}
	return cols, nil
}

// groupRows partitions rows (nil = all rows) by the key columns.
// Group order is the order in which each key first occurs.
func groupRows(t *Table, keyCols []*Column, rows []int) []Group {
	index := make(map[string]int)
	var groups []Group

	visit := func(i int) {
		keys := make([]string, len(keyCols))
		for k, c := range keyCols {
			keys[k] = c.Text(i)
		}
		id := strings.Join(keys, "\x00")
		gi, ok := index[id]
		if !ok {
			gi = len(groups)
			index[id] = gi
			groups = append(groups, Group{Keys: keys})
		}
		groups[gi].rows = append(groups[gi].rows, i)
		groups[gi].Count++
	}

	if rows == nil {
		for i := 0; i < t.Len(); i++ {
			visit(i)
		}
	} else {
		for _, i := range rows {
			visit(i)
		}
	}
	if groups == nil {
		groups = []Group{}
	}
	return groups
}

// sortGroups orders groups ascending, comparing keys left to right.
// Numeric key columns compare as numbers; missing numeric keys sort first.
func sortGroups(groups []Group, keyCols []*Column) {
	sort.SliceStable(groups, func(i, j int) bool {
		for k, c := range keyCols {
			a, b := groups[i].Keys[k], groups[j].Keys[k]
			if a == b {
				continue
			}
			if c.Kind() == Numeric {
				return lessNumeric(a, b)
			}
			return a < b
		}
		return false
	})
}

func lessNumeric(a, b string) bool {
	if a == "" {
		return true
	}
	if b == "" {
		return false
	}
	fa, _ := strconv.ParseFloat(a, 64)
	fb, _ := strconv.ParseFloat(b, 64)
	return fa < fb
}

// ============================================================================
// TOP-N FREQUENCIES
// ============================================================================

// Frequency is a field value with the number of rows that carry it.
type Frequency struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// TopValues returns the n most frequent values of field, most frequent first.
// Values with equal counts keep the order in which they first occur in the
// table, so the n-th slot goes to the earliest of any tied values.
func TopValues(t *Table, field string, n int) ([]Frequency, error) {
	c, err := t.column(field)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return []Frequency{}, nil
	}

	index := make(map[string]int)
	var freqs []Frequency
	for i := 0; i < t.Len(); i++ {
		s := c.Text(i)
		if fi, ok := index[s]; ok {
			freqs[fi].Count++
			continue
		}
		index[s] = len(freqs)
		freqs = append(freqs, Frequency{Value: s, Count: 1})
	}

	sort.SliceStable(freqs, func(i, j int) bool { return freqs[i].Count > freqs[j].Count })
	if len(freqs) > n {
		freqs = freqs[:n]
	}
	return freqs, nil
}

// topRows returns, in table order, the rows whose field value is among the
// n most frequent.
func topRows(t *Table, field string, n int) ([]int, error) {
	top, err := TopValues(t, field, n)
	if err != nil {
		return nil, err
	}
	keep := make(map[string]bool, len(top))
	for _, f := range top {
		keep[f.Value] = true
	}
	c, _ := t.Column(field)
	rows := make([]int, 0)
	for i := 0; i < t.Len(); i++ {
		if keep[c.Text(i)] {
			rows = append(rows, i)
		}
	}
	return rows, nil
}
