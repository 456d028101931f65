package engine

// ColumnSummary carries describe-style statistics of one numeric column.
type ColumnSummary struct {
	Field string `json:"field"`
	Count int    `json:"count"`
	Mean  Value  `json:"mean"`
	Std   Value  `json:"std"`
	Min   Value  `json:"min"`
	Q1    Value  `json:"q1"`
	Q2    Value  `json:"median"`
	Q3    Value  `json:"q3"`
	Max   Value  `json:"max"`
}

// Describe summarizes numeric fields (all numeric columns when fields is empty).
// Missing values are skipped; std uses the sample (n-1) denominator.
func Describe(t *Table, fields []string) ([]ColumnSummary, error) {
	if len(fields) == 0 {
		fields = t.NumericColumns()
	}
	out := make([]ColumnSummary, 0, len(fields))
	for _, f := range fields {
		c, err := t.numericColumn(f)
		if err != nil {
			return nil, err
		}
		vals := present(c, nil)
		s := summarize(vals)
		s.Field = f
		s.Std = stddev(vals)
		out = append(out, s)
	}
	return out, nil
}

func summarize(vals []float64) ColumnSummary {
	asc := sorted(vals)
	s := ColumnSummary{
		Count: len(vals),
		Mean:  mean(vals),
		Q1:    quantile(asc, 0.25),
		Q2:    quantile(asc, 0.5),
		Q3:    quantile(asc, 0.75),
	}
	if len(asc) > 0 {
		s.Min = ValueOf(asc[0])
		s.Max = ValueOf(asc[len(asc)-1])
	}
	return s
}

// Box is the five-number summary of one group, as drawn by a box plot.
type Box struct {
	Keys   []string `json:"keys"`
	Count  int      `json:"count"`
	Min    Value    `json:"min"`
	Q1     Value    `json:"q1"`
	Median Value    `json:"median"`
	Q3     Value    `json:"q3"`
	Max    Value    `json:"max"`
}

// BoxStats groups t like Aggregate and computes a five-number summary of
// valueField per group. Groups without values get NoValue statistics.
func BoxStats(t *Table, groupKey []string, valueField string, opts ...AggregateOption) ([]Box, error) {
	cfg := &aggConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	keyCols, err := keyColumns(t, groupKey)
	if err != nil {
		return nil, err
	}
	valCol, err := t.numericColumn(valueField)
	if err != nil {
		return nil, err
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
	boxes := make([]Box, len(groups))
	for i, g := range groups {
		s := summarize(present(valCol, g.rows))
		boxes[i] = Box{
			Keys:   g.Keys,
			Count:  g.Count,
			Min:    s.Min,
			Q1:     s.Q1,
			Median: s.Q2,
			Q3:     s.Q3,
			Max:    s.Max,
		}
	}
	return boxes, nil
}
