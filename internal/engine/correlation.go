package engine

// CorrelationMatrix holds pairwise Pearson coefficients. Values[i][j] relates
// Fields[i] to Fields[j]; the matrix is symmetric.
type CorrelationMatrix struct {
	Fields []string  `json:"fields"`
	Values [][]Value `json:"values"`
}

// At returns the coefficient for a pair of fields.
func (m *CorrelationMatrix) At(a, b string) (Value, bool) {
	i, j := m.indexOf(a), m.indexOf(b)
	if i < 0 || j < 0 {
		return NoValue, false
	}
	return m.Values[i][j], true
}

func (m *CorrelationMatrix) indexOf(field string) int {
	for i, f := range m.Fields {
		if f == field {
			return i
		}
	}
	return -1
}

// Correlate computes the Pearson correlation of every pair of fields using the
// rows where both values are present. With no fields, every numeric column is
// used. A column with zero variance correlates to NoValue, itself included.
func Correlate(t *Table, fields []string) (*CorrelationMatrix, error) {
	if len(fields) == 0 {
		fields = t.NumericColumns()
	}
	cols := make([]*Column, len(fields))
	for i, f := range fields {
		c, err := t.numericColumn(f)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}

	n := len(cols)
	m := &CorrelationMatrix{
		Fields: append([]string(nil), fields...),
		Values: make([][]Value, n),
	}
	for i := range m.Values {
		m.Values[i] = make([]Value, n)
	}

	for i := 0; i < n; i++ {
		m.Values[i][i] = selfCorrelation(cols[i])
		for j := i + 1; j < n; j++ {
			r := pearson(pairwise(cols[i], cols[j]))
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m, nil
}

func selfCorrelation(c *Column) Value {
	vals := present(c, nil)
	if len(vals) < 2 || constant(vals) {
		return NoValue
	}
	return ValueOf(1)
}

// pairwise returns the values of a and b at rows where both are present.
func pairwise(a, b *Column) ([]float64, []float64) {
	xs := make([]float64, 0, a.Len())
	ys := make([]float64, 0, a.Len())
	for i := 0; i < a.Len(); i++ {
		x, okx := a.Float(i)
		y, oky := b.Float(i)
		if okx && oky {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys
}
