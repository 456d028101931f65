package engine

import (
	"math"
	"strconv"
)

// Kind tells whether a column holds numbers or categories.
type Kind int

const (
	Categorical Kind = iota
	Numeric
)

func (k Kind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "categorical"
}

// Column holds one field in flat-array form.
// Numeric columns use nums (NaN marks a missing cell); categorical columns are
// dictionary encoded: ids index into dict.
type Column struct {
	name string
	kind Kind
	nums []float64
	ids  []int32
	dict []string
}

func (c *Column) Name() string { return c.name }
func (c *Column) Kind() Kind   { return c.kind }

func (c *Column) Len() int {
	if c.kind == Numeric {
		return len(c.nums)
	}
	return len(c.ids)
}

// Float returns the numeric value at row i and false when the cell is missing
// or the column is categorical.
func (c *Column) Float(i int) (float64, bool) {
	if c.kind != Numeric {
		return 0, false
	}
	v := c.nums[i]
	return v, !math.IsNaN(v)
}

// Text returns the category at row i. Numeric cells are rendered in their
// shortest decimal form and missing cells as "".
func (c *Column) Text(i int) string {
	if c.kind == Categorical {
		return c.dict[c.ids[i]]
	}
	v := c.nums[i]
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// take copies the rows at indices into a new column sharing the dictionary.
func (c *Column) take(indices []int) *Column {
	out := &Column{name: c.name, kind: c.kind, dict: c.dict}
	if c.kind == Numeric {
		out.nums = make([]float64, len(indices))
		for k, i := range indices {
			out.nums[k] = c.nums[i]
		}
		return out
	}
	out.ids = make([]int32, len(indices))
	for k, i := range indices {
		out.ids[k] = c.ids[i]
	}
	return out
}

// Table is the in-memory dataset in struct-of-arrays form.
// A Table is never modified after construction and is safe for concurrent reads.
type Table struct {
	cols  []*Column
	index map[string]int
	rows  int
}

func newTable(cols []*Column, rows int) *Table {
	t := &Table{cols: cols, index: make(map[string]int, len(cols)), rows: rows}
	for i, c := range cols {
		t.index[c.name] = i
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Columns returns the column names in header order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.name
	}
	return names
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// NumericColumns returns the names of all numeric columns in header order.
func (t *Table) NumericColumns() []string {
	var names []string
	for _, c := range t.cols {
		if c.kind == Numeric {
			names = append(names, c.name)
		}
	}
	return names
}

func (t *Table) column(name string) (*Column, error) {
	c, ok := t.Column(name)
	if !ok {
		return nil, unknownField(name)
	}
	return c, nil
}

func (t *Table) numericColumn(name string) (*Column, error) {
	c, err := t.column(name)
	if err != nil {
		return nil, err
	}
	if c.kind != Numeric {
		return nil, notNumeric(name)
	}
	return c, nil
}

// Take returns a new table holding the rows at indices, in that order.
func (t *Table) Take(indices []int) *Table {
	cols := make([]*Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.take(indices)
	}
	return newTable(cols, len(indices))
}

// Slice returns rows [offset, offset+limit) clamped to the table bounds.
func (t *Table) Slice(offset, limit int) *Table {
	if offset < 0 {
		offset = 0
	}
	if offset > t.rows {
		offset = t.rows
	}
	end := t.rows
	if limit >= 0 && limit < end-offset {
		end = offset + limit
	}
	indices := make([]int, 0, end-offset)
	for i := offset; i < end; i++ {
		indices = append(indices, i)
	}
	return t.Take(indices)
}

// Distinct returns the distinct values of a column in first-occurrence order.
func (t *Table) Distinct(field string) ([]string, error) {
	c, err := t.column(field)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for i := 0; i < t.rows; i++ {
		s := c.Text(i)
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out, nil
}

// Row is one salary record.
type Row struct {
	WorkYear          int    `json:"work_year"`
	ExperienceLevel   string `json:"experience_level"`
	EmploymentType    string `json:"employment_type"`
	JobTitle          string `json:"job_title"`
	SalaryInUSD       Value  `json:"salary_in_usd"`
	EmployeeResidence string `json:"employee_residence"`
	RemoteRatio       int    `json:"remote_ratio"`
	CompanyLocation   string `json:"company_location"`
	CompanySize       string `json:"company_size"`
}

// Row materializes row i.
func (t *Table) Row(i int) Row {
	text := func(name string) string {
		c, _ := t.Column(name)
		return c.Text(i)
	}
	num := func(name string) Value {
		c, _ := t.Column(name)
		if v, ok := c.Float(i); ok {
			return ValueOf(v)
		}
		return NoValue
	}
	year, _ := num(FieldWorkYear).Float64()
	remote, _ := num(FieldRemoteRatio).Float64()
	return Row{
		WorkYear:          int(year),
		ExperienceLevel:   text(FieldExperienceLevel),
		EmploymentType:    text(FieldEmploymentType),
		JobTitle:          text(FieldJobTitle),
		SalaryInUSD:       num(FieldSalaryInUSD),
		EmployeeResidence: text(FieldEmployeeResidence),
		RemoteRatio:       int(remote),
		CompanyLocation:   text(FieldCompanyLocation),
		CompanySize:       text(FieldCompanySize),
	}
}

// Rows materializes every row.
func (t *Table) Rows() []Row {
	rows := make([]Row, t.rows)
	for i := range rows {
		rows[i] = t.Row(i)
	}
	return rows
}
