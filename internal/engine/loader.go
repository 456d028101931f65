package engine

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// --- 1. COLUMN BUILDERS ---

// dictBuilder dictionary-encodes a categorical column while it is read.
type dictBuilder struct {
	ids    []int32
	dict   []string
	lookup map[string]int32
}

func newDictBuilder() *dictBuilder {
	return &dictBuilder{lookup: make(map[string]int32)}
}

func (b *dictBuilder) add(s string) {
	id, ok := b.lookup[s]
	if !ok {
		id = int32(len(b.dict))
		b.dict = append(b.dict, s)
		b.lookup[s] = id
	}
	b.ids = append(b.ids, id)
}

// columnBuilder accumulates one column. Columns outside the required schema
// keep their raw text until the whole file is read, then get a kind inferred.
type columnBuilder struct {
	name  string
	spec  fieldSpec
	known bool
	nums  []float64
	cats  *dictBuilder
	raw   []string
}

func (b *columnBuilder) add(cell string) error {
	if !b.known {
		b.raw = append(b.raw, cell)
		return nil
	}
	if cell == "" && b.spec.required {
		return errors.New("value is required")
	}
	if cell != "" && b.spec.allowed != nil && !b.spec.allowed[cell] {
		return fmt.Errorf("unexpected value %q", cell)
	}
	if b.spec.kind == Categorical {
		b.cats.add(cell)
		return nil
	}
	if cell == "" {
		b.nums = append(b.nums, math.NaN())
		return nil
	}
	f, err := parseNumber(cell)
	if err != nil {
		return err
	}
	if b.spec.integer && f != math.Trunc(f) {
		return fmt.Errorf("%q is not a whole number", cell)
	}
	b.nums = append(b.nums, f)
	return nil
}

func (b *columnBuilder) build() *Column {
	if b.known {
		if b.spec.kind == Numeric {
			return &Column{name: b.name, kind: Numeric, nums: b.nums}
		}
		return &Column{name: b.name, kind: Categorical, ids: b.cats.ids, dict: b.cats.dict}
	}
	return inferColumn(b.name, b.raw)
}

// inferColumn makes a numeric column when every non-empty cell parses as a
// number and at least one cell is non-empty; otherwise a categorical one.
func inferColumn(name string, raw []string) *Column {
	nums := make([]float64, len(raw))
	numeric := false
	for i, cell := range raw {
		if cell == "" {
			nums[i] = math.NaN()
			continue
		}
		f, err := parseNumber(cell)
		if err != nil {
			numeric = false
			break
		}
		nums[i] = f
		numeric = true
	}
	if numeric {
		return &Column{name: name, kind: Numeric, nums: nums}
	}
	cats := newDictBuilder()
	for _, cell := range raw {
		cats.add(cell)
	}
	return &Column{name: name, kind: Categorical, ids: cats.ids, dict: cats.dict}
}

func parseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return f, nil
}

// --- 2. MAIN LOADER ---

// Load reads the CSV dataset at path. Any failure yields a *LoadError and no table.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
			return nil, le
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	return t, nil
}

// Read parses a CSV dataset: one header line naming the fields, then one row
// per line. Every row must have exactly as many fields as the header.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &LoadError{Err: errors.New("empty file, expected a header line")}
	}
	if err != nil {
		return nil, &LoadError{Line: 1, Err: err}
	}

	builders, err := newBuilders(header)
	if err != nil {
		return nil, err
	}

	rows := 0
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &LoadError{Line: pe.StartLine, Err: pe.Err}
			}
			return nil, &LoadError{Err: err}
		}
		line, _ := cr.FieldPos(0)
		for i, cell := range record {
			if err := builders[i].add(strings.TrimSpace(cell)); err != nil {
				return nil, &LoadError{Line: line, Column: builders[i].name, Err: err}
			}
		}
		rows++
	}

	cols := make([]*Column, len(builders))
	for i, b := range builders {
		cols[i] = b.build()
	}
	return newTable(cols, rows), nil
}

func newBuilders(header []string) ([]*columnBuilder, error) {
	builders := make([]*columnBuilder, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if seen[name] {
			return nil, &LoadError{Line: 1, Column: name, Err: errors.New("duplicate column")}
		}
		seen[name] = true

		b := &columnBuilder{name: name}
		if spec, ok := lookupField(name); ok {
			b.spec, b.known = spec, true
			if spec.kind == Categorical {
				b.cats = newDictBuilder()
			}
		}
		builders[i] = b
	}

	var missing []string
	for _, f := range requiredFields {
		if !seen[f.name] {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, &LoadError{Line: 1, Err: fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))}
	}
	return builders, nil
}
