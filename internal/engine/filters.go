package engine

import (
	"sort"
)

// ============================================================================
// FILTERS: conjunction of per-column predicates
// ============================================================================
// Single pass: every row is checked against all predicates and kept only if
// each one holds. Kept rows stay in table order.
// ============================================================================

// Predicate is a condition on a single column.
type Predicate interface {
	compile(c *Column) (func(i int) bool, error)
}

// Predicates maps a column name to the condition its values must meet.
type Predicates map[string]Predicate

type membership struct {
	values []string
}

// In matches rows whose value is one of values. With no values nothing matches.
// Numeric columns compare against their decimal rendering, e.g. "50".
func In(values ...string) Predicate {
	return membership{values: values}
}

func (m membership) compile(c *Column) (func(int) bool, error) {
	allowed := make(map[string]bool, len(m.values))
	for _, v := range m.values {
		allowed[v] = true
	}
	if len(allowed) == 0 {
		return func(int) bool { return false }, nil
	}
	if c.kind == Categorical {
		ids := make([]bool, len(c.dict))
		for id, s := range c.dict {
			ids[id] = allowed[s]
		}
		return func(i int) bool { return ids[c.ids[i]] }, nil
	}
	return func(i int) bool { return allowed[c.Text(i)] }, nil
}

type numericRange struct {
	min, max float64
}

// Between matches rows whose numeric value lies in [min, max].
// Missing values never match.
func Between(min, max float64) Predicate {
	return numericRange{min: min, max: max}
}

func (r numericRange) compile(c *Column) (func(int) bool, error) {
	if c.kind != Numeric {
		return nil, notNumeric(c.name)
	}
	return func(i int) bool {
		v, ok := c.Float(i)
		return ok && v >= r.min && v <= r.max
	}, nil
}

// Filter returns the rows of t that satisfy every predicate, in table order.
// With no predicates t itself is returned.
func Filter(t *Table, preds Predicates) (*Table, error) {
	if len(preds) == 0 {
		return t, nil
	}

	names := make([]string, 0, len(preds))
	for name := range preds {
		names = append(names, name)
	}
	sort.Strings(names)

	checks := make([]func(int) bool, 0, len(names))
	for _, name := range names {
		c, err := t.column(name)
		if err != nil {
			return nil, err
		}
		p := preds[name]
		if p == nil {
			return nil, &InvalidFieldError{Field: name, Reason: "nil predicate"}
		}
		check, err := p.compile(c)
		if err != nil {
			return nil, err
		}
		checks = append(checks, check)
	}

	indices := make([]int, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		pass := true
		for _, check := range checks {
			if !check(i) {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}
	return t.Take(indices), nil
}
