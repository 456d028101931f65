package engine

import (
	"math"
	"sort"
)

func mean(vals []float64) Value {
	if len(vals) == 0 {
		return NoValue
	}
	s := 0.0
	for _, v := range vals {
		s += v
	}
	return ValueOf(s / float64(len(vals)))
}

func median(vals []float64) Value {
	return quantile(sorted(vals), 0.5)
}

func sorted(vals []float64) []float64 {
	out := make([]float64, len(vals))
	copy(out, vals)
	sort.Float64s(out)
	return out
}

// quantile interpolates linearly between the closest ranks of an ascending
// slice, the same rule pandas uses for describe().
func quantile(asc []float64, q float64) Value {
	n := len(asc)
	if n == 0 {
		return NoValue
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return ValueOf(asc[lo])
	}
	frac := pos - float64(lo)
	return ValueOf(asc[lo] + (asc[hi]-asc[lo])*frac)
}

// constant reports whether every value equals the first.
func constant(vals []float64) bool {
	for _, v := range vals[1:] {
		if v != vals[0] {
			return false
		}
	}
	return true
}

// stddev is the sample standard deviation (n-1 denominator).
func stddev(vals []float64) Value {
	if len(vals) < 2 {
		return NoValue
	}
	if constant(vals) {
		return ValueOf(0)
	}
	m, _ := mean(vals).Float64()
	ss := 0.0
	for _, v := range vals {
		d := v - m
		ss += d * d
	}
	return ValueOf(math.Sqrt(ss / float64(len(vals)-1)))
}

// pearson correlates two equally long samples. Undefined when fewer than two
// observations exist or either side has zero variance.
func pearson(xs, ys []float64) Value {
	n := len(xs)
	if n < 2 || constant(xs) || constant(ys) {
		return NoValue
	}
	var mx, my float64
	for i := range xs {
		mx += xs[i]
		my += ys[i]
	}
	mx /= float64(n)
	my /= float64(n)

	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return NoValue
	}
	r := sxy / math.Sqrt(sxx*syy)
	return ValueOf(math.Max(-1, math.Min(1, r)))
}

// present collects the non-missing values of c at the given rows.
// A nil rows slice means every row.
func present(c *Column, rows []int) []float64 {
	if rows == nil {
		out := make([]float64, 0, c.Len())
		for i := 0; i < c.Len(); i++ {
			if v, ok := c.Float(i); ok {
				out = append(out, v)
			}
		}
		return out
	}
	out := make([]float64, 0, len(rows))
	for _, i := range rows {
		if v, ok := c.Float(i); ok {
			out = append(out, v)
		}
	}
	return out
}
