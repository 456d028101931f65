package engine

import (
	"math"
	"strconv"
)

// Value is a statistic that may be undefined. The zero Value is NoValue.
type Value struct {
	f       float64
	defined bool
}

// NoValue marks an undefined statistic, such as the mean of a group whose
// values are all missing or the correlation of a constant column.
var NoValue = Value{}

// ValueOf wraps f. NaN and infinities collapse to NoValue.
func ValueOf(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NoValue
	}
	return Value{f: f, defined: true}
}

// Float64 returns the wrapped number and whether it is defined.
func (v Value) Float64() (float64, bool) { return v.f, v.defined }

// IsNoValue reports whether v is undefined.
func (v Value) IsNoValue() bool { return !v.defined }

func (v Value) String() string {
	if !v.defined {
		return "NoValue"
	}
	return strconv.FormatFloat(v.f, 'f', -1, 64)
}

// MarshalJSON encodes NoValue as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.defined {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v.f, 'f', -1, 64), nil
}

// UnmarshalJSON accepts a number or null.
func (v *Value) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = NoValue
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*v = ValueOf(f)
	return nil
}
