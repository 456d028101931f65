package engine

import "fmt"

// LoadError reports a dataset that could not be read or parsed.
// Line is 1-based and counts the header; zero means the error is not tied to a line.
type LoadError struct {
	Path   string
	Line   int
	Column string
	Err    error
}

func (e *LoadError) Error() string {
	src := e.Path
	if src == "" {
		src = "dataset"
	}
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("load %s: line %d, column %q: %v", src, e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("load %s: line %d: %v", src, e.Line, e.Err)
	default:
		return fmt.Sprintf("load %s: %v", src, e.Err)
	}
}

func (e *LoadError) Unwrap() error { return e.Err }

// InvalidFieldError reports a field name that is unknown or has the wrong kind
// for the requested operation.
type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// InvalidFuncError reports an unsupported aggregation function.
type InvalidFuncError struct {
	Func Func
}

func (e *InvalidFuncError) Error() string {
	return fmt.Sprintf("unsupported aggregation %q (want mean, median or count)", string(e.Func))
}

func unknownField(name string) error {
	return &InvalidFieldError{Field: name, Reason: "no such column"}
}

func notNumeric(name string) error {
	return &InvalidFieldError{Field: name, Reason: "column is not numeric"}
}
