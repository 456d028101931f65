// Package models holds the JSON payloads of the HTTP API.
package models

import "salarydash/internal/engine"

// Health is the /api/health payload, served even while the dataset loads.
type Health struct {
	Status    string `json:"status"`
	Loaded    bool   `json:"loaded"`
	Rows      int    `json:"rows"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// FieldInfo names a column and its kind.
type FieldInfo struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// RowsPage is one page of rows; Total counts the rows before paging.
type RowsPage struct {
	Data   []engine.Row `json:"data"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// PredicateSpec is either a membership test (AllowedValues) or an inclusive
// range (Min, Max). AllowedValues is a pointer so an explicitly empty list can
// be told apart from an absent one.
type PredicateSpec struct {
	AllowedValues *[]string `json:"allowed_values,omitempty"`
	Min           *float64  `json:"min,omitempty"`
	Max           *float64  `json:"max,omitempty"`
}

// FilterRequest is the body of POST /api/filter, keyed by column name.
type FilterRequest struct {
	Predicates map[string]PredicateSpec `json:"predicates"`
}

// Overview is the overview page: row count and per-column statistics.
type Overview struct {
	Rows    int                    `json:"rows"`
	Columns []FieldInfo            `json:"columns"`
	Stats   []engine.ColumnSummary `json:"stats"`
}

// FrancePage holds salary box plots for employees residing in France.
type FrancePage struct {
	Rows  int          `json:"rows"`
	Boxes []engine.Box `json:"boxes"`
}

// TrendsPage is the mean salary per value of the chosen category.
type TrendsPage struct {
	Category   string              `json:"category"`
	Categories []string            `json:"categories"`
	Aggregate  *engine.Aggregation `json:"aggregate"`
}

// TimeEvolutionPage follows the most common job titles over the years.
type TimeEvolutionPage struct {
	TopJobs   []engine.Frequency  `json:"top_jobs"`
	Aggregate *engine.Aggregation `json:"aggregate"`
}

// RemoteItem is the mean salary of one (company location, remote ratio) pair.
type RemoteItem struct {
	CompanyLocation string       `json:"company_location"`
	RemoteRatio     string       `json:"remote_ratio"`
	RemoteType      string       `json:"remote_type"`
	Salary          engine.Value `json:"salary_in_usd"`
	Count           int          `json:"count"`
}

// FilterOptions are the choices offered by the advanced filter page.
type FilterOptions struct {
	ExperienceLevels []string `json:"experience_levels"`
	CompanySizes     []string `json:"company_sizes"`
	SalaryMax        float64  `json:"salary_max"`
}
