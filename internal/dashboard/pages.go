// Package dashboard computes the data behind each dashboard page.
// Every function is a pure query over the shared, read-only table.
package dashboard

import (
	"math"
	"sort"

	"salarydash/internal/engine"
	"salarydash/internal/models"
)

// Page identifiers, in navigation order.
const (
	PageOverview      = "overview"
	PageFrance        = "france"
	PageTrends        = "trends"
	PageCorrelations  = "correlations"
	PageTimeEvolution = "time-evolution"
	PageExperience    = "experience"
	PageRemote        = "remote"
	PageFilters       = "filters"
)

// Pages lists the page identifiers served under /api/pages.
var Pages = []string{
	PageOverview, PageFrance, PageTrends, PageCorrelations,
	PageTimeEvolution, PageExperience, PageRemote, PageFilters,
}

// TrendCategories are the fields the trends page may group by.
var TrendCategories = []string{
	engine.FieldExperienceLevel,
	engine.FieldEmploymentType,
	engine.FieldJobTitle,
	engine.FieldCompanyLocation,
}

// DefaultTopJobs is how many job titles the time-evolution page follows.
const DefaultTopJobs = 10

var remoteTypes = map[string]string{
	"0":   "On-site",
	"50":  "Hybrid",
	"100": "Fully remote",
}

// Fields lists the table's columns with their kind.
func Fields(t *engine.Table) []models.FieldInfo {
	names := t.Columns()
	out := make([]models.FieldInfo, len(names))
	for i, name := range names {
		c, _ := t.Column(name)
		out[i] = models.FieldInfo{Name: name, Kind: c.Kind().String()}
	}
	return out
}

// Overview returns general statistics of every numeric column.
func Overview(t *engine.Table) (*models.Overview, error) {
	stats, err := engine.Describe(t, nil)
	if err != nil {
		return nil, err
	}
	return &models.Overview{Rows: t.Len(), Columns: Fields(t), Stats: stats}, nil
}

// France returns salary distributions for employees residing in France,
// by job title and experience level.
func France(t *engine.Table) (*models.FrancePage, error) {
	fr, err := engine.Filter(t, engine.Predicates{engine.FieldEmployeeResidence: engine.In("FR")})
	if err != nil {
		return nil, err
	}
	boxes, err := engine.BoxStats(fr,
		[]string{engine.FieldJobTitle, engine.FieldExperienceLevel},
		engine.FieldSalaryInUSD)
	if err != nil {
		return nil, err
	}
	return &models.FrancePage{Rows: fr.Len(), Boxes: boxes}, nil
}

// Trends returns the mean salary per value of one category, ordered by value.
func Trends(t *engine.Table, category string) (*models.TrendsPage, error) {
	if category == "" {
		category = TrendCategories[0]
	}
	if !contains(TrendCategories, category) {
		return nil, &engine.InvalidFieldError{Field: category, Reason: "not a trend category"}
	}
	agg, err := engine.Aggregate(t, []string{category}, engine.FieldSalaryInUSD, engine.Mean, engine.Sorted())
	if err != nil {
		return nil, err
	}
	return &models.TrendsPage{Category: category, Categories: TrendCategories, Aggregate: agg}, nil
}

// Correlations returns the correlation matrix of all numeric columns.
func Correlations(t *engine.Table) (*engine.CorrelationMatrix, error) {
	return engine.Correlate(t, nil)
}

// TimeEvolution follows the mean salary per year of the top most common job titles.
func TimeEvolution(t *engine.Table, top int) (*models.TimeEvolutionPage, error) {
	if top <= 0 {
		top = DefaultTopJobs
	}
	jobs, err := engine.TopValues(t, engine.FieldJobTitle, top)
	if err != nil {
		return nil, err
	}
	agg, err := engine.Aggregate(t,
		[]string{engine.FieldWorkYear, engine.FieldJobTitle},
		engine.FieldSalaryInUSD, engine.Mean,
		engine.RestrictTop(engine.FieldJobTitle, top), engine.Sorted())
	if err != nil {
		return nil, err
	}
	return &models.TimeEvolutionPage{TopJobs: jobs, Aggregate: agg}, nil
}

// Experience returns the median salary by experience level and company size,
// ordered by key.
func Experience(t *engine.Table) (*engine.Aggregation, error) {
	return engine.Aggregate(t,
		[]string{engine.FieldExperienceLevel, engine.FieldCompanySize},
		engine.FieldSalaryInUSD, engine.Median, engine.Sorted())
}

// Remote returns the mean salary by company location and remote ratio, ordered
// by location then ratio.
func Remote(t *engine.Table) ([]models.RemoteItem, error) {
	agg, err := engine.Aggregate(t,
		[]string{engine.FieldCompanyLocation, engine.FieldRemoteRatio},
		engine.FieldSalaryInUSD, engine.Mean, engine.Sorted())
	if err != nil {
		return nil, err
	}
	items := make([]models.RemoteItem, len(agg.Groups))
	for i, g := range agg.Groups {
		items[i] = models.RemoteItem{
			CompanyLocation: g.Keys[0],
			RemoteRatio:     g.Keys[1],
			RemoteType:      remoteTypes[g.Keys[1]],
			Salary:          g.Value,
			Count:           g.Count,
		}
	}
	return items, nil
}

// FilterOptions returns the choices offered by the advanced filter page.
func FilterOptions(t *engine.Table) (*models.FilterOptions, error) {
	levels, err := t.Distinct(engine.FieldExperienceLevel)
	if err != nil {
		return nil, err
	}
	sizes, err := t.Distinct(engine.FieldCompanySize)
	if err != nil {
		return nil, err
	}
	stats, err := engine.Describe(t, []string{engine.FieldSalaryInUSD})
	if err != nil {
		return nil, err
	}
	max, _ := stats[0].Max.Float64()
	return &models.FilterOptions{ExperienceLevels: levels, CompanySizes: sizes, SalaryMax: max}, nil
}

// BuildPredicates turns a filter request into engine predicates.
func BuildPredicates(req models.FilterRequest) (engine.Predicates, error) {
	fields := make([]string, 0, len(req.Predicates))
	for field := range req.Predicates {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	preds := make(engine.Predicates, len(fields))
	for _, field := range fields {
		spec := req.Predicates[field]
		hasRange := spec.Min != nil || spec.Max != nil
		switch {
		case spec.AllowedValues != nil && hasRange:
			return nil, &engine.InvalidFieldError{Field: field, Reason: "predicate mixes allowed_values with min/max"}
		case spec.AllowedValues != nil:
			preds[field] = engine.In(*spec.AllowedValues...)
		case hasRange:
			lo, hi := math.Inf(-1), math.Inf(1)
			if spec.Min != nil {
				lo = *spec.Min
			}
			if spec.Max != nil {
				hi = *spec.Max
			}
			preds[field] = engine.Between(lo, hi)
		default:
			return nil, &engine.InvalidFieldError{Field: field, Reason: "predicate needs allowed_values or min/max"}
		}
	}
	return preds, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
