package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateMeanByExperience(t *testing.T) {
	tbl := mustRead(t,
		"2020,EN,FT,A,50000,FR,0,FR,S",
		"2020,EN,FT,A,70000,FR,0,FR,S",
		"2020,SE,FT,A,90000,FR,0,FR,S",
	)

	agg, err := Aggregate(tbl, []string{FieldExperienceLevel}, FieldSalaryInUSD, Mean)
	require.NoError(t, err)

	require.Len(t, agg.Groups, 2)
	assert.Equal(t, []string{"EN"}, agg.Groups[0].Keys)
	assert.Equal(t, 60000.0, floatOf(t, agg.Groups[0].Value))
	assert.Equal(t, []string{"SE"}, agg.Groups[1].Keys)
	assert.Equal(t, 90000.0, floatOf(t, agg.Groups[1].Value))
}

func TestAggregateMedianComposite(t *testing.T) {
	tbl := sampleTable(t)

	agg, err := Aggregate(tbl, []string{FieldExperienceLevel, FieldCompanySize}, FieldSalaryInUSD, Median)
	require.NoError(t, err)

	// First-occurrence order of (experience_level, company_size).
	var keys [][]string
	for _, g := range agg.Groups {
		keys = append(keys, g.Keys)
	}
	assert.Equal(t, [][]string{
		{"EN", "S"}, {"EN", "M"}, {"SE", "L"}, {"MI", "M"}, {"EX", "S"},
	}, keys)

	g, ok := agg.Lookup("SE", "L")
	require.True(t, ok)
	assert.Equal(t, 2, g.Count)
	assert.Equal(t, 85000.0, floatOf(t, g.Value))

	// The only EX row has no salary.
	g, ok = agg.Lookup("EX", "S")
	require.True(t, ok)
	assert.True(t, g.Value.IsNoValue())
}

func TestAggregateCountPartitionsTable(t *testing.T) {
	tbl := sampleTable(t)

	for _, field := range tbl.Columns() {
		agg, err := Aggregate(tbl, []string{field}, "", Count)
		require.NoError(t, err, field)

		total := 0
		for _, g := range agg.Groups {
			assert.Equal(t, float64(g.Count), floatOf(t, g.Value))
			total += g.Count
		}
		assert.Equal(t, tbl.Len(), total, field)
	}
}

func TestAggregateSorted(t *testing.T) {
	tbl := mustRead(t,
		"2022,EN,FT,B,1,FR,100,FR,S",
		"2020,EN,FT,A,2,FR,0,FR,S",
		"2021,EN,FT,B,3,FR,50,FR,S",
		"2020,EN,FT,B,4,FR,0,FR,S",
	)

	agg, err := Aggregate(tbl, []string{FieldWorkYear, FieldJobTitle}, FieldSalaryInUSD, Mean, Sorted())
	require.NoError(t, err)

	var keys [][]string
	for _, g := range agg.Groups {
		keys = append(keys, g.Keys)
	}
	assert.Equal(t, [][]string{{"2020", "A"}, {"2020", "B"}, {"2021", "B"}, {"2022", "B"}}, keys)

	// Numeric keys sort numerically, not lexically.
	agg, err = Aggregate(tbl, []string{FieldRemoteRatio}, "", Count, Sorted())
	require.NoError(t, err)
	assert.Equal(t, []string{"0"}, agg.Groups[0].Keys)
	assert.Equal(t, []string{"50"}, agg.Groups[1].Keys)
	assert.Equal(t, []string{"100"}, agg.Groups[2].Keys)
}

func TestTopValuesTieBreak(t *testing.T) {
	// Counts A:5, B:3, C:3, D:1 with B appearing before C.
	var lines []string
	add := func(title string, n int) {
		for i := 0; i < n; i++ {
			lines = append(lines, "2020,EN,FT,"+title+",100,FR,0,FR,S")
		}
	}
	add("D", 1)
	add("A", 2)
	add("B", 3)
	add("C", 3)
	add("A", 3)
	tbl := mustRead(t, lines...)

	top, err := TopValues(tbl, FieldJobTitle, 2)
	require.NoError(t, err)
	assert.Equal(t, []Frequency{{Value: "A", Count: 5}, {Value: "B", Count: 3}}, top)

	agg, err := Aggregate(tbl, []string{FieldJobTitle}, "", Count, RestrictTop(FieldJobTitle, 2))
	require.NoError(t, err)
	require.Len(t, agg.Groups, 2)
	assert.Equal(t, []string{"A"}, agg.Groups[0].Keys)
	assert.Equal(t, 5, agg.Groups[0].Count)
	assert.Equal(t, []string{"B"}, agg.Groups[1].Keys)
}

func TestAggregateRestrictTopZero(t *testing.T) {
	agg, err := Aggregate(sampleTable(t), []string{FieldJobTitle}, FieldSalaryInUSD, Mean, RestrictTop(FieldJobTitle, 0))
	require.NoError(t, err)
	assert.Empty(t, agg.Groups)
}

func TestAggregateErrors(t *testing.T) {
	tbl := sampleTable(t)

	tests := []struct {
		name  string
		key   []string
		field string
		fn    Func
		opts  []AggregateOption
	}{
		{name: "unknown key", key: []string{"nope"}, field: FieldSalaryInUSD, fn: Mean},
		{name: "empty key", field: FieldSalaryInUSD, fn: Mean},
		{name: "categorical value field", key: []string{FieldCompanySize}, field: FieldJobTitle, fn: Mean},
		{name: "unknown value field", key: []string{FieldCompanySize}, field: "bonus", fn: Median},
		{name: "unknown top field", key: []string{FieldCompanySize}, fn: Count, opts: []AggregateOption{RestrictTop("nope", 3)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Aggregate(tbl, tt.key, tt.field, tt.fn, tt.opts...)
			var fe *InvalidFieldError
			assert.True(t, errors.As(err, &fe), "got %v", err)
		})
	}

	_, err := Aggregate(tbl, []string{FieldCompanySize}, FieldSalaryInUSD, Func("sum"))
	var fnErr *InvalidFuncError
	assert.True(t, errors.As(err, &fnErr))
}

func TestParseFunc(t *testing.T) {
	fn, err := ParseFunc(" Median ")
	require.NoError(t, err)
	assert.Equal(t, Median, fn)

	_, err = ParseFunc("avg")
	assert.Error(t, err)
}
