package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterNoPredicatesIsIdentity(t *testing.T) {
	tbl := sampleTable(t)

	out, err := Filter(tbl, nil)
	require.NoError(t, err)
	assert.Equal(t, tbl.Rows(), out.Rows())

	out, err = Filter(tbl, Predicates{})
	require.NoError(t, err)
	assert.Equal(t, tbl.Len(), out.Len())
}

func TestFilterConjunction(t *testing.T) {
	tbl := sampleTable(t)

	out, err := Filter(tbl, Predicates{
		FieldExperienceLevel: In("EN", "SE"),
		FieldCompanySize:     In("L", "M"),
		FieldSalaryInUSD:     Between(60000, 90000),
	})
	require.NoError(t, err)

	var salaries []float64
	for _, r := range out.Rows() {
		salaries = append(salaries, floatOf(t, r.SalaryInUSD))
	}
	// Table order is preserved.
	assert.Equal(t, []float64{70000, 90000, 80000}, salaries)
}

func TestFilterEmptyAllowedValues(t *testing.T) {
	tbl := sampleTable(t)

	out, err := Filter(tbl, Predicates{
		FieldExperienceLevel: In(),
		FieldSalaryInUSD:     Between(0, 1e9),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
}

func TestFilterRangeInclusiveAndIdempotent(t *testing.T) {
	tbl := sampleTable(t)
	preds := Predicates{FieldSalaryInUSD: Between(50000, 90000)}

	once, err := Filter(tbl, preds)
	require.NoError(t, err)
	assert.Equal(t, 4, once.Len())

	twice, err := Filter(once, preds)
	require.NoError(t, err)
	assert.Equal(t, once.Rows(), twice.Rows())
}

func TestFilterMissingNeverInRange(t *testing.T) {
	out, err := Filter(sampleTable(t), Predicates{FieldExperienceLevel: In("EX"), FieldSalaryInUSD: Between(-1e12, 1e12)})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
}

func TestFilterNumericMembership(t *testing.T) {
	out, err := Filter(sampleTable(t), Predicates{FieldRemoteRatio: In("50", "100")})
	require.NoError(t, err)
	assert.Equal(t, 4, out.Len())
	for _, r := range out.Rows() {
		assert.NotEqual(t, 0, r.RemoteRatio)
	}
}

func TestFilterInvertedRange(t *testing.T) {
	out, err := Filter(sampleTable(t), Predicates{FieldSalaryInUSD: Between(100, 1)})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
}

func TestFilterErrors(t *testing.T) {
	tbl := sampleTable(t)

	for name, preds := range map[string]Predicates{
		"unknown field":     {"bonus": In("x")},
		"range categorical": {FieldJobTitle: Between(0, 1)},
		"nil predicate":     {FieldJobTitle: nil},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Filter(tbl, preds)
			var fe *InvalidFieldError
			assert.True(t, errors.As(err, &fe), "got %v", err)
		})
	}
}

func TestFilterDoesNotMutateSource(t *testing.T) {
	tbl := sampleTable(t)
	before := tbl.Rows()

	_, err := Filter(tbl, Predicates{FieldCompanySize: In("S")})
	require.NoError(t, err)
	assert.Equal(t, before, tbl.Rows())
}
