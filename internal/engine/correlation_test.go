package engine

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelateSymmetricWithUnitDiagonal(t *testing.T) {
	tbl := mustRead(t,
		"2020,EN,FT,A,50000,FR,0,FR,S",
		"2021,MI,FT,A,65000,FR,50,FR,S",
		"2022,SE,FT,A,90000,FR,100,FR,S",
		"2023,EX,FT,A,81000,FR,0,FR,S",
	)

	m, err := Correlate(tbl, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{FieldWorkYear, FieldSalaryInUSD, FieldRemoteRatio}, m.Fields)

	for i := range m.Fields {
		assert.Equal(t, 1.0, floatOf(t, m.Values[i][i]))
		for j := range m.Fields {
			assert.Equal(t, m.Values[i][j], m.Values[j][i])
			if v, ok := m.Values[i][j].Float64(); ok {
				assert.LessOrEqual(t, math.Abs(v), 1.0)
			}
		}
	}

	r, ok := m.At(FieldWorkYear, FieldSalaryInUSD)
	require.True(t, ok)
	assert.InDelta(t, 0.8620, floatOf(t, r), 1e-4)
}

func TestCorrelatePerfectLinear(t *testing.T) {
	tbl := mustRead(t,
		"2020,EN,FT,A,100,FR,0,FR,S",
		"2021,EN,FT,A,200,FR,0,FR,S",
		"2022,EN,FT,A,300,FR,0,FR,S",
	)

	m, err := Correlate(tbl, []string{FieldWorkYear, FieldSalaryInUSD, FieldRemoteRatio})
	require.NoError(t, err)

	r, _ := m.At(FieldWorkYear, FieldSalaryInUSD)
	assert.InDelta(t, 1.0, floatOf(t, r), 1e-12)

	// remote_ratio is constant: undefined everywhere, diagonal included.
	for _, f := range m.Fields {
		v, _ := m.At(FieldRemoteRatio, f)
		assert.True(t, v.IsNoValue(), f)
	}
}

func TestCorrelateSkipsMissingPairs(t *testing.T) {
	tbl := mustRead(t,
		"2020,EN,FT,A,100,FR,0,FR,S",
		"2021,EN,FT,A,,FR,50,FR,S",
		"2022,EN,FT,A,300,FR,100,FR,S",
	)

	m, err := Correlate(tbl, []string{FieldWorkYear, FieldSalaryInUSD})
	require.NoError(t, err)
	r, _ := m.At(FieldWorkYear, FieldSalaryInUSD)
	assert.InDelta(t, 1.0, floatOf(t, r), 1e-12)
}

func TestCorrelateInvalidField(t *testing.T) {
	tbl := sampleTable(t)

	for _, fields := range [][]string{{FieldJobTitle}, {FieldSalaryInUSD, "bonus"}} {
		_, err := Correlate(tbl, fields)
		var fe *InvalidFieldError
		assert.True(t, errors.As(err, &fe), "fields %v: got %v", fields, err)
	}
}

func TestCorrelateInexactConstantColumn(t *testing.T) {
	csv := testHeader + ",bonus\n" +
		"2020,EN,FT,A,100,FR,0,FR,S,0.1\n" +
		"2021,EN,FT,A,200,FR,50,FR,S,0.1\n" +
		"2022,EN,FT,A,300,FR,100,FR,S,0.1\n"
	tbl, err := Read(strings.NewReader(csv))
	require.NoError(t, err)

	m, err := Correlate(tbl, []string{"bonus", FieldWorkYear})
	require.NoError(t, err)

	diag, _ := m.At("bonus", "bonus")
	assert.True(t, diag.IsNoValue(), "diagonal: %v", diag)
	off, _ := m.At("bonus", FieldWorkYear)
	assert.True(t, off.IsNoValue(), "off-diagonal: %v", off)

	stats, err := Describe(tbl, []string{"bonus"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, floatOf(t, stats[0].Std))
}
