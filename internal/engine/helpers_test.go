package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testHeader = "work_year,experience_level,employment_type,job_title,salary_in_usd,employee_residence,remote_ratio,company_location,company_size"

// mustRead builds a table from data lines below the standard header.
func mustRead(t *testing.T, lines ...string) *Table {
	t.Helper()
	csv := testHeader + "\n" + strings.Join(lines, "\n") + "\n"
	tbl, err := Read(strings.NewReader(csv))
	require.NoError(t, err)
	return tbl
}

// sampleTable is a small dataset shaped like the public salary file.
func sampleTable(t *testing.T) *Table {
	return mustRead(t,
		"2020,EN,FT,Data Analyst,50000,FR,0,FR,S",
		"2021,EN,FT,Data Scientist,70000,US,100,US,M",
		"2021,SE,FT,Data Scientist,90000,US,50,US,L",
		"2022,MI,CT,ML Engineer,120000,DE,100,DE,M",
		"2022,SE,FT,Data Analyst,80000,FR,0,FR,L",
		"2022,EX,FL,Director,,GB,50,GB,S",
	)
}

func floatOf(t *testing.T, v Value) float64 {
	t.Helper()
	f, ok := v.Float64()
	require.True(t, ok, "expected a defined value")
	return f
}
