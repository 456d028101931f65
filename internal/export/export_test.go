package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/ipc"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salarydash/internal/engine"
)

const testCSV = `work_year,experience_level,employment_type,job_title,salary_in_usd,employee_residence,remote_ratio,company_location,company_size
2020,EN,FT,Data Analyst,50000,FR,0,FR,S
2022,EX,FL,Director,,GB,50,GB,S
2021,SE,FT,Data Scientist,90000,US,100,US,L
`

func loadTable(t *testing.T) *engine.Table {
	t.Helper()
	tbl, err := engine.Read(strings.NewReader(testCSV))
	require.NoError(t, err)
	return tbl
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, loadTable(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, engine.FieldWorkYear, rows[0][0])
	assert.Equal(t, []string{"2020", "EN", "FT", "Data Analyst", "50000", "FR", "0", "FR", "S"}, rows[1])
	assert.Equal(t, "", rows[2][4])
	assert.Equal(t, "Director", rows[2][3])
}

func TestWriteArrow(t *testing.T) {
	tbl := loadTable(t)

	var buf bytes.Buffer
	require.NoError(t, WriteArrow(&buf, tbl))

	mem := memory.NewGoAllocator()
	r, err := ipc.NewReader(&buf, ipc.WithAllocator(mem))
	require.NoError(t, err)
	defer r.Release()

	assert.Equal(t, tbl.Columns()[4], r.Schema().Field(4).Name)

	require.True(t, r.Next())
	rec := r.Record()
	assert.Equal(t, int64(3), rec.NumRows())
	assert.Equal(t, int64(9), rec.NumCols())

	salaries := rec.Column(4).(*array.Float64)
	assert.Equal(t, 50000.0, salaries.Value(0))
	assert.True(t, salaries.IsNull(1))

	titles := rec.Column(3).(*array.String)
	assert.Equal(t, "Data Scientist", titles.Value(2))

	assert.False(t, r.Next())
}
