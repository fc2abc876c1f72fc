package exporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, testResult(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetKPIs, SheetServices, SheetSummary, SheetIssues}, f.GetSheetList())

	t.Run("kpis", func(t *testing.T) {
		rows, err := f.GetRows(SheetKPIs)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "Technician", rows[0][0])
		assert.Equal(t, "Amy", rows[1][0])
		assert.Equal(t, "Bob", rows[2][0])

		v, err := f.GetCellValue(SheetKPIs, "B2", excelize.Options{RawCellValue: true})
		require.NoError(t, err)
		assert.Equal(t, "1234.5", v)

		good, err := f.GetCellStyle(SheetKPIs, "B2")
		require.NoError(t, err)
		poor, err := f.GetCellStyle(SheetKPIs, "B3")
		require.NoError(t, err)
		assert.NotEqual(t, good, poor)
	})

	t.Run("services", func(t *testing.T) {
		rows, err := f.GetRows(SheetServices)
		require.NoError(t, err)
		require.Len(t, rows, 7)
		assert.Equal(t, []string{"Bob", "Descaling", "1"}, rows[5])
	})

	t.Run("summary", func(t *testing.T) {
		rows, err := f.GetRows(SheetSummary)
		require.NoError(t, err)
		assert.Equal(t, []string{"Date Range", "2024-01-01 to 2024-01-07"}, rows[1])
		assert.Equal(t, []string{"Total Technicians", "2"}, rows[2])
	})

	t.Run("issues", func(t *testing.T) {
		rows, err := f.GetRows(SheetIssues)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Job Times", rows[1][0])
		assert.Equal(t, "abc", rows[1][3])
	})
}

func TestWriteWorkbook_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, emptyResult()))
	assert.NotZero(t, buf.Len())
}
