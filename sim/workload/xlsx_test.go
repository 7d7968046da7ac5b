package workload

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/plantfloor/floorsim/sim"
)

// buildWorkbook writes the given sheets (name to rows) into an in-memory workbook.
func buildWorkbook(t *testing.T, sheets map[string][][]any) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	for name, rows := range sheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))
	return f
}

func floorSheets() map[string][][]any {
	return map[string][][]any{
		"Articles": {
			{"article", "priority", "op1", "op2"},
			{"1", "HIGH", "CUT", "POLISH"},
			{"2", "LOW"},
			{3, "normal", "CUT"},
		},
		"workstations": {
			{"workstation", "operation", "time"},
			{"ws1", "CUT", 10},
			{"ws2", "POLISH", "15"},
		},
	}
}

func TestReadWorkbook_BothSheets(t *testing.T) {
	// GIVEN a workbook with an articles sheet (mixed case name) and a workstations sheet
	f := buildWorkbook(t, floorSheets())
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	// WHEN it is read
	jobs, resources, err := ReadWorkbook(bytes.NewReader(buf.Bytes()))

	// THEN the rows match the CSV layout, with short rows skipped
	require.NoError(t, err)
	assert.Equal(t, []sim.JobSpec{
		{ID: "1", Priority: "HIGH", Operations: []string{"CUT", "POLISH"}},
		{ID: "3", Priority: "normal", Operations: []string{"CUT"}},
	}, jobs)
	assert.Equal(t, []sim.ResourceSpec{
		{ID: "ws1", Operation: "CUT", Duration: 10},
		{ID: "ws2", Operation: "POLISH", Duration: 15},
	}, resources)
}

func TestReadWorkbook_MissingSheet_Error(t *testing.T) {
	sheets := floorSheets()
	delete(sheets, "workstations")
	f := buildWorkbook(t, sheets)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, _, err = ReadWorkbook(bytes.NewReader(buf.Bytes()))

	require.Error(t, err)
	assert.Contains(t, err.Error(), `sheet "workstations" not found`)
}

func TestReadWorkbook_BadTime_RowNumberedError(t *testing.T) {
	sheets := floorSheets()
	sheets["workstations"] = append(sheets["workstations"], []any{"ws3", "CUT", "slow"})
	f := buildWorkbook(t, sheets)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, _, err = ReadWorkbook(bytes.NewReader(buf.Bytes()))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 4")
}

func TestLoad_SameWorkbookForBothTables(t *testing.T) {
	f := buildWorkbook(t, floorSheets())
	path := filepath.Join(t.TempDir(), "floor.xlsx")
	require.NoError(t, f.SaveAs(path))

	in, err := Load(path, path)

	require.NoError(t, err)
	assert.Len(t, in.Jobs, 2)
	assert.Len(t, in.Resources, 2)
}
