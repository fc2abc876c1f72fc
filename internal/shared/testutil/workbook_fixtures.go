package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// WorkbookBytes builds an .xlsx workbook with a single sheet holding header
// followed by rows, and returns the encoded file.
func WorkbookBytes(t *testing.T, sheet string, header []string, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatalf("rename sheet: %v", err)
		}
	}

	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			t.Fatalf("header cell: %v", err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			t.Fatalf("set header: %v", err)
		}
	}

	for i, row := range rows {
		for col, value := range row {
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				t.Fatalf("data cell: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("set cell %s: %v", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// WriteWorkbook writes the workbook built by WorkbookBytes to dir/filename
// and returns the full path.
func WriteWorkbook(t *testing.T, dir, filename, sheet string, header []string, rows [][]interface{}) string {
	t.Helper()

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, WorkbookBytes(t, sheet, header, rows), 0o644); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}
