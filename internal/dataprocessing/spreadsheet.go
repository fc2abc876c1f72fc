package dataprocessing

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Sheet is the raw cell text of one worksheet
type Sheet struct {
	Name string
	Rows [][]string
}

// ReadSheet reads the worksheet named preferred from an .xlsx/.xlsm or legacy
// .xls workbook, falling back to the first non-empty sheet. Numeric and date
// cells are returned unformatted so dates arrive as Excel serial numbers.
func ReadSheet(r io.Reader, filename, preferred string) (*Sheet, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return readXLSX(r, preferred)
	case ".xls":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read upload: %w", err)
		}
		return readXLS(data, preferred)
	default:
		return nil, fmt.Errorf("unsupported file type %q: expected .xlsx or .xls", filepath.Ext(filename))
	}
}

func readXLSX(r io.Reader, preferred string) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	candidates := orderSheets(names, preferred)
	for _, name := range candidates {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		if len(rows) > 0 {
			return &Sheet{Name: name, Rows: rows}, nil
		}
	}

	return nil, fmt.Errorf("workbook has no data")
}

func readXLS(data []byte, preferred string) (sheet *Sheet, err error) {
	// the xls decoder panics on some truncated files
	defer func() {
		if r := recover(); r != nil {
			sheet, err = nil, fmt.Errorf("open xls workbook: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls workbook: %w", err)
	}

	byName := make(map[string]*xls.WorkSheet, wb.NumSheets())
	names := make([]string, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		byName[ws.Name] = ws
		names = append(names, ws.Name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	for _, name := range orderSheets(names, preferred) {
		rows := xlsRows(byName[name])
		if len(rows) > 0 {
			return &Sheet{Name: name, Rows: rows}, nil
		}
	}

	return nil, fmt.Errorf("workbook has no data")
}

func xlsRows(sheet *xls.WorkSheet) [][]string {
	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		rows = append(rows, cells)
	}

	// Drop trailing empty rows so callers see the same shape as excelize.
	for len(rows) > 0 && blankRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}

// orderSheets puts the preferred sheet first, matched case-insensitively
func orderSheets(names []string, preferred string) []string {
	ordered := make([]string, 0, len(names))
	for _, name := range names {
		if strings.EqualFold(strings.TrimSpace(name), preferred) {
			ordered = append(ordered, name)
		}
	}
	for _, name := range names {
		if !strings.EqualFold(strings.TrimSpace(name), preferred) {
			ordered = append(ordered, name)
		}
	}
	return ordered
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
