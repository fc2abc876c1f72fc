package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	apierrors "techkpi/internal/errors"
	"techkpi/internal/kpi"
	"techkpi/pkg/contracts/domain"
)

// Workbook sheet names
const (
	SheetKPIs     = "KPIs"
	SheetServices = "Services"
	SheetSummary  = "Summary"
	SheetIssues   = "Issues"
)

var bandFills = map[domain.Band]string{
	domain.BandGood:    "#C6EFCE",
	domain.BandWarning: "#FFEB9C",
	domain.BandPoor:    "#FFC7CE",
}

// WriteWorkbook writes result as an .xlsx workbook with KPI, service,
// summary and flagged-cell sheets. KPI cells are filled by band.
func WriteWorkbook(w io.Writer, result *kpi.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetKPIs); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetServices, SheetSummary, SheetIssues} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return err
	}

	steps := []func(*excelize.File, *kpi.Result, workbookStyles) error{
		writeKPISheet,
		writeServicesSheet,
		writeSummarySheet,
		writeIssuesSheet,
	}
	for _, step := range steps {
		if err := step(f, result, styles); err != nil {
			return apierrors.NewRenderError("build workbook", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return apierrors.NewStorageError("write workbook", err)
	}
	return nil
}

type workbookStyles struct {
	header int
	bands  map[domain.Band]int
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return workbookStyles{}, fmt.Errorf("header style: %w", err)
	}

	bands := make(map[domain.Band]int, len(bandFills))
	for band, color := range bandFills {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		})
		if err != nil {
			return workbookStyles{}, fmt.Errorf("%s style: %w", band, err)
		}
		bands[band] = id
	}
	return workbookStyles{header: header, bands: bands}, nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	return f.SetColWidth(sheet, "A", lastCol, 20)
}

func writeKPISheet(f *excelize.File, result *kpi.Result, styles workbookStyles) error {
	metrics := domain.AllMetrics()
	headers := []string{"Technician"}
	for _, m := range metrics {
		headers = append(headers, m.Label())
	}
	if err := writeHeader(f, SheetKPIs, headers, styles.header); err != nil {
		return err
	}

	for i, card := range result.Technicians() {
		rowNum := i + 2
		row := []interface{}{card.Technician}
		for _, m := range metrics {
			if m.Family() == domain.FamilyCount {
				row = append(row, int(card.Value(m)))
			} else {
				row = append(row, card.Value(m))
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(SheetKPIs, cell, &row); err != nil {
			return fmt.Errorf("write KPI row %d: %w", rowNum, err)
		}
		for j, m := range metrics {
			cell, _ := excelize.CoordinatesToCellName(j+2, rowNum)
			if err := f.SetCellStyle(SheetKPIs, cell, cell, styles.bands[card.Bands[m]]); err != nil {
				return fmt.Errorf("style KPI cell %s: %w", cell, err)
			}
		}
	}
	return nil
}

func writeServicesSheet(f *excelize.File, result *kpi.Result, styles workbookStyles) error {
	if err := writeHeader(f, SheetServices, []string{"Technician", "Service", "Count"}, styles.header); err != nil {
		return err
	}
	for i, sc := range result.Views().Services {
		row := []interface{}{sc.Technician, string(sc.Service), sc.Count}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetServices, cell, &row); err != nil {
			return fmt.Errorf("write service row: %w", err)
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, result *kpi.Result, styles workbookStyles) error {
	if err := writeHeader(f, SheetSummary, []string{"Measure", "Value"}, styles.header); err != nil {
		return err
	}
	s := result.Summary()
	rows := [][]interface{}{
		{"Date Range", result.RangeLabel()},
		{"Total Technicians", s.TotalTechnicians},
		{"Total Revenue", s.TotalRevenue},
		{"Average Efficiency", s.AverageEfficiency},
		{"Average Ticket Value", s.AverageTicketValue},
		{"Generated At", result.GeneratedAt().UTC().Format("2006-01-02 15:04:05")},
		{"Run ID", result.RunID().String()},
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetSummary, cell, &rows[i]); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}
	return nil
}

func writeIssuesSheet(f *excelize.File, result *kpi.Result, styles workbookStyles) error {
	if err := writeHeader(f, SheetIssues, []string{"Report", "Row", "Column", "Value", "Reason"}, styles.header); err != nil {
		return err
	}
	for i, issue := range result.Issues() {
		row := []interface{}{issue.Table.DisplayName(), issue.Row, issue.Column, issue.Value, issue.Reason}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetIssues, cell, &row); err != nil {
			return fmt.Errorf("write issue row: %w", err)
		}
	}
	return nil
}
