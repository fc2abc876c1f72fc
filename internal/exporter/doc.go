// Package exporter writes a KPI result out of the process.
//
// CSVWriter: the KPI table as CSV, one row per technician with the eight
// metric values followed by their performance bands. A UTF-8 BOM can be
// prefixed for Excel.
//
// WriteWorkbook: an .xlsx workbook with the sheets KPIs (cells filled by
// band), Services (long-form technician, service, count), Summary and Issues.
//
// ChartRenderer: PNG bar charts for revenue, efficiency and the service
// breakdown.
//
// Example usage:
//
//	csvWriter := exporter.NewCSVWriter(paths)
//	path, err := csvWriter.ExportKPIs("kpis_2024-01-01.csv", result)
//
//	var buf bytes.Buffer
//	err = exporter.NewChartRenderer().Render(&buf, result, exporter.ChartRevenue)
package exporter
