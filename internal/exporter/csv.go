package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"techkpi/internal/config"
	apierrors "techkpi/internal/errors"
	"techkpi/internal/kpi"
	"techkpi/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths *config.Paths
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{paths: paths}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// Encode writes headers and records to w
func Encode(w io.Writer, options WriteOptions) error {
	if options.BOMPrefix && !options.Append {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)

	if !options.Append && len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteCSV writes data to a CSV file with the given options. Relative paths
// are placed in the export directory.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	slog.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return apierrors.NewStorageError("failed to create export directory", err).WithContext("path", fullPath)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(fullPath, flags, 0644)
	if err != nil {
		return apierrors.NewStorageError("failed to open export file", err).WithContext("path", fullPath)
	}

	if err := Encode(file, options); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// KPIHeaders are the column titles of the KPI export
func KPIHeaders() []string {
	headers := []string{"Technician"}
	for _, m := range domain.AllMetrics() {
		headers = append(headers, m.Label())
	}
	for _, m := range domain.AllMetrics() {
		headers = append(headers, m.Label()+" Band")
	}
	return headers
}

// KPIRows renders one row per technician: the eight values followed by their bands
func KPIRows(result *kpi.Result) [][]string {
	cards := result.Technicians()
	rows := make([][]string, 0, len(cards))
	for _, c := range cards {
		row := make([]string, 0, 1+2*len(domain.AllMetrics()))
		row = append(row, c.Technician)
		for _, m := range domain.AllMetrics() {
			row = append(row, FormatMetric(m, c.Value(m)))
		}
		for _, m := range domain.AllMetrics() {
			row = append(row, string(c.Bands[m]))
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteKPIs streams the KPI table of result to w
func (w *CSVWriter) WriteKPIs(out io.Writer, result *kpi.Result, bom bool) error {
	return Encode(out, WriteOptions{
		Headers:   KPIHeaders(),
		Records:   KPIRows(result),
		BOMPrefix: bom,
	})
}

// ExportKPIs writes the KPI table to filename in the export directory and
// returns the full path.
func (w *CSVWriter) ExportKPIs(filename string, result *kpi.Result) (string, error) {
	if err := w.WriteCSV(filename, WriteOptions{
		Headers:   KPIHeaders(),
		Records:   KPIRows(result),
		BOMPrefix: true,
	}); err != nil {
		return "", err
	}
	return w.resolvePath(filename), nil
}

// resolvePath resolves a relative path into the export directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.paths == nil {
		return filePath
	}
	return w.paths.ExportPath(filePath)
}
