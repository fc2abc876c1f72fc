package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ReportExtensions are the workbook formats the report loader reads
var ReportExtensions = []string{".xlsx", ".xlsm", ".xls"}

// ReportValidator checks report files and output directories named on the
// command line before any processing starts
type ReportValidator struct {
	logger *slog.Logger
}

// NewReportValidator creates a new report validator
func NewReportValidator(logger *slog.Logger) *ReportValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportValidator{logger: logger}
}

// ValidateReportFile checks that path is a readable workbook and not an
// Office lock file
func (v *ReportValidator) ValidateReportFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Report file does not exist", slog.String("file", path))
		return fmt.Errorf("report %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat report %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Report path is a directory", slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a report", path)
	}

	if !IsReportFile(path) {
		v.logger.Error("Report is not an Excel workbook",
			slog.String("file", path),
			slog.String("extension", filepath.Ext(path)))
		return fmt.Errorf("report %s is not an Excel workbook (extension: %s)", path, filepath.Ext(path))
	}
	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("Refusing Excel lock file", slog.String("file", path))
		return fmt.Errorf("report %s is an Excel lock file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("report %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("Report file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory creates dir if needed and checks it is writable
func (v *ReportValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)
	return nil
}

// IsReportFile reports whether name carries a workbook extension
func IsReportFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range ReportExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
