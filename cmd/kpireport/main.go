package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"

	"techkpi/internal/config"
	"techkpi/internal/dataprocessing"
	"techkpi/internal/exporter"
	"techkpi/internal/infrastructure"
	"techkpi/internal/kpi"
	"techkpi/internal/services"
	"techkpi/internal/validation"
	"techkpi/pkg/contracts"
	"techkpi/pkg/contracts/domain"
)

// options are the parsed command line flags
type options struct {
	configFile string
	version    bool
	demo       bool
	start, end string
	files      map[domain.TableName]string
	csvPath    string
	xlsxPath   string
	chartsDir  string
}

func parseFlags(fs *flag.FlagSet, args []string) (*options, error) {
	opts := &options{files: make(map[domain.TableName]string)}

	fs.StringVar(&opts.configFile, "config", "", "YAML config file (defaults to KPI_CONFIG_FILE or ./config.yaml)")
	fs.BoolVar(&opts.version, "version", false, "print the build version and exit")
	fs.BoolVar(&opts.demo, "demo", false, "use generated sample data instead of report files")
	fs.StringVar(&opts.start, "start", "", "first date of the range, YYYY-MM-DD (defaults to this week's Monday)")
	fs.StringVar(&opts.end, "end", "", "last date of the range, YYYY-MM-DD")
	fs.StringVar(&opts.csvPath, "csv", "", "write the KPI table as CSV to this file")
	fs.StringVar(&opts.xlsxPath, "xlsx", "", "write the KPI workbook to this file")
	fs.StringVar(&opts.chartsDir, "charts", "", "write the revenue, efficiency and services charts as PNG into this directory")

	paths := make(map[domain.TableName]*string)
	for _, table := range domain.AllTables() {
		flagName := strings.ReplaceAll(string(table), "_", "-")
		paths[table] = fs.String(flagName, "", table.DisplayName()+" report (.xlsx or .xls)")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	for table, p := range paths {
		if *p != "" {
			opts.files[table] = *p
		}
	}

	if (opts.start == "") != (opts.end == "") {
		return nil, errors.New("-start and -end must be given together")
	}
	return opts, nil
}

// dateRange returns the requested range, zero when none was given
func (o *options) dateRange() (domain.DateRange, error) {
	if o.start == "" {
		return domain.DateRange{}, nil
	}
	return domain.ParseDateRange(o.start, o.end)
}

// openSources validates and opens every report file that was named. The
// returned closer closes all of them.
func (o *options) openSources(v *validation.ReportValidator) (map[domain.TableName]dataprocessing.Source, func(), error) {
	sources := make(map[domain.TableName]dataprocessing.Source, len(o.files))
	var opened []*os.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	for table, path := range o.files {
		if err := v.ValidateReportFile(path); err != nil {
			closeAll()
			return nil, nil, &dataprocessing.ParseError{Table: table, File: filepath.Base(path), Err: err}
		}
		f, err := os.Open(path)
		if err != nil {
			closeAll()
			return nil, nil, &dataprocessing.ParseError{Table: table, File: filepath.Base(path), Err: err}
		}
		opened = append(opened, f)
		sources[table] = dataprocessing.Source{Filename: filepath.Base(path), Reader: f}
	}
	return sources, closeAll, nil
}

var bandMarks = map[domain.Band]string{
	domain.BandGood:    "+",
	domain.BandWarning: "~",
	domain.BandPoor:    "-",
}

// renderTable prints one row per technician with each value followed by its band mark
func renderTable(w io.Writer, result *kpi.Result) {
	table := tablewriter.NewWriter(w)

	header := []string{"Technician"}
	for _, m := range domain.AllMetrics() {
		header = append(header, m.Label())
	}
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)

	for _, card := range result.Technicians() {
		row := []string{card.Technician}
		for _, m := range domain.AllMetrics() {
			row = append(row, exporter.DisplayMetric(m, card.Value(m))+" "+bandMarks[card.Bands[m]])
		}
		table.Append(row)
	}
	table.Render()
}

// renderSummary prints the team totals under the table
func renderSummary(w io.Writer, result *kpi.Result) {
	s := result.Summary()
	fmt.Fprintf(w, "\n%s (%s)\n", result.RangeLabel(), result.Source())
	fmt.Fprintf(w, "Technicians: %d  Revenue: %s  Avg efficiency: %s  Avg ticket: %s\n",
		s.TotalTechnicians,
		exporter.DisplayMetric(domain.MetricWeeklyRevenue, s.TotalRevenue),
		exporter.DisplayMetric(domain.MetricJobEfficiency, s.AverageEfficiency),
		exporter.DisplayMetric(domain.MetricAverageTicketValue, s.AverageTicketValue))
	if n := len(result.Issues()); n > 0 {
		fmt.Fprintf(w, "Flagged cells: %d\n", n)
	}
}

// writeOutputs writes the optional CSV, workbook and chart files
func writeOutputs(opts *options, result *kpi.Result, v *validation.ReportValidator, logger *slog.Logger) error {
	if opts.csvPath != "" {
		path, err := exporter.NewCSVWriter(nil).ExportKPIs(opts.csvPath, result)
		if err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		logger.Info("CSV written", slog.String("path", path))
	}

	if opts.xlsxPath != "" {
		if err := writeFile(opts.xlsxPath, func(w io.Writer) error {
			return exporter.WriteWorkbook(w, result)
		}); err != nil {
			return fmt.Errorf("write workbook: %w", err)
		}
		logger.Info("Workbook written", slog.String("path", opts.xlsxPath))
	}

	if opts.chartsDir != "" {
		if err := v.ValidateOutputDirectory(opts.chartsDir); err != nil {
			return err
		}
		renderer := exporter.NewChartRenderer()
		for _, c := range exporter.Charts() {
			path := filepath.Join(opts.chartsDir, string(c)+".png")
			if err := writeFile(path, func(w io.Writer) error {
				return renderer.Render(w, result, c)
			}); err != nil {
				return err
			}
			logger.Info("Chart written", slog.String("chart", string(c)), slog.String("path", path))
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

// run returns the process exit code
func run(ctx context.Context, args []string, stdout io.Writer) int {
	opts, err := parseFlags(flag.NewFlagSet("kpireport", flag.ContinueOnError), args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		slog.Error("Invalid arguments", "error", err)
		return 2
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.Banner())
		return 0
	}

	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	// Logs go to stderr so the table stays clean on stdout.
	logger := infrastructure.NewLoggerWithWriter(os.Stderr, cfg.Logging)
	slog.SetDefault(logger)

	rng, err := opts.dateRange()
	if err != nil {
		logger.Error("Invalid date range", slog.String("error", err.Error()))
		return 2
	}

	service, err := services.NewKPIService(cfg.Reports, nil, logger)
	if err != nil {
		logger.Error("Failed to create KPI service", slog.String("error", err.Error()))
		return 1
	}

	validator := validation.NewReportValidator(logger)
	req := services.ProcessRequest{Range: rng, Demo: opts.demo}
	if !opts.demo {
		sources, closeAll, err := opts.openSources(validator)
		if err != nil {
			logger.Error("Failed to open report", slog.String("error", err.Error()))
			return 1
		}
		defer closeAll()
		req.Sources = sources
	}

	result, err := service.Process(ctx, req)
	var missing *dataprocessing.MissingInputError
	var parseErr *dataprocessing.ParseError
	switch {
	case err == nil:
	case errors.Is(err, services.ErrNoData):
		fmt.Fprintf(stdout, "No data for %s\n", service.ResolveRange(rng).Label())
		return 0
	case errors.As(err, &missing):
		logger.Error("Missing reports", slog.Any("missing", missing.Names()))
		return 1
	case errors.As(err, &parseErr):
		logger.Error("Failed to read report",
			slog.String("table", string(parseErr.Table)),
			slog.String("file", parseErr.File),
			slog.String("error", parseErr.Err.Error()))
		return 1
	default:
		infrastructure.WithError(logger, err).Error("Processing failed")
		return 1
	}

	renderTable(stdout, result)
	renderSummary(stdout, result)

	if err := writeOutputs(opts, result, validator, logger); err != nil {
		logger.Error("Failed to write output", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout))
}
