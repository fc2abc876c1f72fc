package dataprocessing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"techkpi/pkg/contracts/domain"
)

// Source is one uploaded report
type Source struct {
	Filename string
	Reader   io.Reader
}

// MissingInputError reports required tables that were not supplied.
// Processing never runs on partial input.
type MissingInputError struct {
	Tables []domain.TableName
}

func (e *MissingInputError) Error() string {
	names := make([]string, len(e.Tables))
	for i, t := range e.Tables {
		names[i] = t.DisplayName()
	}
	return "missing required reports: " + strings.Join(names, ", ")
}

// Names returns the missing table identifiers
func (e *MissingInputError) Names() []string {
	names := make([]string, len(e.Tables))
	for i, t := range e.Tables {
		names[i] = string(t)
	}
	return names
}

// ParseError reports a file that could not be read as its expected report
type ParseError struct {
	Table domain.TableName
	File  string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s (%s): %v", e.File, e.Table.DisplayName(), e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadResult is the typed content of the four reports
type LoadResult struct {
	Tables domain.Tables
	Issues []domain.RowIssue
	Files  map[domain.TableName]string
}

// IssueCount returns how many issues were flagged in one table
func (r *LoadResult) IssueCount(table domain.TableName) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Table == table {
			n++
		}
	}
	return n
}

// Loader validates that all four reports are present and parses them
type Loader struct {
	parser *Parser
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger falls back to slog.Default().
func NewLoader(logger *slog.Logger, headerScanRows int) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		parser: NewParser(logger, headerScanRows),
		logger: logger.With(slog.String("component", "loader")),
	}
}

// CheckPresence returns a MissingInputError naming every absent table
func CheckPresence(sources map[domain.TableName]Source) error {
	var missing []domain.TableName
	for _, table := range domain.AllTables() {
		src, ok := sources[table]
		if !ok || src.Reader == nil {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return &MissingInputError{Tables: missing}
	}
	return nil
}

// Load parses the four reports. Presence is checked before anything is read.
// When several files fail, the error of the first in canonical table order is returned.
func (l *Loader) Load(ctx context.Context, sources map[domain.TableName]Source) (*LoadResult, error) {
	if err := CheckPresence(sources); err != nil {
		return nil, err
	}

	start := time.Now()
	tables := domain.AllTables()

	type parsed struct {
		issues []domain.RowIssue
		err    error
	}
	var (
		out     domain.Tables
		results = make([]parsed, len(tables))
	)

	// Every table is parsed even after one fails so the reported error
	// does not depend on goroutine timing.
	var g errgroup.Group
	for i, table := range tables {
		g.Go(func() error {
			src := sources[table]
			if err := ctx.Err(); err != nil {
				results[i] = parsed{err: err}
				return err
			}
			issues, err := l.parseOne(table, src, &out)
			if err != nil {
				err = &ParseError{Table: table, File: src.Filename, Err: err}
			}
			results[i] = parsed{issues: issues, err: err}
			return err
		})
	}
	_ = g.Wait()

	result := &LoadResult{Tables: out, Files: make(map[domain.TableName]string, len(tables))}
	for i, table := range tables {
		if err := results[i].err; err != nil {
			l.logger.WarnContext(ctx, "report could not be parsed",
				slog.String("table", string(table)),
				slog.String("file", sources[table].Filename),
				slog.String("error", err.Error()))
			return nil, err
		}
		result.Issues = append(result.Issues, results[i].issues...)
		result.Files[table] = sources[table].Filename
	}

	counts := out.Counts()
	l.logger.InfoContext(ctx, "reports loaded",
		slog.Int("opportunities", counts[domain.TableOpportunities]),
		slog.Int("line_items", counts[domain.TableLineItems]),
		slog.Int("job_times", counts[domain.TableJobTimes]),
		slog.Int("appointments", counts[domain.TableAppointments]),
		slog.Int("issues", len(result.Issues)),
		slog.Duration("duration", time.Since(start)))

	return result, nil
}

// parseOne writes only the slice of out that belongs to table
func (l *Loader) parseOne(table domain.TableName, src Source, out *domain.Tables) ([]domain.RowIssue, error) {
	sheet, err := ReadSheet(src.Reader, src.Filename, table.SheetName())
	if err != nil {
		return nil, err
	}

	var issues []domain.RowIssue
	switch table {
	case domain.TableOpportunities:
		out.Opportunities, issues, err = l.parser.ParseOpportunities(sheet)
	case domain.TableLineItems:
		out.LineItems, issues, err = l.parser.ParseLineItems(sheet)
	case domain.TableJobTimes:
		out.JobTimes, issues, err = l.parser.ParseJobTimes(sheet)
	case domain.TableAppointments:
		out.Appointments, issues, err = l.parser.ParseAppointments(sheet)
	default:
		err = fmt.Errorf("unknown table %q", table)
	}
	return issues, err
}
