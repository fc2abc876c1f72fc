package dataprocessing

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"techkpi/pkg/contracts/domain"
)

// DefaultHeaderScanRows is how many leading rows are searched for the header
const DefaultHeaderScanRows = 10

// Parser turns raw worksheet rows into typed report records
type Parser struct {
	logger         *slog.Logger
	validate       *validator.Validate
	headerScanRows int
}

// NewParser creates a parser. A nil logger falls back to slog.Default().
func NewParser(logger *slog.Logger, headerScanRows int) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	if headerScanRows <= 0 {
		headerScanRows = DefaultHeaderScanRows
	}
	return &Parser{
		logger:         logger.With(slog.String("component", "parser")),
		validate:       validator.New(),
		headerScanRows: headerScanRows,
	}
}

// ParseOpportunities reads the Opportunities report
func (p *Parser) ParseOpportunities(sheet *Sheet) ([]domain.Opportunity, []domain.RowIssue, error) {
	return parseRows(p, schemas[domain.TableOpportunities], sheet, func(r *rowReader) domain.Opportunity {
		return domain.Opportunity{
			Row:        r.rowNum,
			Date:       r.date(ColDate),
			Owner:      r.raw(ColOpportunityOwner),
			Status:     r.text(ColStatus),
			Revenue:    r.number(ColRevenue),
			Membership: r.text(ColMembership),
			Job:        r.text(ColJob),
			Customer:   r.text(ColCustomer),
		}
	})
}

// ParseLineItems reads the Sold Line Items report
func (p *Parser) ParseLineItems(sheet *Sheet) ([]domain.LineItem, []domain.RowIssue, error) {
	return parseRows(p, schemas[domain.TableLineItems], sheet, func(r *rowReader) domain.LineItem {
		return domain.LineItem{
			Row:         r.rowNum,
			InvoiceDate: r.date(ColInvoiceDate),
			Owner:       r.raw(ColOppOwner),
			LineItem:    r.text(ColLineItem),
			Category:    r.text(ColCategory),
			Job:         r.text(ColJob),
			Quantity:    r.number(ColQuantity),
			Price:       r.number(ColPrice),
		}
	})
}

// ParseJobTimes reads the Job Times report
func (p *Parser) ParseJobTimes(sheet *Sheet) ([]domain.JobTime, []domain.RowIssue, error) {
	return parseRows(p, schemas[domain.TableJobTimes], sheet, func(r *rowReader) domain.JobTime {
		return domain.JobTime{
			Row:              r.rowNum,
			FirstAppointment: r.date(ColFirstAppointment),
			Owner:            r.raw(ColOpportunityOwner),
			Efficiency:       r.number(ColJobEfficiency),
			JobStatus:        r.text(ColJobStatus),
			Job:              r.text(ColJob),
			TotalMinutes:     r.minutes(ColTotalTime),
		}
	})
}

// ParseAppointments reads the Appointments report
func (p *Parser) ParseAppointments(sheet *Sheet) ([]domain.Appointment, []domain.RowIssue, error) {
	return parseRows(p, schemas[domain.TableAppointments], sheet, func(r *rowReader) domain.Appointment {
		return domain.Appointment{
			Row:             r.rowNum,
			ScheduledFor:    r.date(ColScheduledFor),
			Technician:      r.raw(ColTechnician),
			Status:          r.text(ColApptStatus),
			Revenue:         r.number(ColRevenue),
			Appointment:     r.text(ColAppointment),
			Job:             r.text(ColJob),
			ServiceCategory: r.text(ColServiceCategory),
		}
	})
}

func parseRows[T any](p *Parser, schema tableSchema, sheet *Sheet, build func(*rowReader) T) ([]T, []domain.RowIssue, error) {
	headerIdx, cols, err := locateHeader(sheet.Rows, schema, p.headerScanRows)
	if err != nil {
		return nil, nil, err
	}

	var (
		records []T
		issues  []domain.RowIssue
	)

	for i := headerIdx + 1; i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		if blankRow(row) {
			continue
		}

		reader := &rowReader{table: schema.table, cols: cols, row: row, rowNum: i + 1}
		rec := build(reader)
		issues = append(issues, reader.issues...)
		issues = append(issues, p.validateRecord(schema.table, reader.rowNum, rec)...)
		records = append(records, rec)
	}

	p.logger.Debug("report parsed",
		slog.String("table", string(schema.table)),
		slog.String("sheet", sheet.Name),
		slog.Int("header_row", headerIdx+1),
		slog.Int("rows", len(records)),
		slog.Int("issues", len(issues)))

	return records, issues, nil
}

// locateHeader finds the first row within scan rows that names both the
// date and technician columns, then checks the required columns.
func locateHeader(rows [][]string, schema tableSchema, scan int) (int, map[string]int, error) {
	limit := scan
	if len(rows) < limit {
		limit = len(rows)
	}

	for i := 0; i < limit; i++ {
		cols := make(map[string]int, len(rows[i]))
		for j, cell := range rows[i] {
			name := strings.TrimSpace(cell)
			if _, seen := cols[name]; name != "" && !seen {
				cols[name] = j
			}
		}

		_, hasDate := cols[schema.date]
		_, hasTech := cols[schema.technician]
		if !hasDate || !hasTech {
			continue
		}

		var missing []string
		for _, col := range schema.required {
			if _, ok := cols[col]; !ok {
				missing = append(missing, col)
			}
		}
		if len(missing) > 0 {
			return 0, nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
		}
		return i, cols, nil
	}

	return 0, nil, fmt.Errorf("no header row with %q and %q columns in the first %d rows", schema.date, schema.technician, scan)
}

var fieldColumns = map[string]string{
	"Quantity":     ColQuantity,
	"Price":        ColPrice,
	"Efficiency":   ColJobEfficiency,
	"TotalMinutes": ColTotalTime,
}

func (p *Parser) validateRecord(table domain.TableName, rowNum int, rec any) []domain.RowIssue {
	err := p.validate.Struct(rec)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []domain.RowIssue{{Table: table, Row: rowNum, Reason: err.Error()}}
	}

	issues := make([]domain.RowIssue, 0, len(verrs))
	for _, fe := range verrs {
		col, ok := fieldColumns[fe.Field()]
		if !ok {
			col = fe.Field()
		}
		issues = append(issues, domain.RowIssue{
			Table:  table,
			Row:    rowNum,
			Column: col,
			Value:  formatValue(fe.Value()),
			Reason: strings.TrimSpace("failed " + fe.Tag() + " " + fe.Param()),
		})
	}
	return issues
}

func formatValue(v any) string {
	if f, ok := v.(*float64); ok {
		if f == nil {
			return ""
		}
		return fmt.Sprint(*f)
	}
	return fmt.Sprint(v)
}

// rowReader reads typed cells from one data row and collects the cells
// that could not be coerced.
type rowReader struct {
	table  domain.TableName
	cols   map[string]int
	row    []string
	rowNum int
	issues []domain.RowIssue
}

// raw returns the cell exactly as stored; technician names are not trimmed.
func (r *rowReader) raw(col string) string {
	idx, ok := r.cols[col]
	if !ok || idx >= len(r.row) {
		return ""
	}
	return r.row[idx]
}

func (r *rowReader) text(col string) string {
	return strings.TrimSpace(r.raw(col))
}

func (r *rowReader) number(col string) *float64 {
	v, err := parseNumber(r.raw(col))
	if err != nil {
		if !errors.Is(err, errBlank) {
			r.flag(col, err)
		}
		return nil
	}
	return &v
}

func (r *rowReader) minutes(col string) *float64 {
	v, err := parseMinutes(r.raw(col))
	if err != nil {
		if !errors.Is(err, errBlank) {
			r.flag(col, err)
		}
		return nil
	}
	return &v
}

// date flags blank and unparseable dates; the zero time keeps the row out of every range.
func (r *rowReader) date(col string) time.Time {
	t, err := parseDate(r.raw(col))
	if err != nil {
		r.flag(col, err)
		return time.Time{}
	}
	return t
}

func (r *rowReader) flag(col string, err error) {
	reason := err.Error()
	if errors.Is(err, errBlank) {
		reason = "missing value"
	}
	r.issues = append(r.issues, domain.RowIssue{
		Table:  r.table,
		Row:    r.rowNum,
		Column: col,
		Value:  r.text(col),
		Reason: reason,
	})
}
