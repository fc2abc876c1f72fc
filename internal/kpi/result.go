package kpi

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"

	"techkpi/pkg/contracts/domain"
)

// TechnicianKPIs is a KPI record with the band of each metric
type TechnicianKPIs struct {
	domain.KPIRecord
	Bands map[domain.Metric]domain.Band `json:"bands"`
}

// Result is the outcome of one processing action. It is never modified after
// construction; accessors return copies.
type Result struct {
	runID       uuid.UUID
	rng         domain.DateRange
	generatedAt time.Time
	source      string
	records     []domain.KPIRecord
	index       map[string]int
	bands       []map[domain.Metric]domain.Band
	rowCounts   map[domain.TableName]int
	issues      []domain.RowIssue
	summary     Summary
}

func newResult(id uuid.UUID, in Input, byTech map[string]domain.KPIRecord, th Thresholds, now time.Time) *Result {
	records := make([]domain.KPIRecord, 0, len(byTech))
	for _, r := range byTech {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Technician < records[j].Technician
	})

	index := make(map[string]int, len(records))
	bands := make([]map[domain.Metric]domain.Band, len(records))
	for i, r := range records {
		index[r.Technician] = i
		bands[i] = th.ClassifyRecord(r)
	}

	issues := make([]domain.RowIssue, len(in.Issues))
	copy(issues, in.Issues)

	return &Result{
		runID:       id,
		rng:         in.Range,
		generatedAt: now,
		source:      in.Source,
		records:     records,
		index:       index,
		bands:       bands,
		rowCounts:   in.Tables.Counts(),
		issues:      issues,
		summary:     Summarize(records),
	}
}

// RunID identifies the processing action
func (r *Result) RunID() uuid.UUID { return r.runID }

// Range is the active date range
func (r *Result) Range() domain.DateRange { return r.rng }

// RangeLabel is the human-readable range, e.g. "2024-01-01 to 2024-01-07"
func (r *Result) RangeLabel() string { return r.rng.Label() }

// GeneratedAt is when the result was computed
func (r *Result) GeneratedAt() time.Time { return r.generatedAt }

// Source is "upload" or "demo"
func (r *Result) Source() string { return r.source }

// Empty reports whether no technician was found
func (r *Result) Empty() bool { return len(r.records) == 0 }

// Len returns the number of technicians
func (r *Result) Len() int { return len(r.records) }

// Records returns the KPI records sorted by technician name
func (r *Result) Records() []domain.KPIRecord {
	out := make([]domain.KPIRecord, len(r.records))
	copy(out, r.records)
	return out
}

// ByTechnician returns the technician to KPI record mapping
func (r *Result) ByTechnician() map[string]domain.KPIRecord {
	out := make(map[string]domain.KPIRecord, len(r.records))
	for _, rec := range r.records {
		out[rec.Technician] = rec
	}
	return out
}

// Technician returns one technician's record and bands
func (r *Result) Technician(name string) (TechnicianKPIs, bool) {
	i, ok := r.index[name]
	if !ok {
		return TechnicianKPIs{}, false
	}
	return r.card(i), true
}

// Technicians returns every record with its bands
func (r *Result) Technicians() []TechnicianKPIs {
	out := make([]TechnicianKPIs, len(r.records))
	for i := range r.records {
		out[i] = r.card(i)
	}
	return out
}

func (r *Result) card(i int) TechnicianKPIs {
	bands := make(map[domain.Metric]domain.Band, len(r.bands[i]))
	for m, b := range r.bands[i] {
		bands[m] = b
	}
	return TechnicianKPIs{KPIRecord: r.records[i], Bands: bands}
}

// RowCounts returns the filtered row count per table
func (r *Result) RowCounts() map[domain.TableName]int {
	out := make(map[domain.TableName]int, len(r.rowCounts))
	for k, v := range r.rowCounts {
		out[k] = v
	}
	return out
}

// Issues returns the cells flagged while loading
func (r *Result) Issues() []domain.RowIssue {
	out := make([]domain.RowIssue, len(r.issues))
	copy(out, r.issues)
	return out
}

// Summary returns the dashboard totals
func (r *Result) Summary() Summary { return r.summary }

// Views returns the three chart views
func (r *Result) Views() Views { return BuildViews(r.records) }

type resultJSON struct {
	RunID       string                   `json:"run_id"`
	Range       domain.DateRange         `json:"range"`
	RangeLabel  string                   `json:"range_label"`
	GeneratedAt time.Time                `json:"generated_at"`
	Source      string                   `json:"source,omitempty"`
	Technicians []TechnicianKPIs         `json:"technicians"`
	Summary     Summary                  `json:"summary"`
	RowCounts   map[domain.TableName]int `json:"row_counts"`
	Issues      []domain.RowIssue        `json:"issues"`
}

// MarshalJSON renders the result for the API
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{
		RunID:       r.runID.String(),
		Range:       r.rng,
		RangeLabel:  r.RangeLabel(),
		GeneratedAt: r.generatedAt,
		Source:      r.source,
		Technicians: r.Technicians(),
		Summary:     r.summary,
		RowCounts:   r.RowCounts(),
		Issues:      r.Issues(),
	})
}
