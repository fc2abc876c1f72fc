package kpi

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"techkpi/pkg/contracts/domain"
)

// Input is one processing action's filtered tables
type Input struct {
	Tables domain.Tables
	Range  domain.DateRange
	Issues []domain.RowIssue
	Source string
}

// Options configures an Aggregator
type Options struct {
	MatchMode  MatchMode
	Thresholds Thresholds
	// Now is used for GeneratedAt; defaults to time.Now
	Now func() time.Time
}

// Aggregator groups filtered rows by technician and computes the eight KPIs
type Aggregator struct {
	logger     *slog.Logger
	match      MatchMode
	thresholds Thresholds
	now        func() time.Time
}

// NewAggregator creates an aggregator. A nil logger falls back to slog.Default().
func NewAggregator(logger *slog.Logger, opts Options) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MatchMode == "" {
		opts.MatchMode = MatchExact
	}
	if opts.Thresholds == nil {
		opts.Thresholds = DefaultThresholds()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Aggregator{
		logger:     logger.With(slog.String("component", "aggregator")),
		match:      opts.MatchMode,
		thresholds: opts.Thresholds,
		now:        opts.Now,
	}
}

// tally accumulates one technician's rows before the metrics are derived
type tally struct {
	revenue    float64
	won        int
	total      int
	members    int
	memberWins int
	effSum     float64
	effCount   int
	services   map[Service]int
}

// technicianOf is the single place a row is mapped to its technician.
// Blank names are not a technician.
func technicianOf(row domain.Row) (string, bool) {
	name := row.TechnicianKey()
	if strings.TrimSpace(name) == "" {
		return "", false
	}
	return name, true
}

// Compute returns one KPI record per technician found in tables.
// It never fails; empty tables produce an empty map.
func (a *Aggregator) Compute(tables domain.Tables) map[string]domain.KPIRecord {
	tallies := make(map[string]*tally)
	get := func(row domain.Row) *tally {
		name, ok := technicianOf(row)
		if !ok {
			return nil
		}
		t, ok := tallies[name]
		if !ok {
			t = &tally{services: make(map[Service]int, 3)}
			tallies[name] = t
		}
		return t
	}

	for _, o := range tables.Opportunities {
		t := get(o)
		if t == nil {
			continue
		}
		t.total++
		if v, ok := finite(o.Revenue); ok {
			t.revenue += v
		}
		if o.Won() {
			t.won++
		}
		if o.MembershipOpportunity() {
			t.members++
			if o.Won() {
				t.memberWins++
			}
		}
	}

	for _, ap := range tables.Appointments {
		t := get(ap)
		if t == nil {
			continue
		}
		if v, ok := finite(ap.Revenue); ok {
			t.revenue += v
		}
	}

	for _, j := range tables.JobTimes {
		t := get(j)
		if t == nil {
			continue
		}
		if v, ok := finite(j.Efficiency); ok {
			t.effSum += v
			t.effCount++
		}
	}

	for _, li := range tables.LineItems {
		t := get(li)
		if t == nil {
			continue
		}
		if s, ok := a.match.Match(li.LineItem); ok {
			t.services[s]++
		}
	}

	out := make(map[string]domain.KPIRecord, len(tallies))
	for name, t := range tallies {
		out[name] = t.record(name)
	}
	return out
}

// finite treats NaN and Inf like a blank cell so one bad value cannot
// poison a technician's sums.
func finite(p *float64) (float64, bool) {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return 0, false
	}
	return *p, true
}

func (t *tally) record(name string) domain.KPIRecord {
	efficiency := 0.0
	if t.effCount > 0 {
		efficiency = t.effSum / float64(t.effCount)
	}
	return domain.KPIRecord{
		Technician:         name,
		AverageTicketValue: RoundCurrency(t.revenue / float64(max(t.won, 1))),
		JobCloseRate:       RoundPercentage(float64(t.won) / float64(max(t.total, 1)) * 100),
		WeeklyRevenue:      RoundCurrency(t.revenue),
		JobEfficiency:      RoundPercentage(efficiency),
		MembershipWinRate:  RoundPercentage(float64(t.memberWins) / float64(max(t.members, 1)) * 100),
		HydroJettingJobs:   t.services[ServiceHydroJetting],
		DescalingJobs:      t.services[ServiceDescaling],
		WaterHeaterJobs:    t.services[ServiceWaterHeater],
	}
}

// Aggregate computes the KPI records for in and wraps them, with their
// bands and summary, in a new Result.
func (a *Aggregator) Aggregate(ctx context.Context, in Input) *Result {
	start := time.Now()
	records := a.Compute(in.Tables)

	res := newResult(uuid.New(), in, records, a.thresholds, a.now())

	a.logger.InfoContext(ctx, "kpis computed",
		slog.String("run_id", res.RunID().String()),
		slog.String("range", res.RangeLabel()),
		slog.Int("technicians", len(records)),
		slog.Duration("duration", time.Since(start)))

	return res
}
