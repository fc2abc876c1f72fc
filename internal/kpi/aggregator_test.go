package kpi

import (
	"context"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techkpi/internal/shared/testutil"
	"techkpi/pkg/contracts/domain"
)

func f(v float64) *float64 { return &v }

func TestAggregator_Compute_Scenarios(t *testing.T) {
	agg := NewAggregator(nil, Options{})

	tests := []struct {
		name   string
		tables domain.Tables
		tech   string
		want   domain.KPIRecord
	}{
		{
			name: "single won membership opportunity",
			tables: domain.Tables{
				Opportunities: []domain.Opportunity{
					{Row: 2, Owner: "A", Status: "Won", Revenue: f(600), Membership: "Yes"},
				},
			},
			tech: "A",
			want: domain.KPIRecord{
				Technician:         "A",
				AverageTicketValue: 600.00,
				JobCloseRate:       100.0,
				WeeklyRevenue:      600.00,
				JobEfficiency:      0.0,
				MembershipWinRate:  100.0,
			},
		},
		{
			name: "appointments only",
			tables: domain.Tables{
				Appointments: []domain.Appointment{
					{Row: 2, Technician: "D", Status: "Completed", Revenue: f(200)},
				},
			},
			tech: "D",
			want: domain.KPIRecord{
				Technician:         "D",
				AverageTicketValue: 200.00,
				JobCloseRate:       0.0,
				WeeklyRevenue:      200.00,
			},
		},
		{
			name: "mixed tables",
			tables: domain.Tables{
				Opportunities: []domain.Opportunity{
					{Owner: "B", Status: "Won", Revenue: f(1000), Membership: "Yes"},
					{Owner: "B", Status: "Won", Revenue: f(500.25), Membership: "No"},
					{Owner: "B", Status: "Lost", Revenue: f(100), Membership: "Yes"},
				},
				Appointments: []domain.Appointment{
					{Technician: "B", Revenue: f(300.5)},
					{Technician: "B"},
				},
				JobTimes: []domain.JobTime{
					{Owner: "B", Efficiency: f(90)},
					{Owner: "B", Efficiency: f(75)},
					{Owner: "B"},
				},
				LineItems: []domain.LineItem{
					{Owner: "B", LineItem: "Hydro Jetting"},
					{Owner: "B", LineItem: "Hydro Jetting"},
					{Owner: "B", LineItem: "Descaling"},
					{Owner: "B", LineItem: "Water Heater"},
					{Owner: "B", LineItem: "Drain Cleaning"},
					{Owner: "B", LineItem: "hydro jetting"},
				},
			},
			tech: "B",
			want: domain.KPIRecord{
				Technician:         "B",
				AverageTicketValue: 950.38, // 1900.75 / 2
				JobCloseRate:       66.7,
				WeeklyRevenue:      1900.75,
				JobEfficiency:      82.5,
				MembershipWinRate:  50.0,
				HydroJettingJobs:   2,
				DescalingJobs:      1,
				WaterHeaterJobs:    1,
			},
		},
		{
			name: "line items only",
			tables: domain.Tables{
				LineItems: []domain.LineItem{{Owner: "C", LineItem: "Descaling"}},
			},
			tech: "C",
			want: domain.KPIRecord{Technician: "C", DescalingJobs: 1},
		},
		{
			name: "job times only with missing efficiency",
			tables: domain.Tables{
				JobTimes: []domain.JobTime{{Owner: "E"}},
			},
			tech: "E",
			want: domain.KPIRecord{Technician: "E"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := agg.Compute(tt.tables)
			require.Len(t, got, 1)
			require.Contains(t, got, tt.tech)
			assert.Equal(t, tt.want, got[tt.tech])
		})
	}
}

func TestAggregator_Compute_Universe(t *testing.T) {
	agg := NewAggregator(nil, Options{})

	tables := domain.Tables{
		Opportunities: []domain.Opportunity{
			{Owner: "Ann"}, {Owner: ""}, {Owner: "Ann"}, {Owner: "ann"},
		},
		LineItems:    []domain.LineItem{{Owner: "Bob"}, {Owner: "   "}},
		JobTimes:     []domain.JobTime{{Owner: "Cat"}, {Owner: "Ann "}},
		Appointments: []domain.Appointment{{Technician: "Dan"}, {Technician: "Bob"}},
	}

	got := agg.Compute(tables)

	names := make([]string, 0, len(got))
	for name := range got {
		names = append(names, name)
	}
	assert.ElementsMatch(t, []string{"Ann", "ann", "Ann ", "Bob", "Cat", "Dan"}, names)
	assert.Equal(t, 0.0, got["Ann"].JobCloseRate)
}

func TestAggregator_Compute_Empty(t *testing.T) {
	agg := NewAggregator(nil, Options{})
	assert.Empty(t, agg.Compute(domain.Tables{}))
}

func TestAggregator_Compute_Idempotent(t *testing.T) {
	agg := NewAggregator(nil, Options{})
	tables := domain.Tables{
		Opportunities: []domain.Opportunity{{Owner: "A", Status: "Won", Revenue: f(123.456)}},
		JobTimes:      []domain.JobTime{{Owner: "B", Efficiency: f(66.66)}},
	}
	assert.Equal(t, agg.Compute(tables), agg.Compute(tables))
}

func TestAggregator_Compute_NonFiniteValuesSkipped(t *testing.T) {
	agg := NewAggregator(nil, Options{})

	got := agg.Compute(domain.Tables{
		Opportunities: []domain.Opportunity{
			{Owner: "A", Status: "Won", Revenue: f(1500)},
			{Owner: "A", Status: "Won", Revenue: f(math.NaN())},
		},
		Appointments: []domain.Appointment{
			{Technician: "A", Revenue: f(math.Inf(1))},
			{Technician: "A", Revenue: f(100)},
		},
		JobTimes: []domain.JobTime{
			{Owner: "A", Efficiency: f(80)},
			{Owner: "A", Efficiency: f(math.Inf(-1))},
		},
	})

	a := got["A"]
	assert.Equal(t, 1600.0, a.WeeklyRevenue)
	assert.Equal(t, 800.0, a.AverageTicketValue)
	assert.Equal(t, 80.0, a.JobEfficiency)
	assert.Equal(t, 100.0, a.JobCloseRate)
}

func TestAggregator_Compute_KeywordMatching(t *testing.T) {
	agg := NewAggregator(nil, Options{MatchMode: MatchKeyword})

	got := agg.Compute(domain.Tables{
		LineItems: []domain.LineItem{
			{Owner: "A", LineItem: "Hydro Jetting - Main Line"},
			{Owner: "A", LineItem: "high pressure jet"},
			{Owner: "A", LineItem: "Tankless Descaling"},
			{Owner: "A", LineItem: "Hot Water Tank Replacement"},
			{Owner: "A", LineItem: "Drain Cleaning"},
		},
	})

	assert.Equal(t, 2, got["A"].HydroJettingJobs)
	assert.Equal(t, 1, got["A"].DescalingJobs)
	assert.Equal(t, 1, got["A"].WaterHeaterJobs)
}

func TestAggregator_Aggregate(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	now := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	agg := NewAggregator(logger, Options{Now: func() time.Time { return now }})

	rng := domain.NewDateRange(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC))
	issues := []domain.RowIssue{{Table: domain.TableJobTimes, Row: 3, Column: "Job Efficiency", Reason: "not a number"}}

	res := agg.Aggregate(context.Background(), Input{
		Tables: domain.Tables{
			Opportunities: []domain.Opportunity{{Owner: "Zed", Status: "Won", Revenue: f(1200)}},
			Appointments:  []domain.Appointment{{Technician: "Amy", Revenue: f(200)}},
		},
		Range:  rng,
		Issues: issues,
		Source: "upload",
	})

	require.NotNil(t, res)
	assert.Equal(t, "2024-01-01 to 2024-01-07", res.RangeLabel())
	assert.Equal(t, now, res.GeneratedAt())
	assert.Equal(t, "upload", res.Source())
	assert.Equal(t, 2, res.Len())
	assert.Equal(t, issues, res.Issues())
	assert.Equal(t, 1, res.RowCounts()[domain.TableOpportunities])

	records := res.Records()
	assert.Equal(t, "Amy", records[0].Technician)
	assert.Equal(t, "Zed", records[1].Technician)

	zed, ok := res.Technician("Zed")
	require.True(t, ok)
	assert.Equal(t, domain.BandGood, zed.Bands[domain.MetricWeeklyRevenue])
	assert.Equal(t, domain.BandGood, zed.Bands[domain.MetricJobCloseRate])
	assert.Equal(t, domain.BandPoor, zed.Bands[domain.MetricJobEfficiency])

	_, ok = res.Technician("Nobody")
	assert.False(t, ok)

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "kpis computed")
	testutil.AssertLogAttr(t, handler, "technicians", int64(2))
}

func TestResult_Copies(t *testing.T) {
	agg := NewAggregator(nil, Options{})
	res := agg.Aggregate(context.Background(), Input{
		Tables: domain.Tables{Opportunities: []domain.Opportunity{{Owner: "A", Status: "Won", Revenue: f(10)}}},
		Issues: []domain.RowIssue{{Row: 1}},
	})

	records := res.Records()
	records[0].WeeklyRevenue = 1e9
	card, _ := res.Technician("A")
	card.Bands[domain.MetricWeeklyRevenue] = domain.BandGood
	res.Issues()[0].Row = 99

	again, _ := res.Technician("A")
	assert.Equal(t, 10.0, res.Records()[0].WeeklyRevenue)
	assert.Equal(t, domain.BandPoor, again.Bands[domain.MetricWeeklyRevenue])
	assert.Equal(t, 1, res.Issues()[0].Row)
}

func TestResult_MarshalJSON(t *testing.T) {
	agg := NewAggregator(nil, Options{})
	res := agg.Aggregate(context.Background(), Input{
		Tables: domain.Tables{Opportunities: []domain.Opportunity{{Owner: "A", Status: "Won", Revenue: f(600), Membership: "Yes"}}},
		Range:  domain.NewDateRange(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)),
	})

	data, err := res.MarshalJSON()
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"range_label":"2024-01-01 to 2024-01-07"`)
	assert.Contains(t, s, `"technician":"A"`)
	assert.Contains(t, s, `"avg_ticket_value":600`)
	assert.Contains(t, s, `"avg_ticket_value":"warning"`)
	assert.Contains(t, s, `"run_id":"`+res.RunID().String()+`"`)
}
