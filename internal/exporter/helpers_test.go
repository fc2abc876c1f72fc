package exporter

import (
	"context"
	"testing"
	"time"

	"techkpi/internal/kpi"
	"techkpi/pkg/contracts/domain"
)

func fp(v float64) *float64 { return &v }

// testResult builds a two-technician result for the first week of 2024
func testResult(t *testing.T) *kpi.Result {
	t.Helper()

	agg := kpi.NewAggregator(nil, kpi.Options{
		Now: func() time.Time { return time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC) },
	})
	return agg.Aggregate(context.Background(), kpi.Input{
		Tables: domain.Tables{
			Opportunities: []domain.Opportunity{
				{Owner: "Amy", Status: "Won", Revenue: fp(1234.5), Membership: "Yes"},
			},
			Appointments: []domain.Appointment{
				{Technician: "Bob", Revenue: fp(200)},
			},
			JobTimes: []domain.JobTime{
				{Owner: "Amy", Efficiency: fp(66.66)},
			},
			LineItems: []domain.LineItem{
				{Owner: "Bob", LineItem: "Descaling"},
			},
		},
		Range: domain.NewDateRange(
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)),
		Issues: []domain.RowIssue{
			{Table: domain.TableJobTimes, Row: 4, Column: "Job Efficiency", Value: "abc", Reason: "not a number"},
		},
		Source: "upload",
	})
}

func emptyResult() *kpi.Result {
	return kpi.NewAggregator(nil, kpi.Options{}).Aggregate(context.Background(), kpi.Input{})
}
