package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"techkpi/pkg/contracts/domain"
)

func sampleRecords() []domain.KPIRecord {
	return []domain.KPIRecord{
		{Technician: "A", AverageTicketValue: 600, WeeklyRevenue: 600, JobEfficiency: 80, HydroJettingJobs: 2},
		{Technician: "B", AverageTicketValue: 200, WeeklyRevenue: 200, JobEfficiency: 65.5, WaterHeaterJobs: 1},
	}
}

func TestRevenueAndEfficiencyViews(t *testing.T) {
	records := sampleRecords()

	assert.Equal(t, []TechnicianValue{{"A", 600}, {"B", 200}}, RevenueView(records))
	assert.Equal(t, []TechnicianValue{{"A", 80}, {"B", 65.5}}, EfficiencyView(records))
	assert.Empty(t, RevenueView(nil))
}

func TestServiceBreakdown(t *testing.T) {
	got := ServiceBreakdown(sampleRecords())

	assert.Equal(t, []ServiceCount{
		{Technician: "A", Service: ServiceHydroJetting, Count: 2},
		{Technician: "A", Service: ServiceDescaling, Count: 0},
		{Technician: "A", Service: ServiceWaterHeater, Count: 0},
		{Technician: "B", Service: ServiceHydroJetting, Count: 0},
		{Technician: "B", Service: ServiceDescaling, Count: 0},
		{Technician: "B", Service: ServiceWaterHeater, Count: 1},
	}, got)
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		records []domain.KPIRecord
		want    Summary
	}{
		{name: "empty", records: nil, want: Summary{}},
		{
			name:    "two technicians",
			records: sampleRecords(),
			want: Summary{
				TotalTechnicians:   2,
				TotalRevenue:       800,
				AverageEfficiency:  72.8, // 72.75
				AverageTicketValue: 1,
			},
		},
		{
			name:    "ticket sum below one",
			records: []domain.KPIRecord{{Technician: "Z", WeeklyRevenue: 0.5, AverageTicketValue: 0.25}},
			want:    Summary{TotalTechnicians: 1, TotalRevenue: 0.5, AverageTicketValue: 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.records))
		})
	}
}

func TestBuildViews(t *testing.T) {
	v := BuildViews(sampleRecords())
	assert.Len(t, v.Revenue, 2)
	assert.Len(t, v.Efficiency, 2)
	assert.Len(t, v.Services, 6)
}
