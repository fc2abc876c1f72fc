package kpi

import (
	"techkpi/pkg/contracts/domain"
)

// TechnicianValue is one bar of a per-technician comparison chart
type TechnicianValue struct {
	Technician string  `json:"technician"`
	Value      float64 `json:"value"`
}

// ServiceCount is one row of the long-form service breakdown
type ServiceCount struct {
	Technician string  `json:"technician"`
	Service    Service `json:"service"`
	Count      int     `json:"count"`
}

// Views holds the data behind the three dashboard charts
type Views struct {
	Revenue    []TechnicianValue `json:"revenue"`
	Efficiency []TechnicianValue `json:"efficiency"`
	Services   []ServiceCount    `json:"services"`
}

// BuildViews derives all three chart views from records
func BuildViews(records []domain.KPIRecord) Views {
	return Views{
		Revenue:    RevenueView(records),
		Efficiency: EfficiencyView(records),
		Services:   ServiceBreakdown(records),
	}
}

// RevenueView maps each technician to Weekly Revenue
func RevenueView(records []domain.KPIRecord) []TechnicianValue {
	return metricView(records, domain.MetricWeeklyRevenue)
}

// EfficiencyView maps each technician to Job Efficiency
func EfficiencyView(records []domain.KPIRecord) []TechnicianValue {
	return metricView(records, domain.MetricJobEfficiency)
}

func metricView(records []domain.KPIRecord, m domain.Metric) []TechnicianValue {
	out := make([]TechnicianValue, len(records))
	for i, r := range records {
		out[i] = TechnicianValue{Technician: r.Technician, Value: r.Value(m)}
	}
	return out
}

// ServiceBreakdown emits one (technician, service, count) row per technician
// and tracked service, zero counts included.
func ServiceBreakdown(records []domain.KPIRecord) []ServiceCount {
	out := make([]ServiceCount, 0, len(records)*len(Services()))
	for _, r := range records {
		out = append(out,
			ServiceCount{Technician: r.Technician, Service: ServiceHydroJetting, Count: r.HydroJettingJobs},
			ServiceCount{Technician: r.Technician, Service: ServiceDescaling, Count: r.DescalingJobs},
			ServiceCount{Technician: r.Technician, Service: ServiceWaterHeater, Count: r.WaterHeaterJobs},
		)
	}
	return out
}

// Summary holds the dashboard totals across technicians
type Summary struct {
	TotalTechnicians   int     `json:"total_technicians"`
	TotalRevenue       float64 `json:"total_revenue"`
	AverageEfficiency  float64 `json:"average_efficiency"`
	AverageTicketValue float64 `json:"average_ticket_value"`
}

// Summarize computes the dashboard totals. AverageTicketValue divides total
// revenue by the sum of per-technician ticket values, floored at 1.
func Summarize(records []domain.KPIRecord) Summary {
	if len(records) == 0 {
		return Summary{}
	}

	var revenue, efficiency, tickets float64
	for _, r := range records {
		revenue += r.WeeklyRevenue
		efficiency += r.JobEfficiency
		tickets += r.AverageTicketValue
	}

	return Summary{
		TotalTechnicians:   len(records),
		TotalRevenue:       RoundCurrency(revenue),
		AverageEfficiency:  RoundPercentage(efficiency / float64(len(records))),
		AverageTicketValue: RoundCurrency(revenue / max(tickets, 1)),
	}
}
