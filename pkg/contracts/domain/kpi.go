package domain

// Metric names one of the eight per-technician KPIs.
type Metric string

const (
	MetricAverageTicketValue Metric = "avg_ticket_value"
	MetricJobCloseRate       Metric = "job_close_rate"
	MetricWeeklyRevenue      Metric = "weekly_revenue"
	MetricJobEfficiency      Metric = "job_efficiency"
	MetricMembershipWinRate  Metric = "membership_win_rate"
	MetricHydroJettingJobs   Metric = "hydro_jetting_jobs"
	MetricDescalingJobs      Metric = "descaling_jobs"
	MetricWaterHeaterJobs    Metric = "water_heater_jobs"
)

// AllMetrics returns the metrics in dashboard order.
func AllMetrics() []Metric {
	return []Metric{
		MetricAverageTicketValue,
		MetricJobCloseRate,
		MetricWeeklyRevenue,
		MetricJobEfficiency,
		MetricMembershipWinRate,
		MetricHydroJettingJobs,
		MetricDescalingJobs,
		MetricWaterHeaterJobs,
	}
}

// MetricFamily groups metrics that share display thresholds and rounding.
type MetricFamily string

const (
	FamilyCurrency   MetricFamily = "currency"
	FamilyPercentage MetricFamily = "percentage"
	FamilyCount      MetricFamily = "count"
)

// Family returns the metric's family. Unknown metrics are treated as counts.
func (m Metric) Family() MetricFamily {
	switch m {
	case MetricAverageTicketValue, MetricWeeklyRevenue:
		return FamilyCurrency
	case MetricJobCloseRate, MetricJobEfficiency, MetricMembershipWinRate:
		return FamilyPercentage
	}
	return FamilyCount
}

// Label is the card title for the metric.
func (m Metric) Label() string {
	switch m {
	case MetricAverageTicketValue:
		return "Average Ticket Value"
	case MetricJobCloseRate:
		return "Job Close Rate"
	case MetricWeeklyRevenue:
		return "Weekly Revenue"
	case MetricJobEfficiency:
		return "Job Efficiency"
	case MetricMembershipWinRate:
		return "Membership Win Rate"
	case MetricHydroJettingJobs:
		return "Hydro Jetting Jobs"
	case MetricDescalingJobs:
		return "Descaling Jobs"
	case MetricWaterHeaterJobs:
		return "Water Heater Jobs"
	}
	return string(m)
}

// Band is the qualitative performance tier used for display coloring.
type Band string

const (
	BandGood    Band = "good"
	BandWarning Band = "warning"
	BandPoor    Band = "poor"
)

// KPIRecord holds the eight metrics for one technician over one date range.
type KPIRecord struct {
	Technician         string  `json:"technician"`
	AverageTicketValue float64 `json:"avg_ticket_value"`
	JobCloseRate       float64 `json:"job_close_rate"`
	WeeklyRevenue      float64 `json:"weekly_revenue"`
	JobEfficiency      float64 `json:"job_efficiency"`
	MembershipWinRate  float64 `json:"membership_win_rate"`
	HydroJettingJobs   int     `json:"hydro_jetting_jobs"`
	DescalingJobs      int     `json:"descaling_jobs"`
	WaterHeaterJobs    int     `json:"water_heater_jobs"`
}

// Value returns the value of m for the record.
func (r KPIRecord) Value(m Metric) float64 {
	switch m {
	case MetricAverageTicketValue:
		return r.AverageTicketValue
	case MetricJobCloseRate:
		return r.JobCloseRate
	case MetricWeeklyRevenue:
		return r.WeeklyRevenue
	case MetricJobEfficiency:
		return r.JobEfficiency
	case MetricMembershipWinRate:
		return r.MembershipWinRate
	case MetricHydroJettingJobs:
		return float64(r.HydroJettingJobs)
	case MetricDescalingJobs:
		return float64(r.DescalingJobs)
	case MetricWaterHeaterJobs:
		return float64(r.WaterHeaterJobs)
	}
	return 0
}
