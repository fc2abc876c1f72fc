package kpi

import (
	"techkpi/internal/config"
	"techkpi/pkg/contracts/domain"
)

// Threshold holds the floors of the good and warning bands
type Threshold struct {
	Good    float64 `json:"good"`
	Warning float64 `json:"warning"`
}

// Thresholds are keyed by metric family, not by metric
type Thresholds map[domain.MetricFamily]Threshold

// DefaultThresholds returns the dashboard thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{
		domain.FamilyCurrency:   {Good: 1000, Warning: 500},
		domain.FamilyPercentage: {Good: 80, Warning: 60},
		domain.FamilyCount:      {Good: 10, Warning: 5},
	}
}

// ThresholdsFromConfig converts the reports configuration
func ThresholdsFromConfig(cfg config.ThresholdsConfig) Thresholds {
	return Thresholds{
		domain.FamilyCurrency:   {Good: cfg.CurrencyGood, Warning: cfg.CurrencyWarning},
		domain.FamilyPercentage: {Good: cfg.PercentageGood, Warning: cfg.PercentageWarning},
		domain.FamilyCount:      {Good: cfg.CountGood, Warning: cfg.CountWarning},
	}
}

// Classify maps a metric value to its band. Families missing from t use the defaults.
func (t Thresholds) Classify(value float64, m domain.Metric) domain.Band {
	th, ok := t[m.Family()]
	if !ok {
		th = DefaultThresholds()[m.Family()]
	}
	switch {
	case value >= th.Good:
		return domain.BandGood
	case value >= th.Warning:
		return domain.BandWarning
	default:
		return domain.BandPoor
	}
}

// Classify uses the default thresholds
func Classify(value float64, m domain.Metric) domain.Band {
	return DefaultThresholds().Classify(value, m)
}

// ClassifyRecord bands every metric of r
func (t Thresholds) ClassifyRecord(r domain.KPIRecord) map[domain.Metric]domain.Band {
	bands := make(map[domain.Metric]domain.Band, len(domain.AllMetrics()))
	for _, m := range domain.AllMetrics() {
		bands[m] = t.Classify(r.Value(m), m)
	}
	return bands
}
