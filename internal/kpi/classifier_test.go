package kpi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"techkpi/internal/config"
	"techkpi/pkg/contracts/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		metric domain.Metric
		want   domain.Band
	}{
		{"currency good boundary", 1000.0, domain.MetricAverageTicketValue, domain.BandGood},
		{"currency just below good", 999.99, domain.MetricAverageTicketValue, domain.BandWarning},
		{"currency warning boundary", 500, domain.MetricWeeklyRevenue, domain.BandWarning},
		{"currency just below warning", 499.99, domain.MetricWeeklyRevenue, domain.BandPoor},
		{"percentage good", 80, domain.MetricJobCloseRate, domain.BandGood},
		{"percentage warning", 79.9, domain.MetricJobEfficiency, domain.BandWarning},
		{"percentage warning boundary", 60, domain.MetricMembershipWinRate, domain.BandWarning},
		{"percentage poor", 59.9, domain.MetricMembershipWinRate, domain.BandPoor},
		{"count good", 10, domain.MetricHydroJettingJobs, domain.BandGood},
		{"count warning", 5, domain.MetricDescalingJobs, domain.BandWarning},
		{"count poor", 4, domain.MetricWaterHeaterJobs, domain.BandPoor},
		{"negative", -1, domain.MetricWeeklyRevenue, domain.BandPoor},
		{"infinite", math.Inf(1), domain.MetricWeeklyRevenue, domain.BandGood},
		{"nan", math.NaN(), domain.MetricJobCloseRate, domain.BandPoor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.value, tt.metric))
		})
	}
}

func TestThresholdsFromConfig(t *testing.T) {
	cfg := config.Default().Reports.Thresholds
	assert.Equal(t, DefaultThresholds(), ThresholdsFromConfig(cfg))

	cfg.CurrencyGood = 2000
	th := ThresholdsFromConfig(cfg)
	assert.Equal(t, domain.BandWarning, th.Classify(1500, domain.MetricWeeklyRevenue))
}

func TestThresholds_MissingFamilyUsesDefault(t *testing.T) {
	th := Thresholds{domain.FamilyCurrency: {Good: 1, Warning: 0}}
	assert.Equal(t, domain.BandGood, th.Classify(2, domain.MetricWeeklyRevenue))
	assert.Equal(t, domain.BandPoor, th.Classify(2, domain.MetricDescalingJobs))
}

func TestClassifyRecord(t *testing.T) {
	bands := DefaultThresholds().ClassifyRecord(domain.KPIRecord{
		AverageTicketValue: 1200,
		JobCloseRate:       65,
		HydroJettingJobs:   12,
	})

	assert.Len(t, bands, 8)
	assert.Equal(t, domain.BandGood, bands[domain.MetricAverageTicketValue])
	assert.Equal(t, domain.BandWarning, bands[domain.MetricJobCloseRate])
	assert.Equal(t, domain.BandGood, bands[domain.MetricHydroJettingJobs])
	assert.Equal(t, domain.BandPoor, bands[domain.MetricWeeklyRevenue])
}
