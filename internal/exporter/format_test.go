package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"techkpi/pkg/contracts/domain"
)

func TestFormatMetric(t *testing.T) {
	tests := []struct {
		metric domain.Metric
		value  float64
		csv    string
		human  string
	}{
		{domain.MetricAverageTicketValue, 600, "600.00", "$600.00"},
		{domain.MetricWeeklyRevenue, 1234567.891, "1234567.89", "$1,234,567.89"},
		{domain.MetricJobCloseRate, 66.66, "66.7", "66.7%"},
		{domain.MetricJobEfficiency, 0, "0.0", "0.0%"},
		{domain.MetricHydroJettingJobs, 12, "12", "12"},
	}

	for _, tt := range tests {
		t.Run(string(tt.metric), func(t *testing.T) {
			assert.Equal(t, tt.csv, FormatMetric(tt.metric, tt.value))
			assert.Equal(t, tt.human, DisplayMetric(tt.metric, tt.value))
		})
	}
}
