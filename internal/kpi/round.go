package kpi

import (
	"math"

	"github.com/shopspring/decimal"

	"techkpi/pkg/contracts/domain"
)

// RoundCurrency rounds half away from zero to cents
func RoundCurrency(v float64) float64 {
	return roundPlaces(v, 2)
}

// RoundPercentage rounds half away from zero to one decimal place
func RoundPercentage(v float64) float64 {
	return roundPlaces(v, 1)
}

// RoundFor applies the rounding of the metric's family. Counts are left as is.
func RoundFor(m domain.Metric, v float64) float64 {
	switch m.Family() {
	case domain.FamilyCurrency:
		return RoundCurrency(v)
	case domain.FamilyPercentage:
		return RoundPercentage(v)
	}
	return v
}

func roundPlaces(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	out, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return out
}
