package exporter

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"techkpi/pkg/contracts/domain"
)

// formatFloat formats a value with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatPercent formats a percentage with 1 decimal place
func formatPercent(f float64) string {
	return fmt.Sprintf("%.1f", f)
}

// formatInt formats a count
func formatInt(i int64) string {
	return fmt.Sprintf("%d", i)
}

// FormatMetric formats v with the precision of the metric's family
func FormatMetric(m domain.Metric, v float64) string {
	switch m.Family() {
	case domain.FamilyCurrency:
		return formatFloat(v)
	case domain.FamilyPercentage:
		return formatPercent(v)
	}
	return formatInt(int64(v))
}

var displayPrinter = message.NewPrinter(language.English)

// DisplayMetric formats v for people: "$1,234.50", "66.7%" or "12"
func DisplayMetric(m domain.Metric, v float64) string {
	switch m.Family() {
	case domain.FamilyCurrency:
		return displayPrinter.Sprintf("$%.2f", v)
	case domain.FamilyPercentage:
		return formatPercent(v) + "%"
	}
	return formatInt(int64(v))
}
