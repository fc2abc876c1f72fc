package kpi

import (
	"fmt"
	"strings"
)

// Service is one of the tracked service types
type Service string

const (
	ServiceHydroJetting Service = "Hydro Jetting"
	ServiceDescaling    Service = "Descaling"
	ServiceWaterHeater  Service = "Water Heater"
)

// Services returns the tracked services in display order
func Services() []Service {
	return []Service{ServiceHydroJetting, ServiceDescaling, ServiceWaterHeater}
}

// MatchMode selects how Line Item labels are mapped to services
type MatchMode string

const (
	// MatchExact counts only labels equal to the service name
	MatchExact MatchMode = "exact"
	// MatchKeyword counts labels containing one of the service keywords, ignoring case
	MatchKeyword MatchMode = "keyword"
)

// ParseMatchMode accepts "exact", "keyword" or an empty string (exact)
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchExact:
		return MatchExact, nil
	case MatchKeyword:
		return MatchKeyword, nil
	}
	return "", fmt.Errorf("unknown service match mode %q", s)
}

var serviceKeywords = []struct {
	service  Service
	keywords []string
}{
	{ServiceHydroJetting, []string{"hydro", "jetting", "high pressure"}},
	{ServiceDescaling, []string{"descal", "scale removal"}},
	{ServiceWaterHeater, []string{"water heater", "hot water", "heater install"}},
}

// Match returns the service a Line Item label counts toward
func (m MatchMode) Match(label string) (Service, bool) {
	if m != MatchKeyword {
		for _, s := range Services() {
			if label == string(s) {
				return s, true
			}
		}
		return "", false
	}

	lower := strings.ToLower(label)
	for _, entry := range serviceKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.service, true
			}
		}
	}
	return "", false
}
