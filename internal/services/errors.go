package services

import "errors"

// KPI service errors
var (
	// ErrNoData means the inputs were read but no technician falls in the
	// selected range. It is a neutral outcome, not a failure.
	ErrNoData = errors.New("no data found for the selected date range")

	// ErrNoResult means no processing action has produced a result yet
	ErrNoResult = errors.New("no KPI result available")

	ErrTechnicianNotFound = errors.New("technician not found")
)
