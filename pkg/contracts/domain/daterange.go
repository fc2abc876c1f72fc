package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar date format used on the API and in labels.
const DateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar dates.
// Start and End carry no time of day and are always in UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a range from the calendar dates of start and end.
// An inverted range is allowed and contains nothing.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: CalendarDate(start), End: CalendarDate(end)}
}

// ParseDateRange parses two YYYY-MM-DD dates.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	return NewDateRange(s, e), nil
}

// CurrentWeek returns the Monday to Sunday week containing now.
func CurrentWeek(now time.Time) DateRange {
	day := CalendarDate(now)
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)
	return DateRange{Start: monday, End: monday.AddDate(0, 0, 6)}
}

// CalendarDate drops the time of day, keeping the date as seen in t's location.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether the calendar date of t lies within the range.
// A zero time is never contained.
func (r DateRange) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	day := CalendarDate(t)
	return !day.Before(r.Start) && !day.After(r.End)
}

// Inverted reports whether End precedes Start.
func (r DateRange) Inverted() bool {
	return r.End.Before(r.Start)
}

// Days returns the number of calendar days covered, 0 for inverted ranges.
func (r DateRange) Days() int {
	if r.Inverted() {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Label is the human readable form shown above the dashboard.
func (r DateRange) Label() string {
	return r.Start.Format(DateLayout) + " to " + r.End.Format(DateLayout)
}

type dateRangeJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label"`
}

// MarshalJSON encodes the range as calendar dates.
func (r DateRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(dateRangeJSON{
		Start: r.Start.Format(DateLayout),
		End:   r.End.Format(DateLayout),
		Label: r.Label(),
	})
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (r *DateRange) UnmarshalJSON(data []byte) error {
	var raw dateRangeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseDateRange(raw.Start, raw.End)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
