package dataprocessing

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var (
	errBlank     = errors.New("blank")
	errNotFinite = errors.New("not a finite number")
)

// parseFinite is strconv.ParseFloat without the NaN and Inf spellings.
func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

// Excel serials above this are not dates (year 9999).
const maxExcelSerial = 2958465

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"01/02/2006 3:04 PM",
	"1/2/2006 3:04 PM",
	"01/02/2006 3:04:05 PM",
	"1/2/2006 3:04:05 PM",
	"01-02-06",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
}

// parseNumber accepts plain numbers as well as report formatting such as
// "$1,105.93", "60 %" and accounting negatives "(12.00)".
func parseNumber(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, errBlank
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = strings.NewReplacer("$", "", ",", "", "%", "", " ", "").Replace(s)
	v, err := parseFinite(s)
	if errors.Is(err, errNotFinite) {
		return 0, err
	}
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if negative {
		v = -v
	}
	return v, nil
}

// parseDate accepts Excel serial numbers and the common text layouts
func parseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, errBlank
	}

	if serial, err := parseFinite(s); err == nil {
		if serial <= 0 || serial > maxExcelSerial {
			return time.Time{}, fmt.Errorf("serial %v out of range", serial)
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("bad serial date: %w", err)
		}
		return t, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}

var minutesPattern = regexp.MustCompile(`\((\d+)\s*mins?\)`)
var hoursMinutesPattern = regexp.MustCompile(`^(\d+)h\s*(\d+)m$`)

// parseMinutes reads durations such as "4h 48m (288 mins)", "4h 48m" or a bare minute count
func parseMinutes(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, errBlank
	}
	if m := minutesPattern.FindStringSubmatch(s); m != nil {
		return strconv.ParseFloat(m[1], 64)
	}
	if m := hoursMinutesPattern.FindStringSubmatch(s); m != nil {
		h, _ := strconv.ParseFloat(m[1], 64)
		mins, _ := strconv.ParseFloat(m[2], 64)
		return h*60 + mins, nil
	}
	if v, err := parseFinite(s); err == nil {
		return v, nil
	}
	return 0, fmt.Errorf("unrecognized duration")
}
