package dataprocessing

import (
	"techkpi/pkg/contracts/domain"
)

// FilterStats counts rows kept per table
type FilterStats struct {
	Kept    map[domain.TableName]int `json:"kept"`
	Dropped map[domain.TableName]int `json:"dropped"`
}

// FilterTables narrows every table to rows whose date column falls inside
// rng. Rows with a missing date are dropped; an inverted range drops everything.
func FilterTables(tables domain.Tables, rng domain.DateRange) (domain.Tables, FilterStats) {
	out := domain.Tables{
		Opportunities: FilterRows(tables.Opportunities, rng),
		LineItems:     FilterRows(tables.LineItems, rng),
		JobTimes:      FilterRows(tables.JobTimes, rng),
		Appointments:  FilterRows(tables.Appointments, rng),
	}

	before, after := tables.Counts(), out.Counts()
	stats := FilterStats{
		Kept:    after,
		Dropped: make(map[domain.TableName]int, len(before)),
	}
	for table, n := range before {
		stats.Dropped[table] = n - after[table]
	}
	return out, stats
}

// FilterRows keeps the rows whose EventDate lies in rng, preserving order
func FilterRows[T domain.Row](rows []T, rng domain.DateRange) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if rng.Contains(row.EventDate()) {
			out = append(out, row)
		}
	}
	return out
}
