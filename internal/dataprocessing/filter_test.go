package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"techkpi/pkg/contracts/domain"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestFilterRows(t *testing.T) {
	rng := domain.NewDateRange(day(1), day(7))

	tests := []struct {
		name  string
		dates []time.Time
		want  []int
	}{
		{name: "start boundary kept", dates: []time.Time{day(1)}, want: []int{1}},
		{name: "end boundary kept", dates: []time.Time{day(7)}, want: []int{1}},
		{name: "time of day ignored on end date", dates: []time.Time{day(7).Add(23*time.Hour + 59*time.Minute)}, want: []int{1}},
		{name: "outside dropped", dates: []time.Time{day(8), time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC)}, want: []int{}},
		{name: "missing date dropped", dates: []time.Time{{}, day(3)}, want: []int{2}},
		{name: "order preserved", dates: []time.Time{day(5), day(9), day(2)}, want: []int{1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([]domain.Opportunity, len(tt.dates))
			for i, d := range tt.dates {
				rows[i] = domain.Opportunity{Row: i + 1, Date: d, Owner: "A"}
			}

			got := FilterRows(rows, rng)

			gotRows := make([]int, len(got))
			for i, r := range got {
				gotRows[i] = r.Row
			}
			assert.Equal(t, tt.want, gotRows)
		})
	}
}

func TestFilterTables(t *testing.T) {
	tables := domain.Tables{
		Opportunities: []domain.Opportunity{{Row: 2, Date: day(1)}, {Row: 3, Date: day(15)}},
		LineItems:     []domain.LineItem{{Row: 2, InvoiceDate: day(7)}},
		JobTimes:      []domain.JobTime{{Row: 2}},
		Appointments:  []domain.Appointment{{Row: 2, ScheduledFor: day(3)}, {Row: 3, ScheduledFor: day(4)}},
	}

	t.Run("inclusive week", func(t *testing.T) {
		got, stats := FilterTables(tables, domain.NewDateRange(day(1), day(7)))

		assert.Len(t, got.Opportunities, 1)
		assert.Len(t, got.LineItems, 1)
		assert.Empty(t, got.JobTimes)
		assert.Len(t, got.Appointments, 2)
		assert.Equal(t, 1, stats.Dropped[domain.TableOpportunities])
		assert.Equal(t, 1, stats.Dropped[domain.TableJobTimes])
		assert.Equal(t, 2, stats.Kept[domain.TableAppointments])
	})

	t.Run("inverted range keeps nothing", func(t *testing.T) {
		got, _ := FilterTables(tables, domain.NewDateRange(day(7), day(1)))
		assert.True(t, got.Empty())
	})

	t.Run("input untouched", func(t *testing.T) {
		FilterTables(tables, domain.NewDateRange(day(2), day(2)))
		assert.Len(t, tables.Opportunities, 2)
	})
}
