package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techkpi/pkg/contracts/domain"
)

func TestSampleGenerator_Generate(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	gen := SampleGenerator{Seed: 42, Start: start}

	tables := gen.Generate()

	assert.Len(t, tables.Opportunities, SampleOpportunities)
	assert.Len(t, tables.LineItems, SampleLineItems)
	assert.Len(t, tables.JobTimes, SampleJobTimes)
	assert.Len(t, tables.Appointments, SampleAppointments)

	t.Run("consecutive days from start", func(t *testing.T) {
		assert.True(t, tables.Opportunities[0].Date.Equal(start))
		assert.True(t, tables.Opportunities[9].Date.Equal(start.AddDate(0, 0, 9)))
		assert.True(t, tables.Appointments[119].ScheduledFor.Equal(start.AddDate(0, 0, 119)))
	})

	t.Run("values within documented ranges", func(t *testing.T) {
		for _, o := range tables.Opportunities {
			require.NotNil(t, o.Revenue)
			assert.GreaterOrEqual(t, *o.Revenue, 100.0)
			assert.LessOrEqual(t, *o.Revenue, 2000.0)
			assert.Contains(t, []string{"Won", "Lost", "Open"}, o.Status)
			assert.Contains(t, SampleTechnicians, o.Owner)
		}
		for _, j := range tables.JobTimes {
			require.NotNil(t, j.Efficiency)
			assert.GreaterOrEqual(t, *j.Efficiency, 60.0)
			assert.LessOrEqual(t, *j.Efficiency, 100.0)
		}
		for _, l := range tables.LineItems {
			assert.Contains(t, []string{"Hydro Jetting", "Descaling", "Water Heater", "Drain Cleaning"}, l.LineItem)
		}
	})

	t.Run("deterministic for a seed", func(t *testing.T) {
		assert.Equal(t, tables, gen.Generate())
		other := SampleGenerator{Seed: 7, Start: start}.Generate()
		assert.NotEqual(t, tables.Opportunities, other.Opportunities)
	})

	t.Run("load wraps tables", func(t *testing.T) {
		res := gen.Load()
		assert.Empty(t, res.Issues)
		assert.Len(t, res.Files, 4)
		assert.Equal(t, "sample:"+string(domain.TableAppointments), res.Files[domain.TableAppointments])
	})
}
