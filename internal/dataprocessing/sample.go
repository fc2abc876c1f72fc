package dataprocessing

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"techkpi/pkg/contracts/domain"
)

// SampleTechnicians are the names used by the demo data set
var SampleTechnicians = []string{"John Smith", "Sarah Johnson", "Mike Davis", "Lisa Wilson"}

// Demo data set sizes, one row per consecutive day
const (
	SampleOpportunities = 100
	SampleLineItems     = 150
	SampleJobTimes      = 80
	SampleAppointments  = 120
)

// SampleGenerator produces schema-valid random reports for demonstration.
// The same Seed and Start always produce the same tables.
type SampleGenerator struct {
	Seed  int64
	Start time.Time
}

// Generate builds the four demo reports
func (g SampleGenerator) Generate() domain.Tables {
	rng := rand.New(rand.NewSource(g.Seed))
	start := domain.CalendarDate(g.Start)
	day := func(i int) time.Time { return start.AddDate(0, 0, i) }
	pick := func(values ...string) string { return values[rng.Intn(len(values))] }
	tech := func() string { return SampleTechnicians[rng.Intn(len(SampleTechnicians))] }
	uniform := func(lo, hi float64) *float64 {
		v := math.Round((lo+rng.Float64()*(hi-lo))*100) / 100
		return &v
	}
	job := func(i int) string { return fmt.Sprintf("JOB-%04d", i+1) }

	var t domain.Tables

	t.Opportunities = make([]domain.Opportunity, SampleOpportunities)
	for i := range t.Opportunities {
		t.Opportunities[i] = domain.Opportunity{
			Row:        i + 2,
			Date:       day(i),
			Job:        job(i),
			Customer:   fmt.Sprintf("Customer %d", i+1),
			Status:     pick("Won", "Lost", "Open"),
			Owner:      tech(),
			Revenue:    uniform(100, 2000),
			Membership: pick("Yes", "No"),
		}
	}

	t.LineItems = make([]domain.LineItem, SampleLineItems)
	for i := range t.LineItems {
		qty := 1.0
		t.LineItems[i] = domain.LineItem{
			Row:         i + 2,
			InvoiceDate: day(i),
			Job:         job(i),
			Owner:       tech(),
			LineItem:    pick("Hydro Jetting", "Descaling", "Water Heater", "Drain Cleaning"),
			Category:    pick("Service", "Product"),
			Quantity:    &qty,
			Price:       uniform(50, 500),
		}
	}

	t.JobTimes = make([]domain.JobTime, SampleJobTimes)
	for i := range t.JobTimes {
		t.JobTimes[i] = domain.JobTime{
			Row:              i + 2,
			FirstAppointment: day(i),
			Job:              job(i),
			JobStatus:        pick("Completed", "In Progress", "Cancelled"),
			Owner:            tech(),
			Efficiency:       uniform(60, 100),
		}
	}

	t.Appointments = make([]domain.Appointment, SampleAppointments)
	for i := range t.Appointments {
		t.Appointments[i] = domain.Appointment{
			Row:          i + 2,
			ScheduledFor: day(i),
			Job:          job(i),
			Technician:   tech(),
			Status:       pick("Completed", "No Show", "Rescheduled"),
			Revenue:      uniform(100, 1500),
		}
	}

	return t
}

// Load wraps Generate in the shape returned by Loader.Load
func (g SampleGenerator) Load() *LoadResult {
	files := make(map[domain.TableName]string, 4)
	for _, table := range domain.AllTables() {
		files[table] = "sample:" + string(table)
	}
	return &LoadResult{Tables: g.Generate(), Files: files}
}
