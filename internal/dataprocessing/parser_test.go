package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techkpi/internal/kpi"
	"techkpi/internal/shared/testutil"
	"techkpi/pkg/contracts/domain"
)

func TestParser_ParseOpportunities(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	p := NewParser(logger, 0)

	sheet := &Sheet{Name: "Opportunities", Rows: [][]string{
		{"Opportunities Report"},
		{},
		{"Date", "Opportunity Owner", "Status", "Revenue", "Membership", "Job", "Customer"},
		{"45292", "Technician A", "Won", "600", "Yes", "J-1", "Acme"},
		{"2024-01-02", "Technician B ", "Lost", "", "No"},
		{},
		{"bad date", "Technician A", "Won", "lots", "Yes"},
	}}

	records, issues, err := p.ParseOpportunities(sheet)
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, 4, first.Row)
	assert.True(t, first.Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Technician A", first.Owner)
	require.NotNil(t, first.Revenue)
	assert.Equal(t, 600.0, *first.Revenue)
	assert.True(t, first.Won())
	assert.True(t, first.MembershipOpportunity())
	assert.Equal(t, "Acme", first.Customer)

	// names are matched exactly, so trailing whitespace survives
	assert.Equal(t, "Technician B ", records[1].Owner)
	assert.Nil(t, records[1].Revenue)

	assert.True(t, records[2].Date.IsZero())
	assert.Nil(t, records[2].Revenue)
	assert.Equal(t, 7, records[2].Row)

	require.Len(t, issues, 2)
	assert.Equal(t, domain.RowIssue{Table: domain.TableOpportunities, Row: 7, Column: ColDate, Value: "bad date", Reason: "unrecognized date format"}, issues[0])
	assert.Equal(t, ColRevenue, issues[1].Column)
	assert.Equal(t, "lots", issues[1].Value)
}

func TestParser_HeaderErrors(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	tests := []struct {
		name    string
		scan    int
		rows    [][]string
		wantErr string
	}{
		{
			name:    "missing required column",
			rows:    [][]string{{"Date", "Opportunity Owner", "Status", "Membership"}},
			wantErr: "missing required columns: Revenue",
		},
		{
			name:    "no header at all",
			rows:    [][]string{{"foo", "bar"}, {"1", "2"}},
			wantErr: "no header row",
		},
		{
			name:    "header beyond scan window",
			scan:    2,
			rows:    [][]string{{"title"}, {}, {"Date", "Opportunity Owner", "Status", "Revenue", "Membership"}},
			wantErr: "first 2 rows",
		},
		{
			name:    "empty sheet",
			rows:    nil,
			wantErr: "no header row",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(logger, tt.scan)
			_, _, err := p.ParseOpportunities(&Sheet{Name: "Opportunities", Rows: tt.rows})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParser_ParseLineItems(t *testing.T) {
	p := NewParser(nil, 0)
	sheet := &Sheet{Rows: [][]string{
		{"Invoice Date", "Opp. Owner", "Line Item", "Category", "Quantity", "Price"},
		{"2024-01-03", "Technician A", "Hydro Jetting", "Service", "1", "$350.00"},
		{"2024-01-03", "Technician A", "Descaling", "Service", "-2", "100"},
	}}

	records, issues, err := p.ParseLineItems(sheet)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Hydro Jetting", records[0].LineItem)
	assert.Equal(t, 350.0, *records[0].Price)

	require.Len(t, issues, 1)
	assert.Equal(t, ColQuantity, issues[0].Column)
	assert.Equal(t, "-2", issues[0].Value)
	assert.Equal(t, "failed gte 0", issues[0].Reason)
}

func TestParser_ParseJobTimes(t *testing.T) {
	p := NewParser(nil, 0)
	sheet := &Sheet{Rows: [][]string{
		{"First Appointment", "Opportunity Owner", "Job Efficiency", "Job Status", "Total Time"},
		{"2024-01-04", "Technician C", "85.5", "Completed", "4h 48m (288 mins)"},
		{"2024-01-05", "Technician C", "", "Cancelled", ""},
	}}

	records, issues, err := p.ParseJobTimes(sheet)
	require.NoError(t, err)
	assert.Empty(t, issues)
	require.Len(t, records, 2)
	assert.Equal(t, 85.5, *records[0].Efficiency)
	assert.Equal(t, 288.0, *records[0].TotalMinutes)
	assert.Nil(t, records[1].Efficiency)
	assert.Nil(t, records[1].TotalMinutes)
}

func TestParser_EfficiencyRange(t *testing.T) {
	p := NewParser(nil, 0)
	sheet := &Sheet{Rows: [][]string{
		{"First Appointment", "Opportunity Owner", "Job Efficiency"},
		{"2024-01-04", "Technician C", "100"},
		{"2024-01-05", "Technician C", "140"},
	}}

	records, issues, err := p.ParseJobTimes(sheet)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Len(t, issues, 1)
	assert.Equal(t, 3, issues[0].Row)
	assert.Equal(t, ColJobEfficiency, issues[0].Column)
	assert.Equal(t, "140", issues[0].Value)
	assert.Equal(t, "failed lte 100", issues[0].Reason)
}

func TestParser_NonFiniteNumbersFlagged(t *testing.T) {
	p := NewParser(nil, 0)

	opps, oppIssues, err := p.ParseOpportunities(&Sheet{Rows: [][]string{
		{"Date", "Opportunity Owner", "Status", "Revenue", "Membership"},
		{"2024-01-02", "A", "Won", "1500", "No"},
		{"2024-01-03", "A", "Won", "NaN", "No"},
	}})
	require.NoError(t, err)
	require.Len(t, opps, 2)
	assert.Nil(t, opps[1].Revenue)
	require.Len(t, oppIssues, 1)
	assert.Equal(t, domain.RowIssue{Table: domain.TableOpportunities, Row: 3, Column: ColRevenue, Value: "NaN", Reason: "not a finite number"}, oppIssues[0])

	jobs, jobIssues, err := p.ParseJobTimes(&Sheet{Rows: [][]string{
		{"First Appointment", "Opportunity Owner", "Job Efficiency"},
		{"2024-01-02", "A", "90"},
		{"2024-01-03", "A", "Inf"},
	}})
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Nil(t, jobs[1].Efficiency)
	require.Len(t, jobIssues, 1)
	assert.Equal(t, ColJobEfficiency, jobIssues[0].Column)

	got := kpi.NewAggregator(nil, kpi.Options{}).Compute(domain.Tables{Opportunities: opps, JobTimes: jobs})
	assert.Equal(t, 1500.0, got["A"].WeeklyRevenue)
	assert.Equal(t, 750.0, got["A"].AverageTicketValue)
	assert.Equal(t, 90.0, got["A"].JobEfficiency)
}

func TestParser_ParseAppointments(t *testing.T) {
	p := NewParser(nil, 0)
	sheet := &Sheet{Rows: [][]string{
		{"Scheduled For", "Technician", "Appt Status", "Revenue", "Service Category"},
		{"01/06/2024", "Technician D", "Completed", "200", "Plumbing"},
	}}

	records, issues, err := p.ParseAppointments(sheet)
	require.NoError(t, err)
	assert.Empty(t, issues)
	require.Len(t, records, 1)
	assert.Equal(t, "Technician D", records[0].TechnicianKey())
	assert.True(t, records[0].EventDate().Equal(time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 200.0, *records[0].Revenue)
	assert.Equal(t, "Plumbing", records[0].ServiceCategory)
}

func TestRequiredColumns(t *testing.T) {
	for _, table := range domain.AllTables() {
		cols := RequiredColumns(table)
		assert.NotEmpty(t, cols, table)
	}
	assert.Empty(t, RequiredColumns("bogus"))
}
