package domain

import (
	"time"
)

// TableName identifies one of the four source reports.
type TableName string

const (
	TableOpportunities TableName = "opportunities"
	TableLineItems     TableName = "line_items"
	TableJobTimes      TableName = "job_times"
	TableAppointments  TableName = "appointments"
)

// AllTables returns the source reports in canonical order.
func AllTables() []TableName {
	return []TableName{TableOpportunities, TableLineItems, TableJobTimes, TableAppointments}
}

// Valid reports whether t is one of the four known reports.
func (t TableName) Valid() bool {
	switch t {
	case TableOpportunities, TableLineItems, TableJobTimes, TableAppointments:
		return true
	}
	return false
}

// DisplayName is the human readable report name.
func (t TableName) DisplayName() string {
	switch t {
	case TableOpportunities:
		return "Opportunities"
	case TableLineItems:
		return "Line Items"
	case TableJobTimes:
		return "Job Times"
	case TableAppointments:
		return "Appointments"
	}
	return string(t)
}

// SheetName is the worksheet name the report is exported under by the
// field service platform. Loaders fall back to the first sheet when it is absent.
func (t TableName) SheetName() string {
	if t == TableLineItems {
		return "Sold Line Items"
	}
	return t.DisplayName()
}

// Row is implemented by every source record. It is the single place where a
// table's technician column and date column are mapped to their meaning.
type Row interface {
	TechnicianKey() string
	EventDate() time.Time
}

// Opportunity is one row of the Opportunities report.
type Opportunity struct {
	Row        int       `json:"row" validate:"min=1"`
	Date       time.Time `json:"date"`
	Owner      string    `json:"opportunity_owner"`
	Status     string    `json:"status"`
	Revenue    *float64  `json:"revenue,omitempty"`
	Membership string    `json:"membership"`
	Job        string    `json:"job,omitempty"`
	Customer   string    `json:"customer,omitempty"`
}

// TechnicianKey returns the Opportunity Owner column.
func (o Opportunity) TechnicianKey() string { return o.Owner }

// EventDate returns the Date column.
func (o Opportunity) EventDate() time.Time { return o.Date }

// Won reports whether the opportunity closed as won.
func (o Opportunity) Won() bool { return o.Status == "Won" }

// MembershipOpportunity reports whether a membership was offered.
func (o Opportunity) MembershipOpportunity() bool { return o.Membership == "Yes" }

// LineItem is one row of the Sold Line Items report.
type LineItem struct {
	Row         int       `json:"row" validate:"min=1"`
	InvoiceDate time.Time `json:"invoice_date"`
	Owner       string    `json:"opp_owner"`
	LineItem    string    `json:"line_item"`
	Category    string    `json:"category"`
	Job         string    `json:"job,omitempty"`
	Quantity    *float64  `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Price       *float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
}

// TechnicianKey returns the Opp. Owner column.
func (l LineItem) TechnicianKey() string { return l.Owner }

// EventDate returns the Invoice Date column.
func (l LineItem) EventDate() time.Time { return l.InvoiceDate }

// JobTime is one row of the Job Times report.
type JobTime struct {
	Row              int       `json:"row" validate:"min=1"`
	FirstAppointment time.Time `json:"first_appointment"`
	Owner            string    `json:"opportunity_owner"`
	Efficiency       *float64  `json:"job_efficiency,omitempty" validate:"omitempty,gte=0,lte=100"`
	JobStatus        string    `json:"job_status,omitempty"`
	Job              string    `json:"job,omitempty"`
	TotalMinutes     *float64  `json:"total_minutes,omitempty" validate:"omitempty,gte=0"`
}

// TechnicianKey returns the Opportunity Owner column.
func (j JobTime) TechnicianKey() string { return j.Owner }

// EventDate returns the First Appointment column.
func (j JobTime) EventDate() time.Time { return j.FirstAppointment }

// Appointment is one row of the Appointments report.
type Appointment struct {
	Row             int       `json:"row" validate:"min=1"`
	ScheduledFor    time.Time `json:"scheduled_for"`
	Technician      string    `json:"technician"`
	Status          string    `json:"appt_status"`
	Revenue         *float64  `json:"revenue,omitempty"`
	Appointment     string    `json:"appointment,omitempty"`
	Job             string    `json:"job,omitempty"`
	ServiceCategory string    `json:"service_category,omitempty"`
}

// TechnicianKey returns the Technician column.
func (a Appointment) TechnicianKey() string { return a.Technician }

// EventDate returns the Scheduled For column.
func (a Appointment) EventDate() time.Time { return a.ScheduledFor }

// Tables holds the four reports of one processing action.
type Tables struct {
	Opportunities []Opportunity `json:"opportunities"`
	LineItems     []LineItem    `json:"line_items"`
	JobTimes      []JobTime     `json:"job_times"`
	Appointments  []Appointment `json:"appointments"`
}

// Counts returns the row count per table.
func (t Tables) Counts() map[TableName]int {
	return map[TableName]int{
		TableOpportunities: len(t.Opportunities),
		TableLineItems:     len(t.LineItems),
		TableJobTimes:      len(t.JobTimes),
		TableAppointments:  len(t.Appointments),
	}
}

// Empty reports whether all four tables have no rows.
func (t Tables) Empty() bool {
	return len(t.Opportunities) == 0 && len(t.LineItems) == 0 &&
		len(t.JobTimes) == 0 && len(t.Appointments) == 0
}

// RowIssue flags a cell that could not be coerced to its column type.
// The row is kept; the value is treated as missing.
type RowIssue struct {
	Table  TableName `json:"table"`
	Row    int       `json:"row"`
	Column string    `json:"column"`
	Value  string    `json:"value"`
	Reason string    `json:"reason"`
}
