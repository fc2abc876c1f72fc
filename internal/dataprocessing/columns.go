package dataprocessing

import (
	"techkpi/pkg/contracts/domain"
)

// Column headers as exported by the field service platform
const (
	ColDate             = "Date"
	ColOpportunityOwner = "Opportunity Owner"
	ColStatus           = "Status"
	ColRevenue          = "Revenue"
	ColMembership       = "Membership"
	ColJob              = "Job"
	ColCustomer         = "Customer"

	ColInvoiceDate = "Invoice Date"
	ColOppOwner    = "Opp. Owner"
	ColLineItem    = "Line Item"
	ColCategory    = "Category"
	ColQuantity    = "Quantity"
	ColPrice       = "Price"

	ColFirstAppointment = "First Appointment"
	ColJobEfficiency    = "Job Efficiency"
	ColJobStatus        = "Job Status"
	ColTotalTime        = "Total Time"

	ColScheduledFor    = "Scheduled For"
	ColTechnician      = "Technician"
	ColApptStatus      = "Appt Status"
	ColAppointment     = "Appointment"
	ColServiceCategory = "Service Category"
)

// tableSchema describes the columns of one report. The date and technician
// columns identify the header row; required columns must all be present.
type tableSchema struct {
	table      domain.TableName
	date       string
	technician string
	required   []string
}

var schemas = map[domain.TableName]tableSchema{
	domain.TableOpportunities: {
		table:      domain.TableOpportunities,
		date:       ColDate,
		technician: ColOpportunityOwner,
		required:   []string{ColDate, ColOpportunityOwner, ColStatus, ColRevenue, ColMembership},
	},
	domain.TableLineItems: {
		table:      domain.TableLineItems,
		date:       ColInvoiceDate,
		technician: ColOppOwner,
		required:   []string{ColInvoiceDate, ColOppOwner, ColLineItem},
	},
	domain.TableJobTimes: {
		table:      domain.TableJobTimes,
		date:       ColFirstAppointment,
		technician: ColOpportunityOwner,
		required:   []string{ColFirstAppointment, ColOpportunityOwner, ColJobEfficiency},
	},
	domain.TableAppointments: {
		table:      domain.TableAppointments,
		date:       ColScheduledFor,
		technician: ColTechnician,
		required:   []string{ColScheduledFor, ColTechnician, ColRevenue},
	},
}

// RequiredColumns returns the columns a report must contain
func RequiredColumns(table domain.TableName) []string {
	cols := schemas[table].required
	out := make([]string, len(cols))
	copy(out, cols)
	return out
}
