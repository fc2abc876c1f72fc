// Package kpi computes per-technician performance indicators from the four
// filtered report tables.
//
// The technician identity is read from a different column in each table
// (Opportunity Owner, Opp. Owner, Opportunity Owner, Technician). Names are
// compared by exact string equality; blank names are ignored.
//
// Ratio metrics divide by max(n, 1), so a technician with revenue but no won
// opportunities reports their raw revenue as Average Ticket Value and a
// technician with no opportunities reports a 0.0 close rate.
package kpi
