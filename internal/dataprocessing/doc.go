// Package dataprocessing turns uploaded service-business reports into typed
// tables ready for KPI aggregation.
//
// # Reports
//
// Four reports make up one processing action:
//
//  1. Opportunities: sales opportunities with status, revenue and membership
//  2. Sold Line Items: services and products sold, keyed by Opp. Owner
//  3. Job Times: job efficiency per technician
//  4. Appointments: scheduled appointments with revenue
//
// All four must be supplied; Loader.Load returns a *MissingInputError naming
// every absent report before any file is read. A file that cannot be read as
// its report is returned as a *ParseError naming the file.
//
// # Usage
//
//	loader := dataprocessing.NewLoader(logger, dataprocessing.DefaultHeaderScanRows)
//	result, err := loader.Load(ctx, map[domain.TableName]dataprocessing.Source{
//	    domain.TableOpportunities: {Filename: "opportunities.xlsx", Reader: f1},
//	    ...
//	})
//	filtered, stats := dataprocessing.FilterTables(result.Tables, rng)
//
// # Cell coercion
//
// Blank numeric cells are missing values. Cells that hold text where a number
// or date is expected are also treated as missing and reported as a
// domain.RowIssue. A row whose date is blank or unreadable keeps a zero date
// and therefore never matches a date range.
//
// # Demo data
//
// SampleGenerator builds a deterministic synthetic data set with the same
// columns as the real reports.
package dataprocessing
