// Package http implements the HTTP handlers of the KPI dashboard API.
// Handlers parse and validate requests, call the service layer and shape
// the response. They hold no KPI logic of their own.
//
// # Endpoints
//
// KPIHandler is mounted under /api/kpi:
//
//	POST /process                      multipart upload of the four reports, or demo=true
//	GET  /results                      the current result
//	GET  /results/technicians/{name}   one technician with metric bands
//	GET  /views                        revenue, efficiency and service breakdown views
//	GET  /summary                      team totals
//	GET  /charts/{chart}               revenue, efficiency or services as PNG
//	GET  /export/{format}              csv or xlsx download
//
// HealthHandler serves /api/health, /api/health/ready, /api/health/live
// and /api/version. MetricsHandler serves the Prometheus scrape endpoint.
//
// # Upload Form
//
// The process form takes optional start and end dates (YYYY-MM-DD, both or
// neither), an optional demo flag, and one file part per report named
// opportunities, line_items, job_times and appointments. Without dates the
// current Monday to Sunday week is used.
//
// # Responses
//
// Successful JSON responses use the envelope
//
//	{"status": "success", "data": ...}
//
// A range without data is not an error and answers 200 with
//
//	{"status": "no_data", "message": "...", "range_label": "2024-01-01 to 2024-01-07"}
//
// Failures follow RFC 7807 Problem Details, with error_code and details
// extensions:
//
//	{
//	    "type": "/errors/kpi/missing-input",
//	    "title": "Bad Request",
//	    "status": 400,
//	    "detail": "All four reports are required unless demo data is requested",
//	    "error_code": "MISSING_INPUT",
//	    "details": {"missing": ["job_times"]}
//	}
//
// A report that cannot be read answers 422 with the table and file name in
// details. Requests for results before any processing answer 404 NO_RESULT.
//
// # Testing
//
// Handlers are tested with httptest against a testify mock of
// KPIServiceInterface.
package http
