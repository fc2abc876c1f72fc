// Package services implements the business logic layer between the HTTP
// handlers and the processing packages.
//
// # Available Services
//
//   - KPIService: runs a processing action (load or generate, filter,
//     aggregate) and holds the single most recent result
//   - HealthService: health, readiness and liveness checks
//
// # Error Handling
//
// KPIService.Process returns:
//
//   - *dataprocessing.MissingInputError when a report is absent
//   - *dataprocessing.ParseError naming the file that could not be read
//   - ErrNoData when nothing falls in the selected range; the held result
//     is left untouched
//
// Current and Technician return ErrNoResult before the first successful
// action.
//
// # Concurrency
//
// The held result is replaced wholesale under a sync.RWMutex. Results are
// immutable, so readers may keep using a result after it was replaced.
package services
