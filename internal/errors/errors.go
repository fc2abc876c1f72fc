package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError represents validation errors
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Error codes shared between handlers and the problem type mapping
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeMissingInput       = "MISSING_INPUT"
	CodeParseFailed        = "PARSE_FAILED"
	CodeNoResult           = "NO_RESULT"
	CodeTechnicianNotFound = "TECHNICIAN_NOT_FOUND"
	CodeUnknownChart       = "UNKNOWN_CHART"
	CodeUnknownFormat      = "UNKNOWN_FORMAT"
	CodeFileTooLarge       = "FILE_TOO_LARGE"
	CodeNotFound           = "NOT_FOUND"
	CodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
)

// Predefined errors for common scenarios
var (
	// 404 Not Found
	ErrNotFound = New(http.StatusNotFound, CodeNotFound, "Resource not found")
	ErrNoResult = New(http.StatusNotFound, CodeNoResult, "No KPI results have been processed yet")

	// 413 Payload Too Large
	ErrFileTooLarge = New(http.StatusRequestEntityTooLarge, CodeFileTooLarge, "Uploaded files exceed the maximum allowed size")

	// 429 Too Many Requests
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, CodeRateLimitExceeded, "Rate limit exceeded")
)

// MissingInputDetails lists the reports that were not supplied
type MissingInputDetails struct {
	Missing []string `json:"missing"`
}

// ParseFailureDetails names the file that could not be read
type ParseFailureDetails struct {
	Table  string `json:"table"`
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// InvalidRequestWithError creates an invalid request error with details
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
}

// ErrValidation creates a validation error with field details
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, "Request validation failed", ValidationError{
		Field:   field,
		Message: message,
	})
}

// MissingInput creates the error returned when required reports are absent
func MissingInput(tables []string) *APIError {
	return NewWithDetails(
		http.StatusBadRequest,
		CodeMissingInput,
		"All four reports are required unless demo data is requested",
		MissingInputDetails{Missing: tables},
	)
}

// ParseFailed creates the error returned when an uploaded report cannot be read
func ParseFailed(table, file string, cause error) *APIError {
	return NewWithDetails(
		http.StatusUnprocessableEntity,
		CodeParseFailed,
		fmt.Sprintf("Could not read %s", file),
		ParseFailureDetails{Table: table, File: file, Reason: cause.Error()},
	)
}

// TechnicianNotFound creates a not found error for a technician key
func TechnicianNotFound(name string) *APIError {
	return NewWithDetails(http.StatusNotFound, CodeTechnicianNotFound, fmt.Sprintf("technician %q not found in current result", name), name)
}

// UnknownChart creates an error for an unsupported chart name
func UnknownChart(name string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeUnknownChart, fmt.Sprintf("unknown chart %q", name), name)
}

// UnknownFormat creates an error for an unsupported export format
func UnknownFormat(format string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeUnknownFormat, fmt.Sprintf("unknown export format %q", format), format)
}

// NotFoundError creates a not found error with details
func NotFoundError(resource string) *APIError {
	return NewWithDetails(http.StatusNotFound, CodeNotFound, fmt.Sprintf("%s not found", resource), resource)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// NewValidationErrors creates validation errors from multiple fields
func NewValidationErrors(errors []ValidationError) *APIError {
	return NewWithDetails(
		http.StatusBadRequest,
		CodeValidationFailed,
		"Request validation failed",
		ValidationErrors{Errors: errors},
	)
}
