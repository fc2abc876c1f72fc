package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	err := New(http.StatusBadRequest, CodeInvalidRequest, "bad input")
	assert.Equal(t, "bad input", err.Error())
}

func TestKPIErrorConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "missing input",
			err:        MissingInput([]string{"job_times", "appointments"}),
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeMissingInput,
			wantMsg:    "All four reports are required unless demo data is requested",
		},
		{
			name:       "parse failed names the file",
			err:        ParseFailed("opportunities", "opps.xlsx", errors.New("zip: not a valid zip file")),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   CodeParseFailed,
			wantMsg:    "Could not read opps.xlsx",
		},
		{
			name:       "technician not found",
			err:        TechnicianNotFound("Jane Doe"),
			wantStatus: http.StatusNotFound,
			wantCode:   CodeTechnicianNotFound,
			wantMsg:    `technician "Jane Doe" not found in current result`,
		},
		{
			name:       "unknown chart",
			err:        UnknownChart("pie"),
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeUnknownChart,
			wantMsg:    `unknown chart "pie"`,
		},
		{
			name:       "unknown format",
			err:        UnknownFormat("pdf"),
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeUnknownFormat,
			wantMsg:    `unknown export format "pdf"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
			assert.Equal(t, tt.wantMsg, tt.err.Message)
		})
	}
}

func TestParseFailed_Details(t *testing.T) {
	err := ParseFailed("job_times", "times.xls", errors.New("missing column \"Job Efficiency\""))

	details, ok := err.Details.(ParseFailureDetails)
	require.True(t, ok)
	assert.Equal(t, "job_times", details.Table)
	assert.Equal(t, "times.xls", details.File)
	assert.Contains(t, details.Reason, "Job Efficiency")
}

func TestNewValidationErrors(t *testing.T) {
	err := NewValidationErrors([]ValidationError{
		{Field: "start", Message: "start is required"},
		{Field: "end", Message: "end must be a YYYY-MM-DD date"},
	})

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	details, ok := err.Details.(ValidationErrors)
	require.True(t, ok)
	assert.Len(t, details.Errors, 2)
}

func TestAppError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("failed to write CSV", cause).WithContext("path", "out.csv")

	assert.Equal(t, "[STORAGE] failed to write CSV: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "out.csv", err.Context["path"])

	var appErr *AppError
	require.True(t, errors.As(error(err), &appErr))
	assert.Equal(t, ErrTypeStorage, appErr.Type)

	assert.Equal(t, "[CONFIG] bad thresholds", NewConfigError("bad thresholds", nil).Error())
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusBadRequest, TypeMissingInput, "Bad Request", "missing", "/api/kpi/process").
		WithExtension("error_code", CodeMissingInput)

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, TypeMissingInput, got["type"])
	assert.Equal(t, float64(http.StatusBadRequest), got["status"])
	assert.Equal(t, "/api/kpi/process", got["instance"])
	assert.Equal(t, CodeMissingInput, got["error_code"])
}

func TestProblemDetails_ExtensionsCannotOverrideStandardMembers(t *testing.T) {
	pd := NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found", "", "").
		WithExtension("status", 200)

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, float64(http.StatusNotFound), got["status"])
	assert.NotContains(t, got, "detail")
}
