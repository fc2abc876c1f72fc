package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Problem type URIs (RFC 7807)
const (
	TypeValidation       = "/errors/validation"
	TypeNotFound         = "/errors/not-found"
	TypeRateLimit        = "/errors/rate-limit"
	TypeInternal         = "/errors/internal"
	TypeTimeout          = "/errors/timeout"
	TypePayloadTooLarge  = "/errors/payload-too-large"
	TypeMethodNotAllowed = "/errors/method-not-allowed"

	TypeMissingInput = "/errors/kpi/missing-input"
	TypeParseFailed  = "/errors/kpi/parse-failed"
	TypeNoResult     = "/errors/kpi/no-result"
)

// problemTypes maps an APIError code to its problem type. Codes not listed
// are reported as TypeInternal.
var problemTypes = map[string]string{
	CodeValidationFailed:   TypeValidation,
	CodeInvalidRequest:     TypeValidation,
	CodeUnknownChart:       TypeValidation,
	CodeUnknownFormat:      TypeValidation,
	CodeNotFound:           TypeNotFound,
	CodeTechnicianNotFound: TypeNotFound,
	CodeMissingInput:       TypeMissingInput,
	CodeParseFailed:        TypeParseFailed,
	CodeNoResult:           TypeNoResult,
	CodeFileTooLarge:       TypePayloadTooLarge,
	CodeRateLimitExceeded:  TypeRateLimit,
}

// ErrorHandler writes every failure as problem+json and logs it once.
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler returns a handler. includeStack adds stack traces to
// responses and is meant for development only.
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError logs err and writes its problem document. A nil err writes nothing.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}
	reqID := middleware.GetReqID(r.Context())

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("remote_addr", r.RemoteAddr),
	)

	h.write(w, r, h.ErrorToProblem(err, r))
}

// ErrorToProblem classifies err. APIErrors carry their own status; AppErrors
// are server faults whose Message is shown without the cause. Anything else
// becomes a generic 500.
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	path := r.URL.Path

	var (
		apiErr   *APIError
		appErr   *AppError
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return NewProblemDetails(http.StatusGatewayTimeout, TypeTimeout, "Request Timeout",
			"The request took too long to process and was cancelled", path)

	case errors.As(err, &apiErr):
		problemType, ok := problemTypes[apiErr.ErrorCode]
		if !ok {
			problemType = TypeInternal
		}
		problem := NewProblemDetails(apiErr.StatusCode, problemType, http.StatusText(apiErr.StatusCode), apiErr.Message, path).
			WithExtension("error_code", apiErr.ErrorCode)
		if apiErr.Details != nil {
			problem.WithExtension("details", apiErr.Details)
		}
		return problem

	case errors.As(err, &appErr):
		return NewProblemDetails(http.StatusInternalServerError, TypeInternal, "Internal Server Error", appErr.Message, path).
			WithExtension("error_type", string(appErr.Type))

	// multipart parsing reports an exceeded MaxBytesReader only as text
	case errors.As(err, &tooLarge), strings.Contains(err.Error(), "request body too large"):
		return NewProblemDetails(http.StatusRequestEntityTooLarge, TypePayloadTooLarge, "Payload Too Large",
			"The request body exceeds the maximum allowed size", path)
	}

	return NewProblemDetails(http.StatusInternalServerError, TypeInternal, "Internal Server Error",
		"An unexpected error occurred while processing your request", path)
}

// HandlePanic answers a recovered panic with a 500.
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", string(debug.Stack())),
	)

	problem := NewProblemDetails(http.StatusInternalServerError, TypeInternal, "Internal Server Error",
		"An unexpected error occurred", r.URL.Path)
	if h.includeStack {
		problem.WithExtension("panic", fmt.Sprintf("%v", recovered))
	}
	h.write(w, r, problem)
}

// NotFound answers unmatched routes without logging them as failures.
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, h.ErrorToProblem(ErrNotFound, r))
}

func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, NewProblemDetails(http.StatusMethodNotAllowed, TypeMethodNotAllowed, "Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method), r.URL.Path))
}

// write stamps the request ID, and the stack when enabled, then renders.
func (h *ErrorHandler) write(w http.ResponseWriter, r *http.Request, problem *ProblemDetails) {
	problem.WithExtension("trace_id", middleware.GetReqID(r.Context()))
	if h.includeStack {
		buf := make([]byte, 8<<10)
		problem.WithExtension("stack", string(buf[:runtime.Stack(buf, false)]))
	}
	_ = render.Render(w, r, problem)
}
