package models

import (
	"encoding/json"
	"net/http"
)

// Problem represents an RFC7807 error response, served with Content-Type
// application/problem+json.
type Problem struct {
	// Type is a URI reference that identifies the problem type.
	Type string `json:"type"`

	// Title is a short, human-readable summary of the problem type.
	Title string `json:"title"`

	// Status is the HTTP status code for this occurrence of the problem.
	Status int `json:"status"`

	// Detail is a human-readable explanation specific to this occurrence.
	Detail string `json:"detail,omitempty"`

	// Instance is a URI reference that identifies the specific occurrence.
	Instance string `json:"instance,omitempty"`

	// TraceID is the request trace identifier for debugging.
	TraceID string `json:"traceId"`

	// Errors contains structured field validation errors.
	Errors []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error on a specific field. Field is a
// dotted path such as "transport.carKm".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Problem type URIs.
const (
	problemBase = "https://api.ecotracker.app/problems/"

	ProblemTypeValidation           = problemBase + "validation-error"
	ProblemTypeUnauthorized         = problemBase + "unauthorized"
	ProblemTypeTLSRequired          = problemBase + "tls-required"
	ProblemTypeNotFound             = problemBase + "not-found"
	ProblemTypeMethodNotAllowed     = problemBase + "method-not-allowed"
	ProblemTypeUnsupportedMediaType = problemBase + "unsupported-media-type"
	ProblemTypeTooManyRequests      = problemBase + "too-many-requests"
	ProblemTypeInternal             = problemBase + "internal-error"
	ProblemTypeUnavailable          = problemBase + "service-unavailable"
)

// problemKind pairs a problem type with its fixed title and status.
type problemKind struct {
	typ    string
	title  string
	status int
}

var (
	kindValidation       = problemKind{ProblemTypeValidation, "Validation error", http.StatusBadRequest}
	kindUnauthorized     = problemKind{ProblemTypeUnauthorized, "Unauthorized", http.StatusUnauthorized}
	kindTLSRequired      = problemKind{ProblemTypeTLSRequired, "HTTPS required", http.StatusForbidden}
	kindNotFound         = problemKind{ProblemTypeNotFound, "Not found", http.StatusNotFound}
	kindMethodNotAllowed = problemKind{ProblemTypeMethodNotAllowed, "Method not allowed", http.StatusMethodNotAllowed}
	kindUnsupportedMedia = problemKind{ProblemTypeUnsupportedMediaType, "Unsupported media type", http.StatusUnsupportedMediaType}
	kindTooManyRequests  = problemKind{ProblemTypeTooManyRequests, "Too many requests", http.StatusTooManyRequests}
	kindInternal         = problemKind{ProblemTypeInternal, "Internal server error", http.StatusInternalServerError}
	kindUnavailable      = problemKind{ProblemTypeUnavailable, "Service unavailable", http.StatusServiceUnavailable}
)

func (k problemKind) new(traceID, detail string) *Problem {
	return NewProblem(k.typ, k.title, k.status, traceID).WithDetail(detail)
}

// NewProblem creates a new Problem with the given parameters.
func NewProblem(problemType, title string, status int, traceID string) *Problem {
	return &Problem{
		Type:    problemType,
		Title:   title,
		Status:  status,
		TraceID: traceID,
	}
}

// WithDetail sets the occurrence-specific explanation.
func (p *Problem) WithDetail(detail string) *Problem {
	p.Detail = detail
	return p
}

// WithInstance sets the request path the problem occurred on.
func (p *Problem) WithInstance(instance string) *Problem {
	p.Instance = instance
	return p
}

// WithErrors attaches per-field validation errors.
func (p *Problem) WithErrors(errors []FieldError) *Problem {
	p.Errors = errors
	return p
}

// Write sends the problem with its status. The trace ID is echoed as
// X-Request-Id so clients can quote it.
func (p *Problem) Write(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Type", "application/problem+json")
	if p.TraceID != "" {
		h.Set("X-Request-Id", p.TraceID)
	}
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// NewBadRequest creates a 400 problem with optional field errors.
func NewBadRequest(traceID, detail string, errors []FieldError) *Problem {
	return kindValidation.new(traceID, detail).WithErrors(errors)
}

// NewUnauthorized creates a 401 problem.
func NewUnauthorized(traceID, detail string) *Problem { return kindUnauthorized.new(traceID, detail) }

// NewTLSRequired creates a 403 problem for plain HTTP requests.
func NewTLSRequired(traceID, detail string) *Problem { return kindTLSRequired.new(traceID, detail) }

// NewNotFound creates a 404 problem.
func NewNotFound(traceID, detail string) *Problem { return kindNotFound.new(traceID, detail) }

// NewMethodNotAllowed creates a 405 problem.
func NewMethodNotAllowed(traceID, detail string) *Problem {
	return kindMethodNotAllowed.new(traceID, detail)
}

// NewUnsupportedMediaType creates a 415 problem.
func NewUnsupportedMediaType(traceID, detail string) *Problem {
	return kindUnsupportedMedia.new(traceID, detail)
}

// NewTooManyRequests creates a 429 problem.
func NewTooManyRequests(traceID, detail string) *Problem {
	return kindTooManyRequests.new(traceID, detail)
}

// NewInternalError creates a 500 problem.
func NewInternalError(traceID, detail string) *Problem { return kindInternal.new(traceID, detail) }

// NewServiceUnavailable creates a 503 problem.
func NewServiceUnavailable(traceID, detail string) *Problem {
	return kindUnavailable.new(traceID, detail)
}
