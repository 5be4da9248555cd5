// Package response writes JSON and problem+json bodies for handlers.
package response

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/ecotracker/ecotracker/internal/api/middleware"
	"github.com/ecotracker/ecotracker/internal/api/models"
)

// JSON encodes data and writes it with status. The body is encoded before
// any header is sent, so an unencodable value becomes a 500 problem instead
// of a truncated 200. A nil data writes no body.
func JSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	var body bytes.Buffer
	if data != nil {
		if err := json.NewEncoder(&body).Encode(data); err != nil {
			InternalError(w, r, "response could not be encoded")
			return
		}
	}

	if id := middleware.GetRequestID(r.Context()); id != "" {
		w.Header().Set("X-Request-Id", id)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = body.WriteTo(w)
}

// Created writes data with 201 and points Location at the new resource.
func Created(w http.ResponseWriter, r *http.Request, location string, data interface{}) {
	if location != "" {
		w.Header().Set("Location", location)
	}
	JSON(w, r, http.StatusCreated, data)
}

// Error writes problem with the request path as its instance.
func Error(w http.ResponseWriter, r *http.Request, problem *models.Problem) {
	problem.WithInstance(r.URL.Path).Write(w)
}

// problemFunc builds a problem from a trace ID and detail.
type problemFunc func(traceID, detail string) *models.Problem

func writeProblem(w http.ResponseWriter, r *http.Request, build problemFunc, detail string) {
	Error(w, r, build(middleware.GetRequestID(r.Context()), detail))
}

// BadRequest writes a 400 validation problem with optional field errors.
func BadRequest(w http.ResponseWriter, r *http.Request, detail string, errors []models.FieldError) {
	writeProblem(w, r, func(traceID, detail string) *models.Problem {
		return models.NewBadRequest(traceID, detail, errors)
	}, detail)
}

// Unauthorized writes a 401 problem.
func Unauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	writeProblem(w, r, models.NewUnauthorized, detail)
}

// NotFound writes a 404 problem.
func NotFound(w http.ResponseWriter, r *http.Request, detail string) {
	writeProblem(w, r, models.NewNotFound, detail)
}

// InternalError writes a 500 problem. detail is shown to clients, so it must
// not carry internal error text.
func InternalError(w http.ResponseWriter, r *http.Request, detail string) {
	writeProblem(w, r, models.NewInternalError, detail)
}

// ServiceUnavailable writes a 503 problem.
func ServiceUnavailable(w http.ResponseWriter, r *http.Request, detail string) {
	writeProblem(w, r, models.NewServiceUnavailable, detail)
}
