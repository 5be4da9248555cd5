package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ecotracker/ecotracker/internal/api/middleware"
	"github.com/ecotracker/ecotracker/internal/api/models"
	"github.com/ecotracker/ecotracker/internal/api/response"
	"github.com/ecotracker/ecotracker/internal/feedback"
	"github.com/ecotracker/ecotracker/internal/footprint"
	"github.com/ecotracker/ecotracker/internal/resilience"
)

// writeError maps a service error to a problem response. Unexpected errors
// are logged and reported as 500 without leaking their text.
func writeError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error) {
	var (
		validationErr *footprint.ValidationError
		inputErr      *footprint.InvalidInputError
		feedbackErr   *feedback.ValidationError
	)

	switch {
	case errors.As(err, &validationErr):
		fieldErrors := make([]models.FieldError, len(validationErr.Errors))
		for i, fe := range validationErr.Errors {
			fieldErrors[i] = fieldError(fe)
		}
		response.BadRequest(w, r, "one or more inputs are invalid", fieldErrors)
	case errors.As(err, &inputErr):
		response.BadRequest(w, r, "one or more inputs are invalid", []models.FieldError{fieldError(inputErr)})
	case errors.As(err, &feedbackErr):
		response.BadRequest(w, r, "feedback is invalid", []models.FieldError{{
			Field:   feedbackErr.Field,
			Message: feedbackErr.Reason,
		}})
	case errors.Is(err, footprint.ErrRecordNotFound):
		response.NotFound(w, r, "footprint record not found")
	case errors.Is(err, footprint.ErrMissingOwner), errors.Is(err, feedback.ErrMissingOwner):
		response.Unauthorized(w, r, "authentication required")
	case errors.Is(err, resilience.ErrCircuitOpen):
		response.ServiceUnavailable(w, r, "storage is temporarily unavailable, please retry later")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		response.ServiceUnavailable(w, r, "request did not complete in time")
	default:
		log.Error().
			Err(err).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
		response.InternalError(w, r, "an unexpected error occurred")
	}
}

func fieldError(e *footprint.InvalidInputError) models.FieldError {
	return models.FieldError{
		Field:   e.Path(),
		Message: e.Reason,
	}
}
