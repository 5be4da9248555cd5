// Package handler provides HTTP handlers for the EcoTracker API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ecotracker/ecotracker/internal/api/middleware"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// errEmptyBody is returned by decodeJSON when the request carries no body.
var errEmptyBody = errors.New("request body must not be empty")

// GetUserID retrieves the authenticated user ID from the context.
// This is a convenience wrapper around middleware.GetUserID.
func GetUserID(ctx context.Context) string {
	return middleware.GetUserID(ctx)
}

// decodeJSON decodes a single JSON object from the request body into v.
// Unknown fields and trailing data are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body must not exceed %d bytes", maxErr.Limit)
		}
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}

	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
