package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ecotracker/ecotracker/internal/api/models"
	"github.com/ecotracker/ecotracker/internal/api/response"
	"github.com/ecotracker/ecotracker/internal/feedback"
)

// FeedbackHandler handles user feedback endpoints.
type FeedbackHandler struct {
	service *feedback.Service
	log     zerolog.Logger
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(service *feedback.Service, log zerolog.Logger) *FeedbackHandler {
	return &FeedbackHandler{service: service, log: log}
}

// Submit handles POST /v1/me/feedback.
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.FeedbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}
	if req.Rating == nil {
		response.BadRequest(w, r, "feedback is invalid", []models.FieldError{
			{Field: "rating", Message: "is required", Code: "REQUIRED"},
		})
		return
	}

	entry, err := h.service.Submit(r.Context(), GetUserID(r.Context()), *req.Rating, req.Comment)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Created(w, r, "/v1/me/feedback", toFeedback(entry))
}

// List handles GET /v1/me/feedback.
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context(), GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	items := make([]models.Feedback, len(entries))
	for i, e := range entries {
		items[i] = toFeedback(e)
	}
	response.JSON(w, r, http.StatusOK, models.FeedbackList{
		Items: items,
		Meta:  models.ListMeta{Count: len(items)},
	})
}

func toFeedback(e *feedback.Entry) models.Feedback {
	return models.Feedback{
		ID:        e.ID,
		Rating:    e.Rating,
		Comment:   e.Comment,
		CreatedAt: models.Timestamp(e.CreatedAt),
	}
}
