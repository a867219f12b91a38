package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gatherly/server/internal/api/middleware"
	"github.com/gatherly/server/internal/api/problem"
	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/ids"
	"github.com/gatherly/server/internal/domain/reviews"
)

type ReviewsHandler struct {
	Service *reviews.Service
	Env     string
}

func NewReviewsHandler(service *reviews.Service, env string) *ReviewsHandler {
	return &ReviewsHandler{Service: service, Env: env}
}

type reviewResponse struct {
	ID        string `json:"id"`
	EventID   string `json:"event_id"`
	UserID    string `json:"user_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toReviewResponse(review *reviews.Review) reviewResponse {
	return reviewResponse{
		ID:        review.ID,
		EventID:   review.EventID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt.Format(time.RFC3339),
	}
}

type createReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Create handles POST /api/v1/events/{id}/reviews.
func (h *ReviewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r)
	if !ok || !principal.IsEndUser() {
		problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Insufficient permissions", nil, h.Env)
		return
	}

	eventID := pathID(r)
	if err := ids.ValidateULID(eventID); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid event id", err, h.Env)
		return
	}

	var request createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	review, err := h.Service.Create(r.Context(), ids.Normalize(eventID), principal.ID, reviews.CreateParams{
		Rating:  request.Rating,
		Comment: request.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, events.ErrNotFound):
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Event not found", err, h.Env)
		case errors.Is(err, reviews.ErrNotRegistered):
			problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Only attendees may review", nil, h.Env)
		case errors.Is(err, reviews.ErrEventNotEnded):
			problem.Write(w, r, http.StatusConflict, problem.TypeConflict, "Event has not ended yet", nil, h.Env)
		case errors.Is(err, reviews.ErrAlreadyReviewed):
			problem.Write(w, r, http.StatusConflict, problem.TypeConflict, "Already reviewed", nil, h.Env)
		default:
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		}
		return
	}

	writeJSON(w, http.StatusCreated, toReviewResponse(review))
}

// ListForEvent handles GET /api/v1/events/{id}/reviews (public).
func (h *ReviewsHandler) ListForEvent(w http.ResponseWriter, r *http.Request) {
	eventID := pathID(r)
	if err := ids.ValidateULID(eventID); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid event id", err, h.Env)
		return
	}

	result, err := h.Service.ListForEvent(r.Context(), ids.Normalize(eventID))
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	items := make([]reviewResponse, 0, len(result))
	for i := range result {
		items = append(items, toReviewResponse(&result[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Delete handles DELETE /api/v1/reviews/{id} (admin only, routed behind
// RequireAdmin).
func (h *ReviewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if err := ids.ValidateULID(id); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid review id", err, h.Env)
		return
	}

	if err := h.Service.Delete(r.Context(), ids.Normalize(id)); err != nil {
		if errors.Is(err, reviews.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Review not found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
