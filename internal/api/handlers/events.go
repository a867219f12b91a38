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
)

type EventsHandler struct {
	Service *events.Service
	Env     string
}

func NewEventsHandler(service *events.Service, env string) *EventsHandler {
	return &EventsHandler{Service: service, Env: env}
}

type eventResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	OrganizerID string `json:"organizer_id"`
	Venue       string `json:"venue,omitempty"`
	City        string `json:"city,omitempty"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Capacity    int    `json:"capacity"`
	Status      string `json:"status"`
}

type eventListResponse struct {
	Items      []eventResponse `json:"items"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

func toEventResponse(event *events.Event) eventResponse {
	return eventResponse{
		ID:          event.ID,
		Name:        event.Name,
		Description: event.Description,
		OrganizerID: event.OrganizerID,
		Venue:       event.Venue,
		City:        event.City,
		StartTime:   event.StartTime.Format(time.RFC3339),
		EndTime:     event.EndTime.Format(time.RFC3339),
		Capacity:    event.Capacity,
		Status:      event.Status,
	}
}

// List handles GET /api/v1/events. The route runs under optional
// authentication: anonymous callers see published events only, while an
// organizer also sees their own drafts.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, pagination, err := events.ParseFilters(r.URL.Query())
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	// Owners may list their own drafts; everyone else sees published events.
	principal, _ := middleware.PrincipalFrom(r)
	ownQuery := principal.IsOrganizer() && filters.OrganizerID == principal.ID
	if filters.Status == "" {
		if !ownQuery {
			filters.Status = events.StatusPublished
		}
	} else if filters.Status != events.StatusPublished && !ownQuery && !principal.IsAdmin() {
		problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Insufficient permissions", nil, h.Env)
		return
	}

	result, err := h.Service.List(r.Context(), filters, pagination)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	items := make([]eventResponse, 0, len(result.Events))
	for i := range result.Events {
		items = append(items, toEventResponse(&result.Events[i]))
	}
	writeJSON(w, http.StatusOK, eventListResponse{Items: items, NextCursor: result.NextCursor})
}

// Get handles GET /api/v1/events/{id}.
func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if err := ids.ValidateULID(id); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid event id", err, h.Env)
		return
	}

	event, err := h.Service.Get(r.Context(), ids.Normalize(id))
	if err != nil {
		if errors.Is(err, events.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Event not found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(event))
}

type createEventRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	City        string    `json:"city"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Capacity    int       `json:"capacity"`
	Status      string    `json:"status"`
}

// Create handles POST /api/v1/events. Requires an organizer principal.
func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r)
	if !ok || !principal.IsOrganizer() {
		problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Insufficient permissions", nil, h.Env)
		return
	}

	var request createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	event, err := h.Service.Create(r.Context(), principal.ID, events.CreateParams{
		Name:        request.Name,
		Description: request.Description,
		Venue:       request.Venue,
		City:        request.City,
		StartTime:   request.StartTime,
		EndTime:     request.EndTime,
		Capacity:    request.Capacity,
		Status:      request.Status,
	})
	if err != nil {
		var filterErr events.FilterError
		if errors.As(err, &filterErr) {
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	writeJSON(w, http.StatusCreated, toEventResponse(event))
}

type updateEventRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Venue       *string    `json:"venue"`
	City        *string    `json:"city"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Capacity    *int       `json:"capacity"`
	Status      *string    `json:"status"`
}

// Update handles PATCH /api/v1/events/{id}. The ownership guard has already
// loaded the event and verified the caller; the loaded copy pins the id.
func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	event, ok := middleware.EventFrom(r)
	if !ok {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", nil, h.Env)
		return
	}

	var request updateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	updated, err := h.Service.Update(r.Context(), event.ID, events.UpdateParams{
		Name:        request.Name,
		Description: request.Description,
		Venue:       request.Venue,
		City:        request.City,
		StartTime:   request.StartTime,
		EndTime:     request.EndTime,
		Capacity:    request.Capacity,
		Status:      request.Status,
	})
	if err != nil {
		var filterErr events.FilterError
		switch {
		case errors.As(err, &filterErr):
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		case errors.Is(err, events.ErrNotFound):
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Event not found", err, h.Env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		}
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(updated))
}

// Delete handles DELETE /api/v1/events/{id}, also behind the ownership guard.
func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	event, ok := middleware.EventFrom(r)
	if !ok {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", nil, h.Env)
		return
	}

	if err := h.Service.Delete(r.Context(), event.ID); err != nil {
		if errors.Is(err, events.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Event not found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
