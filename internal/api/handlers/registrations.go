package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gatherly/server/internal/api/middleware"
	"github.com/gatherly/server/internal/api/problem"
	"github.com/gatherly/server/internal/domain/ids"
	"github.com/gatherly/server/internal/domain/registrations"
)

type RegistrationsHandler struct {
	Service *registrations.Service
	Env     string
}

func NewRegistrationsHandler(service *registrations.Service, env string) *RegistrationsHandler {
	return &RegistrationsHandler{Service: service, Env: env}
}

type registrationResponse struct {
	ID        string `json:"id"`
	EventID   string `json:"event_id"`
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func toRegistrationResponse(registration *registrations.Registration) registrationResponse {
	return registrationResponse{
		ID:        registration.ID,
		EventID:   registration.EventID,
		UserID:    registration.UserID,
		Status:    registration.Status,
		CreatedAt: registration.CreatedAt.Format(time.RFC3339),
	}
}

// Create handles POST /api/v1/events/{id}/registrations.
func (h *RegistrationsHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	registration, err := h.Service.Register(r.Context(), ids.Normalize(eventID), principal.ID)
	if err != nil {
		switch {
		case errors.Is(err, registrations.ErrNotFound):
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Event not found", err, h.Env)
		case errors.Is(err, registrations.ErrAlreadyRegistered):
			problem.Write(w, r, http.StatusConflict, problem.TypeConflict, "Already registered", nil, h.Env)
		case errors.Is(err, registrations.ErrEventFull):
			problem.Write(w, r, http.StatusConflict, problem.TypeConflict, "Event is full", nil, h.Env)
		case errors.Is(err, registrations.ErrEventNotOpen):
			problem.Write(w, r, http.StatusConflict, problem.TypeConflict, "Event is not open for registration", nil, h.Env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		}
		return
	}

	writeJSON(w, http.StatusCreated, toRegistrationResponse(registration))
}

// Cancel handles DELETE /api/v1/events/{id}/registrations.
func (h *RegistrationsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Service.Cancel(r.Context(), ids.Normalize(eventID), principal.ID); err != nil {
		if errors.Is(err, registrations.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Registration not found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListMine handles GET /api/v1/registrations for the authenticated user.
func (h *RegistrationsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r)
	if !ok || !principal.IsEndUser() {
		problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Insufficient permissions", nil, h.Env)
		return
	}

	result, err := h.Service.ListForUser(r.Context(), principal.ID)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	items := make([]registrationResponse, 0, len(result))
	for i := range result {
		items = append(items, toRegistrationResponse(&result[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// ListForEvent handles GET /api/v1/events/{id}/registrations. The ownership
// guard has already confirmed the caller runs this event (or is an admin).
func (h *RegistrationsHandler) ListForEvent(w http.ResponseWriter, r *http.Request) {
	event, ok := middleware.EventFrom(r)
	if !ok {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", nil, h.Env)
		return
	}

	result, err := h.Service.ListForEvent(r.Context(), event.ID)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	items := make([]registrationResponse, 0, len(result))
	for i := range result {
		items = append(items, toRegistrationResponse(&result[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
