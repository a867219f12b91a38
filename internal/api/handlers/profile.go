package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gatherly/server/internal/api/middleware"
	"github.com/gatherly/server/internal/api/problem"
	"github.com/gatherly/server/internal/domain/organizers"
	"github.com/gatherly/server/internal/domain/users"
)

// ProfileHandler serves the authenticated account's own profile. The subject
// comes from the attached principal, never from the URL, so a caller can only
// ever touch their own record.
type ProfileHandler struct {
	Users      *users.Service
	Organizers *organizers.Service
	Env        string
}

func NewProfileHandler(usersService *users.Service, organizersService *organizers.Service, env string) *ProfileHandler {
	return &ProfileHandler{Users: usersService, Organizers: organizersService, Env: env}
}

type profileResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Kind        string `json:"kind"`
	Role        string `json:"role,omitempty"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
}

// Get handles GET /api/v1/profile for any authenticated principal.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r)
	if !ok || principal.IsAnonymous() {
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Authentication required", nil, h.Env)
		return
	}

	if principal.IsOrganizer() {
		organizer, err := h.Organizers.Get(r.Context(), principal.ID)
		if err != nil {
			h.writeLookupFailure(w, r, err, organizers.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, profileResponse{
			ID:          organizer.ID,
			Name:        organizer.Name,
			Email:       organizer.Email,
			Kind:        "organizer",
			Description: organizer.Description,
			Website:     organizer.Website,
		})
		return
	}

	user, err := h.Users.Get(r.Context(), principal.ID)
	if err != nil {
		h.writeLookupFailure(w, r, err, users.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Kind:  "user",
		Role:  user.Role,
	})
}

type updateProfileRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Description string `json:"description"`
	Website     string `json:"website"`
}

// Update handles PATCH /api/v1/profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r)
	if !ok || principal.IsAnonymous() {
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Authentication required", nil, h.Env)
		return
	}

	var request updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	if principal.IsOrganizer() {
		organizer, err := h.Organizers.Update(r.Context(), principal.ID, organizers.UpdateParams{
			Name:        request.Name,
			Description: request.Description,
			Website:     request.Website,
		})
		if err != nil {
			h.writeUpdateFailure(w, r, err, organizers.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, profileResponse{
			ID:          organizer.ID,
			Name:        organizer.Name,
			Email:       organizer.Email,
			Kind:        "organizer",
			Description: organizer.Description,
			Website:     organizer.Website,
		})
		return
	}

	user, err := h.Users.UpdateProfile(r.Context(), principal.ID, users.UpdateProfileParams{
		Name:  request.Name,
		Email: request.Email,
	})
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			problem.Write(w, r, http.StatusConflict, problem.TypeConflict, "Email is already taken", nil, h.Env)
			return
		}
		h.writeUpdateFailure(w, r, err, users.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{ID: user.ID, Name: user.Name, Email: user.Email, Kind: "user", Role: user.Role})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword handles POST /api/v1/profile/password (end users only).
func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r)
	if !ok || !principal.IsEndUser() {
		problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Insufficient permissions", nil, h.Env)
		return
	}

	var request changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	if err := h.Users.ChangePassword(r.Context(), principal.ID, request.CurrentPassword, request.NewPassword); err != nil {
		switch {
		case errors.Is(err, users.ErrInvalidCredentials):
			problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Invalid credentials", nil, h.Env)
		case errors.Is(err, users.ErrNotFound):
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Account not found", err, h.Env)
		default:
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/v1/profile (end users only).
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r)
	if !ok || !principal.IsEndUser() {
		problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Insufficient permissions", nil, h.Env)
		return
	}

	if err := h.Users.Delete(r.Context(), principal.ID); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Account not found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProfileHandler) writeLookupFailure(w http.ResponseWriter, r *http.Request, err, notFound error) {
	if errors.Is(err, notFound) {
		problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Account not found", err, h.Env)
		return
	}
	problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
}

func (h *ProfileHandler) writeUpdateFailure(w http.ResponseWriter, r *http.Request, err, notFound error) {
	if errors.Is(err, notFound) {
		problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Account not found", err, h.Env)
		return
	}
	problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
}
