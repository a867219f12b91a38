package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gatherly/server/internal/api/problem"
	"github.com/gatherly/server/internal/domain/ids"
	"github.com/gatherly/server/internal/domain/users"
)

// AdminUsersHandler serves the administrator user-management surface. Every
// route is mounted behind the admin gate; the handler itself does no role
// checking.
type AdminUsersHandler struct {
	Service *users.Service
	Env     string
}

func NewAdminUsersHandler(service *users.Service, env string) *AdminUsersHandler {
	return &AdminUsersHandler{Service: service, Env: env}
}

type adminUserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// List handles GET /api/v1/admin/users.
func (h *AdminUsersHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := users.ListFilters{Role: r.URL.Query().Get("role")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 200 {
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid limit", nil, h.Env)
			return
		}
		filters.Limit = limit
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid offset", nil, h.Env)
			return
		}
		filters.Offset = offset
	}

	result, err := h.Service.List(r.Context(), filters)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	items := make([]adminUserResponse, 0, len(result))
	for _, user := range result {
		items = append(items, adminUserResponse{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

// ChangeRole handles PUT /api/v1/admin/users/{id}/role.
func (h *AdminUsersHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if err := ids.ValidateULID(id); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid user id", err, h.Env)
		return
	}

	var request changeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	if err := h.Service.ChangeRole(r.Context(), ids.Normalize(id), request.Role); err != nil {
		switch {
		case errors.Is(err, users.ErrNotFound):
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "User not found", err, h.Env)
		default:
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/v1/admin/users/{id}.
func (h *AdminUsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if err := ids.ValidateULID(id); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid user id", err, h.Env)
		return
	}

	if err := h.Service.Delete(r.Context(), ids.Normalize(id)); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "User not found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
