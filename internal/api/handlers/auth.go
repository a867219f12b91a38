package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gatherly/server/internal/api/problem"
	"github.com/gatherly/server/internal/auth"
	"github.com/gatherly/server/internal/domain/organizers"
	"github.com/gatherly/server/internal/domain/users"
)

// AuthHandler issues bearer tokens for end users and organizers. Both login
// flows produce the same token shape; the subject alone determines which
// directory resolves it on later requests.
type AuthHandler struct {
	Users      *users.Service
	Organizers *organizers.Service
	Codec      *auth.Codec
	Env        string
}

func NewAuthHandler(usersService *users.Service, organizersService *organizers.Service, codec *auth.Codec, env string) *AuthHandler {
	return &AuthHandler{Users: usersService, Organizers: organizersService, Codec: codec, Env: env}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt string      `json:"expires_at"`
	Account   accountInfo `json:"account"`
}

type accountInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Kind  string `json:"kind"`
	Role  string `json:"role,omitempty"`
}

// Login handles POST /api/v1/auth/login for end users.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	request, ok := h.decodeLogin(w, r)
	if !ok {
		return
	}

	user, err := h.Users.Authenticate(r.Context(), request.Email, request.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Invalid credentials", nil, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	token, err := h.Codec.Issue(user.ID)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.Codec.Expiry()).Format(time.RFC3339),
		Account: accountInfo{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Kind:  "user",
			Role:  user.Role,
		},
	})
}

// OrganizerLogin handles POST /api/v1/auth/organizer/login.
func (h *AuthHandler) OrganizerLogin(w http.ResponseWriter, r *http.Request) {
	request, ok := h.decodeLogin(w, r)
	if !ok {
		return
	}

	organizer, err := h.Organizers.Authenticate(r.Context(), request.Email, request.Password)
	if err != nil {
		if errors.Is(err, organizers.ErrInvalidCredentials) {
			problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Invalid credentials", nil, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	token, err := h.Codec.Issue(organizer.ID)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.Codec.Expiry()).Format(time.RFC3339),
		Account: accountInfo{
			ID:    organizer.ID,
			Name:  organizer.Name,
			Email: organizer.Email,
			Kind:  "organizer",
		},
	})
}

type registerUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/v1/auth/register for end users.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var request registerUserRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	user, err := h.Users.Register(r.Context(), users.CreateParams{
		Name:     request.Name,
		Email:    request.Email,
		Password: request.Password,
		Role:     users.RoleUser,
	})
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			problem.Write(w, r, http.StatusConflict, problem.TypeConflict, "Email is already taken", nil, h.Env)
			return
		}
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	writeJSON(w, http.StatusCreated, accountInfo{ID: user.ID, Name: user.Name, Email: user.Email, Kind: "user", Role: user.Role})
}

// RegisterOrganizer handles POST /api/v1/auth/organizer/register.
func (h *AuthHandler) RegisterOrganizer(w http.ResponseWriter, r *http.Request) {
	var request registerUserRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	organizer, err := h.Organizers.Register(r.Context(), organizers.CreateParams{
		Name:     request.Name,
		Email:    request.Email,
		Password: request.Password,
	})
	if err != nil {
		if errors.Is(err, organizers.ErrEmailTaken) {
			problem.Write(w, r, http.StatusConflict, problem.TypeConflict, "Email is already taken", nil, h.Env)
			return
		}
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	writeJSON(w, http.StatusCreated, accountInfo{ID: organizer.ID, Name: organizer.Name, Email: organizer.Email, Kind: "organizer"})
}

func (h *AuthHandler) decodeLogin(w http.ResponseWriter, r *http.Request) (loginRequest, bool) {
	var request loginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return request, false
	}
	if request.Email == "" || request.Password == "" {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Email and password are required", nil, h.Env)
		return request, false
	}
	return request, true
}
