// Package handler contains the HTTP layer: request parsing, response
// shaping, and the mapping between domain errors and status codes. All
// business rules live one layer down in package service.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/record-crate/internal/auth"
	"github.com/sakif/record-crate/model"
	"github.com/sakif/record-crate/internal/service"
)

// AuthHandler serves registration, login, and admin management.
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// HandleRegister handles POST /api/auth/register.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.svc.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: result.Token, User: result.User})
}

// HandleLogin handles POST /api/auth/login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: result.Token, User: result.User})
}

// HandleMe handles GET /api/auth/me. Requires auth.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "access token required"})
		return
	}

	user, err := h.svc.Me(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type setAdminRequest struct {
	Admin *bool `json:"admin"`
}

// HandleSetAdmin handles POST /api/auth/users/{id}/admin. Admin only.
// An absent body flag defaults to promotion.
func (h *AuthHandler) HandleSetAdmin(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	admin := true
	if r.ContentLength > 0 {
		var req setAdminRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.Admin != nil {
			admin = *req.Admin
		}
	}

	user, err := h.svc.SetAdmin(r.Context(), id, admin)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleListAdmins handles GET /api/auth/admins. Admin only.
func (h *AuthHandler) HandleListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.svc.ListAdmins(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, admins)
}
