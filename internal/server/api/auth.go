package api

import (
	"net/http"

	"github.com/lucasmateusli/equiptrack/internal/server/services"
	"github.com/lucasmateusli/equiptrack/internal/server/storage"
	"github.com/lucasmateusli/equiptrack/pkg/models"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authService.SignUp(r.Context(), &req)
	if err != nil {
		if err == storage.ErrDuplicate {
			respondErrorJSON(w, http.StatusConflict, "email or username already registered")
			return
		}
		respondErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authService.SignIn(r.Context(), &req)
	if err != nil {
		respondErrorJSON(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// SignOut is a no-op on the server; tokens are stateless and the client
// just drops its copy. The endpoint exists so clients have a uniform flow.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := GetUserClaims(r)
	if claims == nil {
		respondErrorJSON(w, http.StatusUnauthorized, "missing authorization claims")
		return
	}

	profile, err := h.authService.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		respondErrorJSON(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if profile == nil {
		respondErrorJSON(w, http.StatusNotFound, "profile not found")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func (h *AuthHandler) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	var req models.MakeAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.authService.MakeAdmin(r.Context(), req.Username)
	if err != nil {
		if err == storage.ErrNotFound {
			respondErrorJSON(w, http.StatusNotFound, "profile not found")
			return
		}
		respondErrorJSON(w, http.StatusForbidden, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, profile)
}
