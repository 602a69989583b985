package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/example/sneaker-shop/internal/api/middleware"
	"github.com/example/sneaker-shop/internal/auth"
)

// AuthHandlers handles staff authentication for the admin panel.
type AuthHandlers struct {
	directory  auth.StaffDirectory
	jwtService *auth.JWTService
}

func NewAuthHandlers(directory auth.StaffDirectory, jwtService *auth.JWTService) *AuthHandlers {
	return &AuthHandlers{
		directory:  directory,
		jwtService: jwtService,
	}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// StaffResponse represents staff data in responses
type StaffResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Login authenticates a staff member and sets the access token cookie.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	staff, err := h.directory.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrStaffNotFound) {
			respondJSONError(w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		respondJSONError(w, "login failed", http.StatusInternalServerError)
		return
	}

	if !auth.CheckPassword(req.Password, staff.PasswordHash) {
		respondJSONError(w, "invalid email or password", http.StatusUnauthorized)
		return
	}

	if !auth.StaffRole(staff.Role) {
		respondJSONError(w, "account has no admin access", http.StatusForbidden)
		return
	}

	token, expiresAt, err := h.jwtService.GenerateToken(staff.ID, staff.Email, staff.Role)
	if err != nil {
		respondJSONError(w, "login failed", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})

	respondJSON(w, http.StatusOK, map[string]any{
		"staff": StaffResponse{
			ID:    staff.ID,
			Email: staff.Email,
			Name:  staff.Name,
			Role:  staff.Role,
		},
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

// Logout clears the access token cookie.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the authenticated staff member's claims.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetStaffFromContext(r.Context())
	if !ok {
		respondJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	respondJSON(w, http.StatusOK, StaffResponse{
		ID:    claims.StaffID,
		Email: claims.Email,
		Role:  claims.Role,
	})
}
