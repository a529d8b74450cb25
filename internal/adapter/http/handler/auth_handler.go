package handler

import (
	"encoding/json"
	"net/http"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/auth"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	jwtManager *auth.JWTManager
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{
		jwtManager: jwtManager,
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// UserInfo represents user information
type UserInfo struct {
	ID      string `json:"id"`
	GroupID string `json:"group_id"`
	Email   string `json:"email"`
}

// Login handles user login (simplified - no password hashing for demo)
// In production, this would validate against a user database with hashed passwords
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	// DEMO ONLY: Hardcoded users for testing
	// In production, validate against database with bcrypt password hashing
	var user *domain.User
	switch req.Email {
	case "alice@gobudget.io":
		if req.Password != "alice123" { // DEMO ONLY - never hardcode passwords!
			writeError(w, http.StatusUnauthorized, "invalid credentials", "")
			return
		}
		user = &domain.User{
			ID:      "alice",
			GroupID: "household-1",
			Email:   req.Email,
		}
	case "bob@gobudget.io":
		if req.Password != "bob123" {
			writeError(w, http.StatusUnauthorized, "invalid credentials", "")
			return
		}
		user = &domain.User{
			ID:      "bob",
			GroupID: "household-2",
			Email:   req.Email,
		}
	default:
		writeError(w, http.StatusUnauthorized, "invalid credentials", "")
		return
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token: token,
		User: UserInfo{
			ID:      user.ID,
			GroupID: user.GroupID,
			Email:   user.Email,
		},
	})
}
