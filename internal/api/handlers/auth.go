package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kanbanlab/goban/internal/api/dto"
	"github.com/kanbanlab/goban/internal/auth"
)

type AuthHandler struct {
	authService *auth.Service
}

func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates the account and, like login, answers with a fresh token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, dto.ErrInvalidBody)
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	resp, err := h.authService.Register(r.Context(), auth.RegisterInput{
		Name:     req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TokenResponse{Token: resp.Token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, dto.ErrInvalidBody)
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	resp, err := h.authService.Login(r.Context(), auth.LoginInput{
		Name:     req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TokenResponse{Token: resp.Token})
}
