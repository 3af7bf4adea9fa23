package dto

import (
	"github.com/kanbanlab/goban/internal/api/validation"
)

// RegisterRequest carries the registration payload. The wire field is
// username; the model calls the same thing name.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	if r.Username == "" || r.Email == "" || r.Password == "" {
		return ErrInvalidBody
	}
	if !validation.IsValidEmail(r.Email) {
		return ErrInvalidBody
	}
	return nil
}

// LoginRequest identifies the account by username or email. Username wins
// when both are present.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if r.Password == "" {
		return ErrInvalidBody
	}
	if r.Username == "" && r.Email == "" {
		return ErrInvalidBody
	}
	if r.Email != "" && !validation.IsValidEmail(r.Email) {
		return ErrInvalidBody
	}
	return nil
}

// TokenResponse is the success body for register and login.
type TokenResponse struct {
	Token string `json:"token"`
}
