package auth

import (
	"context"

	"github.com/kanbanlab/goban/internal/database/models"
	"github.com/kanbanlab/goban/internal/kanban"
	"github.com/kanbanlab/goban/internal/repository"
)

// ErrWrongCredentials is returned for an unknown account and for a bad
// password alike, so the two cases stay indistinguishable on the wire.
var ErrWrongCredentials = kanban.Unauthorized("Wrong username or password")

type Service struct {
	users repository.UserRepository
	jwt   *JWTService
}

func NewService(users repository.UserRepository, jwt *JWTService) *Service {
	return &Service{users: users, jwt: jwt}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput identifies the account by name or email. When both are set the
// name wins; at least one must be present.
type LoginInput struct {
	Name     string
	Email    string
	Password string
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"-"`
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, kanban.ErrRequiredFields
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, err
	}

	// A fresh account is logged in right away.
	token, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: &user}, nil
}

func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	if input.Password == "" || (input.Name == "" && input.Email == "") {
		return nil, kanban.ErrRequiredFields
	}

	var (
		user *models.User
		err  error
	)
	if input.Name != "" {
		user, err = s.users.FindByName(ctx, input.Name)
	} else {
		user, err = s.users.FindByEmail(ctx, input.Email)
	}
	if err != nil {
		if kanban.IsKind(err, kanban.KindNotFound) {
			return nil, ErrWrongCredentials
		}
		return nil, err
	}

	if !CheckPassword(input.Password, user.PasswordHash) {
		return nil, ErrWrongCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: user}, nil
}
