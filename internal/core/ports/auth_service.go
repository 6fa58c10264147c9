package ports

import (
	"context"

	"github.com/coursestore/storefront/internal/core/domain"
)

// LoginInput carries the login form.
type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// RegisterInput carries the registration form. Confirm must repeat Password.
type RegisterInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	Confirm  string
}

type AuthService interface {
	Login(ctx context.Context, in LoginInput) error
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Logout(ctx context.Context) error
}

// SessionService is the read side of the session used by screens.
type SessionService interface {
	IsAuthenticated() bool
	CurrentUser() *domain.User
}
