package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/coursestore/storefront/internal/core/domain"
	"github.com/coursestore/storefront/internal/core/ports"
	"github.com/coursestore/storefront/internal/pkg/validation"
)

// Auth implements the login, registration and logout flows.
type Auth struct {
	api      ports.MarketplaceAPI
	session  *Session
	validate *validator.Validate
	log      zerolog.Logger
}

func NewAuth(api ports.MarketplaceAPI, session *Session, log zerolog.Logger) *Auth {
	return &Auth{
		api:      api,
		session:  session,
		validate: validation.New(),
		log:      log,
	}
}

// Login exchanges credentials for a token and opens the session. Every
// failure, including rejected credentials, reads as domain.ErrLoginFailed.
func (a *Auth) Login(ctx context.Context, in ports.LoginInput) error {
	if err := a.check(in); err != nil {
		return err
	}

	token, err := a.api.Login(ctx, in.Email, in.Password)
	if err != nil {
		a.log.Info().Err(err).Str("email", in.Email).Msg("login rejected")
		return fmt.Errorf("%w: %w", domain.ErrLoginFailed, err)
	}
	return a.session.Login(ctx, token)
}

// Register creates an account. It does not log in. A confirmation mismatch
// is caught locally; API rejections keep their reason text.
func (a *Auth) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Password != in.Confirm {
		return nil, domain.ErrPasswordMismatch
	}
	if err := a.check(in); err != nil {
		return nil, err
	}

	user, err := a.api.Register(ctx, ports.Registration{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	a.log.Info().Int64("user_id", user.ID).Msg("account registered")
	return user, nil
}

func (a *Auth) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}

func (a *Auth) check(in any) error {
	err := a.validate.Struct(in)
	if err == nil {
		return nil
	}
	if msg, ok := validation.Message(err); ok {
		return &domain.ValidationError{Reason: msg}
	}
	return err
}
