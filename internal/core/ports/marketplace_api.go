package ports

import (
	"context"

	"github.com/coursestore/storefront/internal/core/domain"
)

// Registration is the payload of POST /register.
type Registration struct {
	Name     string
	Email    string
	Password string
}

// MarketplaceAPI is the remote course store API.
//
// Every method that takes a token sends it as a bearer credential. Failures
// are reported through the domain error values:
//   - domain.ErrUnauthorized: the API answered 401 on an authorized call.
//   - domain.ErrUnavailable: the API could not be reached.
//   - *domain.APIError: any other non-2xx answer, with the API's reason text.
//
// Methods list their additional, more specific failures below.
type MarketplaceAPI interface {
	// Login exchanges credentials for an access token.
	// Fails with domain.ErrInvalidCredentials on rejected credentials.
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, in Registration) (*domain.User, error)
	Me(ctx context.Context, token string) (*domain.User, error)

	// ListCourses returns the catalog in server order. limit <= 0 means the
	// server default.
	ListCourses(ctx context.Context, limit int) ([]domain.Course, error)
	// GetCourse fails with domain.ErrCourseNotFound on 404.
	GetCourse(ctx context.Context, id int64) (*domain.Course, error)

	GetCart(ctx context.Context, token string) ([]domain.CartItem, error)
	// AddToCart fails with domain.ErrAlreadyInCart when the course is
	// already in the cart.
	AddToCart(ctx context.Context, token string, courseID int64) (*domain.CartItem, error)
	RemoveFromCart(ctx context.Context, token string, cartItemID int64) error

	// CreateOrder turns the server-side cart into an order and empties it.
	CreateOrder(ctx context.Context, token string) (*domain.Order, error)
	ListOrders(ctx context.Context, token string) ([]domain.Order, error)
}
