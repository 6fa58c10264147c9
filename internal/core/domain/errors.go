package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the API rejected the bearer token (HTTP 401).
	ErrUnauthorized = errors.New("authorization failed")
	// ErrLoginRequired means a protected action was attempted without a token.
	ErrLoginRequired = errors.New("login required")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLoginFailed        = errors.New("login failed")
	ErrPasswordMismatch   = errors.New("passwords do not match")

	ErrAlreadyInCart  = errors.New("course already in cart")
	ErrAddFailed      = errors.New("failed to add course to cart")
	ErrRemoveFailed   = errors.New("failed to remove course from cart")
	ErrCourseNotFound = errors.New("course not found")

	ErrEmptyCart          = errors.New("cart is empty")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrOrderFailed        = errors.New("failed to place order")

	// ErrUnavailable wraps transport failures: the API could not be reached.
	ErrUnavailable = errors.New("marketplace api unavailable")
)

// APIError is a non-2xx answer from the marketplace API that has no more
// specific meaning for the client. Detail carries the API's reason text.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Detail)
}

// ValidationError is a local input check that failed before any network call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
