package domain

import "errors"

// NoticeKind identifies a user-visible message.
type NoticeKind string

const (
	NoticeLoginRequired      NoticeKind = "login_required"
	NoticeSessionExpired     NoticeKind = "session_expired"
	NoticeAlreadyInCart      NoticeKind = "already_in_cart"
	NoticeAddedToCart        NoticeKind = "added_to_cart"
	NoticeAddFailed          NoticeKind = "add_failed"
	NoticeRemoveFailed       NoticeKind = "remove_failed"
	NoticeEmptyCart          NoticeKind = "empty_cart"
	NoticeCheckoutInProgress NoticeKind = "checkout_in_progress"
	NoticeOrderPlaced        NoticeKind = "order_placed"
	NoticeOrderFailed        NoticeKind = "order_failed"
	NoticeLoginFailed        NoticeKind = "login_failed"
	NoticeRegistered         NoticeKind = "registered"
	NoticeValidation         NoticeKind = "validation"
	NoticeNotFound           NoticeKind = "not_found"
	NoticeUnavailable        NoticeKind = "unavailable"
	NoticeError              NoticeKind = "error"
)

// Notice is a message shown to the user instead of a raw error.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

func NewNotice(kind NoticeKind, msg string) *Notice {
	return &Notice{Kind: kind, Message: msg}
}

// NoticeFor maps err to the notice the user should see. Specific sentinels
// win over the wrapped causes they carry, so a failed order that was caused by
// a network error still reads as an order failure.
func NoticeFor(err error) *Notice {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrLoginRequired):
		return NewNotice(NoticeLoginRequired, "Please log in to continue.")
	case errors.Is(err, ErrAlreadyInCart):
		return NewNotice(NoticeAlreadyInCart, "This course is already in your cart.")
	case errors.Is(err, ErrEmptyCart):
		return NewNotice(NoticeEmptyCart, "Your cart is empty.")
	case errors.Is(err, ErrCheckoutInProgress):
		return NewNotice(NoticeCheckoutInProgress, "Your order is being placed.")
	case errors.Is(err, ErrAddFailed):
		return NewNotice(NoticeAddFailed, "Could not add the course to your cart.")
	case errors.Is(err, ErrRemoveFailed):
		return NewNotice(NoticeRemoveFailed, "Could not remove the course from your cart.")
	case errors.Is(err, ErrOrderFailed):
		return NewNotice(NoticeOrderFailed, "Could not place your order.")
	case errors.Is(err, ErrLoginFailed), errors.Is(err, ErrInvalidCredentials):
		return NewNotice(NoticeLoginFailed, "Login failed.")
	case errors.Is(err, ErrUnauthorized):
		return NewNotice(NoticeSessionExpired, "Your session has expired. Please log in again.")
	case errors.Is(err, ErrPasswordMismatch):
		return NewNotice(NoticeValidation, "Passwords do not match.")
	case errors.Is(err, ErrCourseNotFound):
		return NewNotice(NoticeNotFound, "Course not found.")
	case errors.Is(err, ErrUnavailable):
		return NewNotice(NoticeUnavailable, "The course store is not reachable right now.")
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return NewNotice(NoticeValidation, ve.Reason)
	}
	var ae *APIError
	if errors.As(err, &ae) && ae.Detail != "" {
		return NewNotice(NoticeValidation, ae.Detail)
	}

	return NewNotice(NoticeError, "Something went wrong.")
}
