// Package validation wraps go-playground/validator for the core services and
// the Echo servers.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

func New() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// Message joins the readable form of every field failure in err. ok is false
// when err is not a validation failure.
func Message(err error) (msg string, ok bool) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return "", false
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe))
	}
	return strings.Join(msgs, "; "), true
}

// fieldError converts a single validation failure into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// Error is returned by EchoValidator so handlers can tell input problems
// from other failures.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return e.Reason }

// EchoValidator lets Echo call c.Validate(req).
type EchoValidator struct {
	v *validator.Validate
}

// NewEcho returns a validator ready to be assigned to echo.Echo.Validator.
func NewEcho() *EchoValidator {
	return &EchoValidator{v: New()}
}

func (ev *EchoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}
	if msg, ok := Message(err); ok {
		return &Error{Reason: msg}
	}
	return err
}
