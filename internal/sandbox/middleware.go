package sandbox

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/coursestore/storefront/internal/core/domain"
)

const ctxUser = "user"

// RequireUser validates the bearer token and stores the caller in the
// context. A token for a deleted user answers 404 like the original backend.
func RequireUser(auth *Auth) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header")
			}

			user, err := auth.Authenticate(parts[1])
			if err != nil {
				if errors.Is(err, ErrUserNotFound) {
					return echo.NewHTTPError(http.StatusNotFound, "User not found")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set(ctxUser, user)
			return next(c)
		}
	}
}

func currentUser(c echo.Context) (domain.User, error) {
	user, ok := c.Get(ctxUser).(domain.User)
	if !ok {
		return domain.User{}, echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return user, nil
}
