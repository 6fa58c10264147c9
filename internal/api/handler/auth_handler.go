package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coursestore/storefront/internal/core/domain"
	"github.com/coursestore/storefront/internal/core/ports"
)

type AuthHandler struct {
	*Renderer
	authService ports.AuthService
}

func NewAuthHandler(r *Renderer, authService ports.AuthService) *AuthHandler {
	return &AuthHandler{Renderer: r, authService: authService}
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type registerRequest struct {
	Name            string `json:"name" form:"name"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type formData struct {
	Fields []string `json:"fields"`
}

func (h *AuthHandler) LoginForm(c echo.Context) error {
	return h.Render(c, http.StatusOK, "login", formData{Fields: []string{"email", "password"}}, nil)
}

// Login opens the session and sends the user to the home screen.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	in := ports.LoginInput{Email: req.Email, Password: req.Password}
	if err := h.authService.Login(c.Request().Context(), in); err != nil {
		return err
	}
	return h.Redirect(c, domain.PathHome, nil)
}

func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return h.Render(c, http.StatusOK, "register",
		formData{Fields: []string{"name", "email", "password", "confirm_password"}}, nil)
}

// Register creates the account and sends the user to the login screen.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	_, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Confirm:  req.ConfirmPassword,
	})
	if err != nil {
		return err
	}
	return h.Redirect(c, domain.PathLogin,
		domain.NewNotice(domain.NoticeRegistered, "Registration successful. Please log in."))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context()); err != nil {
		return err
	}
	return h.Redirect(c, domain.PathHome, nil)
}
