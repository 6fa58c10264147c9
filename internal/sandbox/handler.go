package sandbox

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

const defaultCourseLimit = 100

type Handler struct {
	store *Store
	auth  *Auth
}

func NewHandler(store *Store, auth *Auth) *Handler {
	return &Handler{store: store, auth: auth}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	User        loginUser `json:"user"`
}

type addToCartRequest struct {
	CourseID int64 `json:"course_id" validate:"required,gt=0"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// bindValid binds and validates req; both failures are input errors.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid payload")
	}
	return c.Validate(req)
}

func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	user, err := h.auth.Register(req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	token, user, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        loginUser{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}

func (h *Handler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) ListCourses(c echo.Context) error {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", defaultCourseLimit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.store.Courses(skip, limit))
}

func (h *Handler) GetCourse(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	course, err := h.store.Course(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, course)
}

func (h *Handler) GetCart(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.store.Cart(user.ID))
}

func (h *Handler) AddToCart(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req addToCartRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	item, err := h.store.AddToCart(user.ID, req.CourseID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) RemoveFromCart(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.store.RemoveFromCart(user.ID, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Course removed from cart"})
}

func (h *Handler) CreateOrder(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	order, err := h.store.CreateOrder(user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

func (h *Handler) ListOrders(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.store.Orders(user.ID))
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy", "message": "API is working"})
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusUnprocessableEntity, "id must be a positive integer")
	}
	return id, nil
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, echo.NewHTTPError(http.StatusUnprocessableEntity, name+" must be a non-negative integer")
	}
	return n, nil
}
