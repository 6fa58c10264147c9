package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/coursestore/storefront/internal/api/metrics"
	"github.com/coursestore/storefront/internal/core/domain"
	"github.com/coursestore/storefront/internal/core/ports"
)

type CourseHandler struct {
	*Renderer
	catalog ports.CatalogService
	cart    ports.CartService
}

func NewCourseHandler(r *Renderer, catalog ports.CatalogService, cart ports.CartService) *CourseHandler {
	return &CourseHandler{Renderer: r, catalog: catalog, cart: cart}
}

type catalogData struct {
	Level   string          `json:"level"`
	Courses []domain.Course `json:"courses"`
}

type courseData struct {
	Course domain.Course `json:"course"`
}

type addedData struct {
	CourseID  int64 `json:"course_id"`
	CartCount int   `json:"cart_count"`
}

// List renders the catalog, optionally narrowed with ?level=.
func (h *CourseHandler) List(c echo.Context) error {
	level := c.QueryParam("level")
	courses, err := h.catalog.List(c.Request().Context(), ports.CourseFilter{Level: level})
	if err != nil {
		return err
	}
	if level == "" {
		level = "all"
	}
	return h.Render(c, http.StatusOK, "courses", catalogData{Level: level, Courses: courses}, nil)
}

func (h *CourseHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return domain.ErrCourseNotFound
	}
	course, err := h.catalog.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return h.Render(c, http.StatusOK, "course", courseData{Course: *course}, nil)
}

// AddToCart is reachable while logged out so that the user gets a
// login-required notice instead of a redirect.
func (h *CourseHandler) AddToCart(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return domain.ErrCourseNotFound
	}

	err = h.cart.AddItem(c.Request().Context(), id)
	metrics.CartMutationsTotal.WithLabelValues("add", mutationResult(err)).Inc()
	if err != nil {
		return err
	}

	return h.Render(c, http.StatusOK, "courses",
		addedData{CourseID: id, CartCount: len(h.cart.Items())},
		domain.NewNotice(domain.NoticeAddedToCart, "Course added to cart."))
}

func mutationResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrAlreadyInCart):
		return "duplicate"
	case errors.Is(err, domain.ErrLoginRequired):
		return "login_required"
	default:
		return "error"
	}
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
