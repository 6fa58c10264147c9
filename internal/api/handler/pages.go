package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/coursestore/storefront/internal/core/domain"
	"github.com/coursestore/storefront/internal/core/ports"
)

const homeCourseLimit = 3

type PagesHandler struct {
	*Renderer
	catalog ports.CatalogService
	session ports.SessionService
	log     zerolog.Logger
}

func NewPagesHandler(r *Renderer, catalog ports.CatalogService, session ports.SessionService, log zerolog.Logger) *PagesHandler {
	return &PagesHandler{Renderer: r, catalog: catalog, session: session, log: log}
}

type homeData struct {
	Greeting string          `json:"greeting"`
	Courses  []domain.Course `json:"courses"`
}

// Home shows a greeting and the first courses of the catalog. A failing
// catalog degrades to an empty list with a notice.
func (h *PagesHandler) Home(c echo.Context) error {
	data := homeData{Greeting: "Welcome to the course store", Courses: []domain.Course{}}
	if u := h.session.CurrentUser(); u != nil {
		data.Greeting = "Welcome back, " + u.Name
	}

	courses, err := h.catalog.List(c.Request().Context(), ports.CourseFilter{Limit: homeCourseLimit})
	if err != nil {
		h.log.Warn().Err(err).Msg("home catalog unavailable")
		return h.Render(c, http.StatusOK, "home", data, domain.NoticeFor(err))
	}
	data.Courses = courses
	return h.Render(c, http.StatusOK, "home", data, nil)
}

type aboutData struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Highlights  []string `json:"highlights"`
}

func (h *PagesHandler) About(c echo.Context) error {
	return h.Render(c, http.StatusOK, "about", aboutData{
		Title:       "About us",
		Description: "Online courses taught by practising engineers.",
		Highlights: []string{
			"Hands-on projects in every course",
			"Lifetime access after purchase",
			"Mentor reviews of your assignments",
		},
	}, nil)
}

type contactsData struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (h *PagesHandler) Contacts(c echo.Context) error {
	return h.Render(c, http.StatusOK, "contacts", contactsData{
		Email:   "support@coursestore.example",
		Phone:   "+1 555 0100",
		Address: "1 Learning Lane",
	}, nil)
}
