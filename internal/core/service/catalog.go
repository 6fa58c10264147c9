package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/coursestore/storefront/internal/core/domain"
	"github.com/coursestore/storefront/internal/core/ports"
)

// Catalog reads the public course list.
type Catalog struct {
	api ports.MarketplaceAPI
}

func NewCatalog(api ports.MarketplaceAPI) *Catalog {
	return &Catalog{api: api}
}

// List returns courses in server order, keeping only the requested level.
func (c *Catalog) List(ctx context.Context, filter ports.CourseFilter) ([]domain.Course, error) {
	courses, err := c.api.ListCourses(ctx, filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	level := strings.TrimSpace(filter.Level)
	if level == "" || strings.EqualFold(level, "all") {
		return courses, nil
	}
	matched := make([]domain.Course, 0, len(courses))
	for _, course := range courses {
		if strings.EqualFold(course.Level, level) {
			matched = append(matched, course)
		}
	}
	return matched, nil
}

func (c *Catalog) Get(ctx context.Context, id int64) (*domain.Course, error) {
	course, err := c.api.GetCourse(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get course %d: %w", id, err)
	}
	return course, nil
}

// Orders reads the order history of the logged-in user.
type Orders struct {
	api     ports.MarketplaceAPI
	session *Session
}

func NewOrders(api ports.MarketplaceAPI, session *Session) *Orders {
	return &Orders{api: api, session: session}
}

func (o *Orders) List(ctx context.Context) ([]domain.Order, error) {
	token, err := o.session.Token(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := o.api.ListOrders(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", o.session.HandleAPIError(ctx, err))
	}
	return orders, nil
}
