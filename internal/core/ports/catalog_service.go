package ports

import (
	"context"

	"github.com/coursestore/storefront/internal/core/domain"
)

// CourseFilter narrows a catalog listing.
type CourseFilter struct {
	Limit int    // 0 = server default
	Level string // optional, case-insensitive; "" or "all" = every level
}

type CatalogService interface {
	List(ctx context.Context, filter CourseFilter) ([]domain.Course, error)
	Get(ctx context.Context, id int64) (*domain.Course, error)
}

// OrderService reads the order history of the logged-in user.
type OrderService interface {
	List(ctx context.Context) ([]domain.Order, error)
}
