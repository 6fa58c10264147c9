package apiclient

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coursestore/storefront/internal/core/domain"
)

// apiTimeLayouts lists the timestamp formats the API emits. Naive
// timestamps carry no zone and are read as UTC.
var apiTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

type apiTime struct {
	time.Time
}

func (t *apiTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	s := string(bytes.Trim(b, `"`))
	for _, layout := range apiTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unsupported timestamp %q", s)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type addToCartRequest struct {
	CourseID int64 `json:"course_id"`
}

type userDTO struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	IsActive  bool    `json:"is_active"`
	CreatedAt apiTime `json:"created_at"`
}

func (u userDTO) toDomain() *domain.User {
	return &domain.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Time,
	}
}

type courseDTO struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Instructor  *string         `json:"instructor"`
	Duration    *string         `json:"duration"`
	Level       *string         `json:"level"`
	ImageURL    *string         `json:"image_url"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   apiTime         `json:"created_at"`
}

func (c courseDTO) toDomain() domain.Course {
	return domain.Course{
		ID:          c.ID,
		Title:       c.Title,
		Description: deref(c.Description),
		Price:       c.Price,
		Instructor:  deref(c.Instructor),
		Duration:    deref(c.Duration),
		Level:       deref(c.Level),
		ImageURL:    deref(c.ImageURL),
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt.Time,
	}
}

// cartItemDTO is also the add-to-cart answer. APIs that only acknowledge
// the add send {"message": ...}, which decodes to a zero ID.
type cartItemDTO struct {
	ID        int64     `json:"id"`
	Course    courseDTO `json:"course"`
	CreatedAt apiTime   `json:"created_at"`
}

func (i cartItemDTO) toDomain() domain.CartItem {
	return domain.CartItem{
		ID:        i.ID,
		Course:    i.Course.toDomain(),
		CreatedAt: i.CreatedAt.Time,
	}
}

type orderItemDTO struct {
	ID     int64           `json:"id"`
	Price  decimal.Decimal `json:"price"`
	Course courseDTO       `json:"course"`
}

type orderDTO struct {
	ID          int64           `json:"id"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []orderItemDTO  `json:"order_items"`
	CreatedAt   apiTime         `json:"created_at"`
}

func (o orderDTO) toDomain() domain.Order {
	order := domain.Order{
		ID:          o.ID,
		Status:      domain.OrderStatus(o.Status),
		TotalAmount: o.TotalAmount,
		Items:       make([]domain.OrderItem, 0, len(o.Items)),
		CreatedAt:   o.CreatedAt.Time,
	}
	for _, it := range o.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:     it.ID,
			Price:  it.Price,
			Course: it.Course.toDomain(),
		})
	}
	return order
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
