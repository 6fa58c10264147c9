package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Course is a catalog entry. Instructor, Duration, Level and ImageURL are optional.
type Course struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Instructor  string          `json:"instructor,omitempty"`
	Duration    string          `json:"duration,omitempty"`
	Level       string          `json:"level,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CartItem is one line of the user's cart. The embedded course is a snapshot
// taken when the item was added; its price is never refreshed.
type CartItem struct {
	ID        int64     `json:"id"`
	Course    Course    `json:"course"`
	CreatedAt time.Time `json:"created_at"`
}

// CartTotal sums the course prices of items.
func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Course.Price)
	}
	return total
}
