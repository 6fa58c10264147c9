package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the server-side lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderItem is a purchased course with the price it was bought at.
type OrderItem struct {
	ID     int64           `json:"id"`
	Price  decimal.Decimal `json:"price"`
	Course Course          `json:"course"`
}

// Order is immutable once created; the client never edits or cancels it.
type Order struct {
	ID          int64           `json:"id"`
	Status      OrderStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []OrderItem     `json:"order_items"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ItemsTotal sums the item prices. For a well-formed order it equals TotalAmount.
func (o Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Price)
	}
	return total
}
