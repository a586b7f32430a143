package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPaid      OrderStatus = "paid"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// statusTransitions lists the permitted next states for each status.
// pending -> paid -> shipped -> delivered, and pending/paid -> cancelled.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending: {StatusPaid, StatusCancelled},
	StatusPaid:    {StatusShipped, StatusCancelled},
	StatusShipped: {StatusDelivered},
}

// CanTransitionTo reports whether moving from s to next is a permitted
// status transition.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order is an immutable record of a completed checkout. Only Status and
// UpdatedAt change after creation.
type Order struct {
	ID         string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string          `json:"user_id" gorm:"index;type:varchar(36)"`
	FullName   string          `json:"full_name" gorm:"type:varchar(100)"`
	Phone      string          `json:"phone" gorm:"type:varchar(20)"`
	Address    string          `json:"address"`
	TotalPrice decimal.Decimal `json:"total_price" gorm:"type:numeric(10,2)"`
	Status     OrderStatus     `json:"status" gorm:"type:varchar(20)"`
	Items      []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// OrderItem is a single line of an order. Product name and price are
// snapshotted at purchase time; ProductID is a plain reference, not a
// cascading foreign key, so order history survives product deletion.
type OrderItem struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID     string          `json:"order_id" gorm:"index;type:varchar(36)"`
	ProductID   string          `json:"product_id" gorm:"index;type:varchar(36)"`
	ProductName string          `json:"product_name" gorm:"type:varchar(200)"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(10,2)"`
	Quantity    int             `json:"quantity"`
}

// Subtotal is price times quantity, derived rather than stored.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
