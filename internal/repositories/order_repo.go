package repositories

import (
	"shop/internal/models"

	"gorm.io/gorm"
)

// OrderRepository defines the interface for order data access. Orders are
// append-only after creation except for status transitions.
type OrderRepository interface {
	// Create writes the order and its items inside the caller's
	// transaction. An identifier collision is reported as
	// apperr.ErrSequenceExhausted.
	Create(tx *gorm.DB, order *models.Order) error
	// ListByUser returns the user's orders, newest first, without items.
	ListByUser(tx *gorm.DB, userID string) ([]models.Order, error)
	// GetByID returns one order with its items, scoped to its owner.
	GetByID(tx *gorm.DB, orderID, userID string) (*models.Order, error)
	UpdateStatus(tx *gorm.DB, orderID string, status models.OrderStatus) error
}
