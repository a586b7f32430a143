package repositories

import (
	"errors"
	"fmt"

	"shop/internal/apperr"
	"shop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct{}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository() *GORMOrderRepository {
	return &GORMOrderRepository{}
}

// Create writes the order row and its items in the caller's transaction.
// A duplicate key on the order row means the identifier space misbehaved;
// that is distinguished from generic storage failure so the operator sees
// it, rather than silently retried.
func (r *GORMOrderRepository) Create(tx *gorm.DB, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	if err := tx.Create(order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("order %s: %w", order.ID, apperr.ErrSequenceExhausted)
		}
		return apperr.Persistence("create order", err)
	}
	return nil
}

// ListByUser retrieves all of a user's orders, newest first.
func (r *GORMOrderRepository) ListByUser(tx *gorm.DB, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := tx.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, apperr.Persistence("list orders", err)
	}
	return orders, nil
}

// GetByID retrieves one order with its items, filtered by owner. An order
// belonging to another user is not found, never a permission error.
func (r *GORMOrderRepository) GetByID(tx *gorm.DB, orderID, userID string) (*models.Order, error) {
	var order models.Order
	err := tx.Preload("Items").
		First(&order, "id = ? AND user_id = ?", orderID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", orderID, apperr.ErrNotFound)
		}
		return nil, apperr.Persistence("get order", err)
	}
	return &order, nil
}

// UpdateStatus sets the status of an existing order.
func (r *GORMOrderRepository) UpdateStatus(tx *gorm.DB, orderID string, status models.OrderStatus) error {
	res := tx.Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status)
	if res.Error != nil {
		return apperr.Persistence("update order status", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %s: %w", orderID, apperr.ErrNotFound)
	}
	return nil
}
