package services

import (
	"fmt"

	"shop/internal/apperr"
	"shop/internal/models"
	"shop/internal/repositories"

	"gorm.io/gorm"
)

// OrderService exposes the read side of completed orders and the status
// transition surface. Orders are append-only: nothing but status and
// updated_at ever changes after checkout.
type OrderService struct {
	db     *gorm.DB
	orders repositories.OrderRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(db *gorm.DB, orders repositories.OrderRepository) *OrderService {
	return &OrderService{
		db:     db,
		orders: orders,
	}
}

// ListOrders retrieves the user's orders, newest first.
func (s *OrderService) ListOrders(userID string) ([]models.Order, error) {
	return s.orders.ListByUser(s.db, userID)
}

// GetOrder retrieves a single order scoped to its owner.
func (s *OrderService) GetOrder(orderID, userID string) (*models.Order, error) {
	return s.orders.GetByID(s.db, orderID, userID)
}

// UpdateOrderStatus moves one of the user's orders to a new status. Only
// the transitions pending->paid->shipped->delivered and
// pending/paid->cancelled are permitted. Someone else's order is NotFound,
// never a permission error.
func (s *OrderService) UpdateOrderStatus(orderID, userID string, status models.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("unknown order status %s: %w", status, apperr.ErrInvalidTransition)
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orders.GetByID(tx, orderID, userID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(status) {
			return fmt.Errorf("order %s cannot move from %s to %s: %w",
				orderID, order.Status, status, apperr.ErrInvalidTransition)
		}
		return s.orders.UpdateStatus(tx, orderID, status)
	})
}
