package repositories

import (
	"shop/internal/models"

	"gorm.io/gorm"
)

// CartRepository defines the interface for cart line data access. Every
// method takes the transaction (or plain session) it should run in, so that
// cart writes always commit together with their stock adjustment.
type CartRepository interface {
	ListByUser(tx *gorm.DB, userID string) ([]models.CartItem, error)
	GetByUserAndProduct(tx *gorm.DB, userID, productID string) (*models.CartItem, error)
	GetByID(tx *gorm.DB, itemID, userID string) (*models.CartItem, error)
	Create(tx *gorm.DB, item *models.CartItem) error
	UpdateQuantity(tx *gorm.DB, itemID string, quantity int) error
	Delete(tx *gorm.DB, itemID string) error
	DeleteByUser(tx *gorm.DB, userID string) error
	ListByProduct(tx *gorm.DB, productID string) ([]models.CartItem, error)
}
