package repositories

import (
	"shop/internal/models"

	"gorm.io/gorm"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	ListActive(tx *gorm.DB, featuredOnly bool) ([]models.Product, error)
	GetActiveByID(tx *gorm.DB, id string) (*models.Product, error)
	Create(tx *gorm.DB, product *models.Product) error
	Update(tx *gorm.DB, product *models.Product) error
	Delete(tx *gorm.DB, id string) error
}
