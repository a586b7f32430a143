package repositories

import (
	"errors"
	"fmt"

	"shop/internal/apperr"
	"shop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct{}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository() *GORMCartRepository {
	return &GORMCartRepository{}
}

// ListByUser returns the user's cart lines with their products, oldest
// first, matching the order the items were added in.
func (r *GORMCartRepository) ListByUser(tx *gorm.DB, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := tx.Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&items).Error
	if err != nil {
		return nil, apperr.Persistence("list cart", err)
	}
	return items, nil
}

// GetByUserAndProduct returns the user's cart line for a product, if any.
func (r *GORMCartRepository) GetByUserAndProduct(tx *gorm.DB, userID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := tx.First(&item, "user_id = ? AND product_id = ?", userID, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.Persistence("get cart line", err)
	}
	return &item, nil
}

// GetByID returns a cart line scoped to its owner. A line belonging to
// another user is reported as not found.
func (r *GORMCartRepository) GetByID(tx *gorm.DB, itemID, userID string) (*models.CartItem, error) {
	var item models.CartItem
	err := tx.First(&item, "id = ? AND user_id = ?", itemID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart line %s: %w", itemID, apperr.ErrNotFound)
		}
		return nil, apperr.Persistence("get cart line", err)
	}
	return &item, nil
}

// Create inserts a new cart line.
func (r *GORMCartRepository) Create(tx *gorm.DB, item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := tx.Create(item).Error; err != nil {
		return apperr.Persistence("create cart line", err)
	}
	return nil
}

// UpdateQuantity sets the quantity of an existing cart line.
func (r *GORMCartRepository) UpdateQuantity(tx *gorm.DB, itemID string, quantity int) error {
	res := tx.Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity)
	if res.Error != nil {
		return apperr.Persistence("update cart line", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart line %s: %w", itemID, apperr.ErrNotFound)
	}
	return nil
}

// Delete removes a single cart line.
func (r *GORMCartRepository) Delete(tx *gorm.DB, itemID string) error {
	res := tx.Delete(&models.CartItem{}, "id = ?", itemID)
	if res.Error != nil {
		return apperr.Persistence("delete cart line", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart line %s: %w", itemID, apperr.ErrNotFound)
	}
	return nil
}

// DeleteByUser removes all of a user's cart lines.
func (r *GORMCartRepository) DeleteByUser(tx *gorm.DB, userID string) error {
	err := tx.Delete(&models.CartItem{}, "user_id = ?", userID).Error
	return apperr.Persistence("clear cart", err)
}

// ListByProduct returns every cart line holding a product, across users.
// Used when a product is removed from the catalog.
func (r *GORMCartRepository) ListByProduct(tx *gorm.DB, productID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := tx.Where("product_id = ?", productID).Find(&items).Error
	if err != nil {
		return nil, apperr.Persistence("list cart lines by product", err)
	}
	return items, nil
}
