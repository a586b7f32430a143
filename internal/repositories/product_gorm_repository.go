package repositories

import (
	"errors"
	"fmt"
	"strings"

	"shop/internal/apperr"
	"shop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct{}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository() *GORMProductRepository {
	return &GORMProductRepository{}
}

// ListActive retrieves all active products, newest first.
func (r *GORMProductRepository) ListActive(tx *gorm.DB, featuredOnly bool) ([]models.Product, error) {
	q := tx.Where("is_active = ?", true)
	if featuredOnly {
		q = q.Where("is_featured = ?", true)
	}
	var products []models.Product
	if err := q.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, apperr.Persistence("list products", err)
	}
	return products, nil
}

// GetActiveByID retrieves a single active product by its ID.
func (r *GORMProductRepository) GetActiveByID(tx *gorm.DB, id string) (*models.Product, error) {
	var product models.Product
	err := tx.First(&product, "id = ? AND is_active = ?", id, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
		}
		return nil, apperr.Persistence("get product", err)
	}
	return &product, nil
}

// Create creates a new product, generating id and slug when absent.
func (r *GORMProductRepository) Create(tx *gorm.DB, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.Slug == "" {
		product.Slug = makeSlug(product.Name)
	}
	if err := tx.Create(product).Error; err != nil {
		return apperr.Persistence("create product", err)
	}
	return nil
}

// Update updates the catalog-owned fields of a product. The reserved
// counter belongs to the inventory ledger and is never written here.
func (r *GORMProductRepository) Update(tx *gorm.DB, product *models.Product) error {
	res := tx.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Select("name", "description", "price", "discount_price", "stock", "is_featured", "is_active").
		Updates(product)
	if res.Error != nil {
		return apperr.Persistence("update product", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", product.ID, apperr.ErrNotFound)
	}
	return nil
}

// Delete soft-deletes a product by its ID. Cart lines are cleaned up by the
// caller before this runs; order history is untouched.
func (r *GORMProductRepository) Delete(tx *gorm.DB, id string) error {
	res := tx.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return apperr.Persistence("delete product", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// makeSlug builds a URL-friendly slug from a product name, with a random
// suffix to keep it unique.
func makeSlug(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		slug = "product"
	}
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:6]
	return slug + "-" + suffix
}
