package services

import (
	"shop/internal/models"
	"shop/internal/repositories"

	"gorm.io/gorm"
)

// ProductService handles the catalog side: what shoppers can browse and
// what management can edit.
type ProductService struct {
	db       *gorm.DB
	products repositories.ProductRepository
	carts    repositories.CartRepository
	ledger   repositories.InventoryLedger
}

// NewProductService creates a new ProductService.
func NewProductService(db *gorm.DB, products repositories.ProductRepository,
	carts repositories.CartRepository, ledger repositories.InventoryLedger) *ProductService {
	return &ProductService{
		db:       db,
		products: products,
		carts:    carts,
		ledger:   ledger,
	}
}

// GetAllProducts retrieves all active products.
func (s *ProductService) GetAllProducts(featuredOnly bool) ([]models.Product, error) {
	return s.products.ListActive(s.db, featuredOnly)
}

// GetProductByID retrieves a single active product.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.products.GetActiveByID(s.db, id)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	return s.products.Create(s.db, product)
}

// UpdateProduct updates the catalog fields of an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	return s.products.Update(s.db, product)
}

// DeleteProduct removes a product from the catalog. Cart lines holding it
// are credited back and deleted in the same transaction; completed orders
// keep their snapshotted name and price and are untouched.
func (s *ProductService) DeleteProduct(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		lines, err := s.carts.ListByProduct(tx, id)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if err := s.ledger.Reserve(tx, id, -line.Quantity); err != nil {
				return err
			}
			if err := s.carts.Delete(tx, line.ID); err != nil {
				return err
			}
		}
		return s.products.Delete(tx, id)
	})
}
