package repositories

import (
	"shop/internal/models"

	"gorm.io/gorm"
)

// InventoryLedger is the single source of truth for product availability.
// All methods operate inside the caller's transaction and take row locks on
// the product rows they touch; callers decide whether and how to retry.
type InventoryLedger interface {
	// LockProduct locks and returns one product row.
	LockProduct(tx *gorm.DB, productID string) (*models.Product, error)
	// LockProducts locks the given product rows in a stable order and
	// returns them.
	LockProducts(tx *gorm.DB, productIDs []string) ([]models.Product, error)
	// Reserve moves delta units between available and reserved. A positive
	// delta holds units for a cart; a negative delta credits them back.
	// Fails with a StockError carrying the current available count when the
	// hold would exceed physical stock.
	Reserve(tx *gorm.DB, productID string, delta int) error
	// CommitSale converts qty reserved units into a permanent stock
	// decrement for a row already locked by the calling transaction.
	CommitSale(tx *gorm.DB, productID string, qty int) error
}
