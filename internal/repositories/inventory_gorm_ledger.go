package repositories

import (
	"errors"
	"fmt"

	"shop/internal/apperr"
	"shop/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMInventoryLedger is a GORM implementation of InventoryLedger.
type GORMInventoryLedger struct{}

// NewGORMInventoryLedger creates a new instance of GORMInventoryLedger.
func NewGORMInventoryLedger() *GORMInventoryLedger {
	return &GORMInventoryLedger{}
}

// lockForUpdate adds a FOR UPDATE row lock to the query. SQLite has no
// FOR UPDATE syntax; its single-writer transaction model already gives the
// same guarantee, so the clause is skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// LockProduct locks and returns a single product row inside tx.
func (l *GORMInventoryLedger) LockProduct(tx *gorm.DB, productID string) (*models.Product, error) {
	var product models.Product
	if err := lockForUpdate(tx).First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", productID, apperr.ErrNotFound)
		}
		return nil, apperr.Persistence("lock product", err)
	}
	return &product, nil
}

// LockProducts locks the given product rows ordered by id. The stable lock
// order keeps two concurrent checkouts over overlapping carts from
// deadlocking each other.
func (l *GORMInventoryLedger) LockProducts(tx *gorm.DB, productIDs []string) ([]models.Product, error) {
	var products []models.Product
	err := lockForUpdate(tx).
		Where("id IN ?", productIDs).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, apperr.Persistence("lock products", err)
	}
	return products, nil
}

// Reserve applies `reserved += delta` under a row lock. A positive delta
// fails with a StockError when the new reservation total would exceed
// physical stock, leaving the row untouched. A negative delta credits units
// back and always succeeds, even when stock was lowered below the reserved
// count in the meantime; the reserved counter never drops below zero.
func (l *GORMInventoryLedger) Reserve(tx *gorm.DB, productID string, delta int) error {
	product, err := l.LockProduct(tx, productID)
	if err != nil {
		return err
	}

	reserved := product.Reserved + delta
	if delta > 0 && reserved > product.Stock {
		available := product.Available()
		if available < 0 {
			available = 0
		}
		return &apperr.StockError{
			Kind:        apperr.StockLimitExceeded,
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   available,
		}
	}
	if reserved < 0 {
		reserved = 0
	}

	err = tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Update("reserved", reserved).Error
	return apperr.Persistence("reserve stock", err)
}

// CommitSale decrements both stock and reserved by qty. The guarded update
// refuses to drive either counter negative; the caller is expected to hold
// the row lock already.
func (l *GORMInventoryLedger) CommitSale(tx *gorm.DB, productID string, qty int) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ? AND reserved >= ?", productID, qty, qty).
		Updates(map[string]interface{}{
			"stock":    gorm.Expr("stock - ?", qty),
			"reserved": gorm.Expr("reserved - ?", qty),
		})
	if res.Error != nil {
		return apperr.Persistence("commit sale", res.Error)
	}
	if res.RowsAffected == 0 {
		product, err := l.LockProduct(tx, productID)
		if err != nil {
			return err
		}
		return &apperr.StockError{
			Kind:        apperr.InsufficientStock,
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.Available(),
		}
	}
	return nil
}
