package repositories_test

import (
	"fmt"
	"strings"
	"testing"

	"shop/internal/apperr"
	"shop/internal/models"
	"shop/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000&_txlock=immediate", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.CartItem{}, &models.Order{}, &models.OrderItem{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, id string, stock, reserved int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:       id,
		Name:     "Product " + id,
		Slug:     "product-" + id,
		Price:    decimal.RequireFromString("10.00"),
		Stock:    stock,
		Reserved: reserved,
		IsActive: true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func reload(t *testing.T, db *gorm.DB, id string) *models.Product {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", id).Error)
	return &product
}

func TestInventoryLedger_ReserveHoldsUnits(t *testing.T) {
	db := setupTestDB(t)
	ledger := repositories.NewGORMInventoryLedger()
	seedProduct(t, db, "p1", 5, 0)

	assert.NoError(t, ledger.Reserve(db, "p1", 3))
	got := reload(t, db, "p1")
	assert.Equal(t, 5, got.Stock)
	assert.Equal(t, 3, got.Reserved)
	assert.Equal(t, 2, got.Available())
}

func TestInventoryLedger_ReserveRefusesOverhold(t *testing.T) {
	db := setupTestDB(t)
	ledger := repositories.NewGORMInventoryLedger()
	seedProduct(t, db, "p1", 5, 4)

	err := ledger.Reserve(db, "p1", 2)
	var stockErr *apperr.StockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, "p1", stockErr.ProductID)

	// refused reservation leaves the row untouched
	assert.Equal(t, 4, reload(t, db, "p1").Reserved)
}

func TestInventoryLedger_ReserveCreditBackFloorsAtZero(t *testing.T) {
	db := setupTestDB(t)
	ledger := repositories.NewGORMInventoryLedger()
	seedProduct(t, db, "p1", 5, 2)

	assert.NoError(t, ledger.Reserve(db, "p1", -4))
	assert.Equal(t, 0, reload(t, db, "p1").Reserved)
}

func TestInventoryLedger_CreditBackAfterStockReduction(t *testing.T) {
	db := setupTestDB(t)
	ledger := repositories.NewGORMInventoryLedger()
	// catalog management lowered stock below the reserved count
	seedProduct(t, db, "p1", 1, 3)

	// crediting held units back must still work
	assert.NoError(t, ledger.Reserve(db, "p1", -1))
	assert.Equal(t, 2, reload(t, db, "p1").Reserved)
	assert.NoError(t, ledger.Reserve(db, "p1", -2))
	assert.Equal(t, 0, reload(t, db, "p1").Reserved)

	// growing the hold is still refused, reporting zero available
	seedProduct(t, db, "p2", 1, 3)
	err := ledger.Reserve(db, "p2", 1)
	var stockErr *apperr.StockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 0, stockErr.Available)
	assert.Equal(t, 3, reload(t, db, "p2").Reserved)
}

func TestInventoryLedger_ReserveUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	ledger := repositories.NewGORMInventoryLedger()

	err := ledger.Reserve(db, "missing", 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestInventoryLedger_CommitSaleDecrementsBothCounters(t *testing.T) {
	db := setupTestDB(t)
	ledger := repositories.NewGORMInventoryLedger()
	seedProduct(t, db, "p1", 5, 3)

	assert.NoError(t, ledger.CommitSale(db, "p1", 3))
	got := reload(t, db, "p1")
	assert.Equal(t, 2, got.Stock)
	assert.Equal(t, 0, got.Reserved)
}

func TestInventoryLedger_CommitSaleRefusesNegativeCounters(t *testing.T) {
	db := setupTestDB(t)
	ledger := repositories.NewGORMInventoryLedger()
	seedProduct(t, db, "p1", 2, 1)

	err := ledger.CommitSale(db, "p1", 2)
	var stockErr *apperr.StockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, apperr.InsufficientStock, stockErr.Kind)

	got := reload(t, db, "p1")
	assert.Equal(t, 2, got.Stock)
	assert.Equal(t, 1, got.Reserved)
}

func TestInventoryLedger_LockProductsReturnsStableOrder(t *testing.T) {
	db := setupTestDB(t)
	ledger := repositories.NewGORMInventoryLedger()
	seedProduct(t, db, "b", 1, 0)
	seedProduct(t, db, "a", 1, 0)
	seedProduct(t, db, "c", 1, 0)

	products, err := ledger.LockProducts(db, []string{"c", "a", "b"})
	assert.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "a", products[0].ID)
	assert.Equal(t, "b", products[1].ID)
	assert.Equal(t, "c", products[2].ID)
}

func TestOrderRepository_CreateReportsIdentifierCollision(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewGORMOrderRepository()

	order := &models.Order{
		ID:         "fixed-id",
		UserID:     "user-1",
		FullName:   "Jane Doe",
		Phone:      "12345",
		Address:    "somewhere",
		TotalPrice: decimal.RequireFromString("1.00"),
		Status:     models.StatusPending,
	}
	require.NoError(t, repo.Create(db, order))

	duplicate := &models.Order{
		ID:         "fixed-id",
		UserID:     "user-1",
		FullName:   "Jane Doe",
		Phone:      "12345",
		Address:    "somewhere",
		TotalPrice: decimal.RequireFromString("1.00"),
		Status:     models.StatusPending,
	}
	err := repo.Create(db, duplicate)
	assert.ErrorIs(t, err, apperr.ErrSequenceExhausted)
}
