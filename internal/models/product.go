package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a product in the store.
//
// Stock counts physical units on hand. Reserved counts units currently held
// in shopping carts. Available (stock minus reserved) is what shoppers can
// still add to a cart; checkout turns reserved units into a permanent stock
// decrement, so each sold unit leaves Stock exactly once.
type Product struct {
	ID            string              `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name          string              `json:"name" validate:"required,min=3,max=200"`
	Slug          string              `json:"slug" gorm:"uniqueIndex;type:varchar(220)"`
	Description   string              `json:"description" validate:"omitempty,max=2000"`
	Price         decimal.Decimal     `json:"price" gorm:"type:numeric(10,2)"`
	DiscountPrice decimal.NullDecimal `json:"discount_price" gorm:"type:numeric(10,2)"`
	Stock         int                 `json:"stock" validate:"gte=0"`
	Reserved      int                 `json:"reserved" validate:"gte=0"`
	IsFeatured    bool                `json:"is_featured"`
	IsActive      bool                `json:"is_active"`
	gorm.Model    // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// FinalPrice returns the discount price when one is set, otherwise the list
// price. Order items snapshot this value at checkout time.
func (p *Product) FinalPrice() decimal.Decimal {
	if p.DiscountPrice.Valid && p.DiscountPrice.Decimal.IsPositive() {
		return p.DiscountPrice.Decimal
	}
	return p.Price
}

// Available returns the number of units not yet held in any cart.
func (p *Product) Available() int {
	return p.Stock - p.Reserved
}
