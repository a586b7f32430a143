package models

import "gorm.io/gorm"

// User is a registered shopper account. Carts and orders hang off its id.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username   string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string `gorm:"type:varchar(255)" validate:"required,min=6"` // bcrypt hash; no json tag, never serialized
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
