package repositories

import "shop/internal/models"

// UserRepository defines the interface for account data access. Lookups
// report a missing account as apperr.ErrNotFound; Create reports a taken
// username or email as apperr.ErrAccountExists.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
