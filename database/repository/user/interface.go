package userRepo

import (
	"context"

	"soothe/models"
)

// UserRepository defines the data access the order engine needs for
// customer accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}
