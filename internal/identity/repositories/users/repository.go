package users

import (
	"context"
	"time"

	"github.com/rswauth/authcore/internal/identity/models"
)

// Repository persists user rows. Role data is stored by the authorities and
// groups repositories; values returned here never carry it.
type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Exists(ctx context.Context, username string) (bool, error)
	Search(ctx context.Context, lastNamePattern string) ([]models.User, error)
	UpdateProfile(ctx context.Context, p *models.UserProfileUpdate) error
	UpdateAdmin(ctx context.Context, user *models.User, passwordHash string) error
	UpdatePassword(ctx context.Context, username, passwordHash string, expiry *time.Time) error
	Delete(ctx context.Context, username string) error
}
