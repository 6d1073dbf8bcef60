package passwordhistory

import (
	"context"

	"github.com/rswauth/authcore/internal/identity/models"
)

// Repository is the append-only log of previously used password hashes.
type Repository interface {
	Add(ctx context.Context, entry *models.PasswordHistoryEntry) error
	Recent(ctx context.Context, username string, limit int) ([]models.PasswordHistoryEntry, error)
	DeleteByUsername(ctx context.Context, username string) error
}
