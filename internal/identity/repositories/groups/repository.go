package groups

import (
	"context"

	"github.com/rswauth/authcore/internal/identity/models"
)

// Repository reads the seeded groups and maintains user memberships.
type Repository interface {
	ListNames(ctx context.Context) ([]string, error)
	FindID(ctx context.Context, group models.Group) (int64, error)
	NamesByUsername(ctx context.Context, username string) ([]string, error)
	AuthoritiesByUsername(ctx context.Context, username string) ([]string, error)
	AddMember(ctx context.Context, groupID int64, username string) error
	DeleteMembersByUsername(ctx context.Context, username string) error
}
