package authorities

import "context"

// Repository persists authorities granted directly to users.
type Repository interface {
	ListByUsername(ctx context.Context, username string) ([]string, error)
	Add(ctx context.Context, username, authority string) error
	DeleteByUsername(ctx context.Context, username string) error
}
