package services

import (
	"context"
	"fmt"

	"github.com/rswauth/authcore/internal/dbx"
	"github.com/rswauth/authcore/internal/identity/models"
	"github.com/rswauth/authcore/internal/identity/repositories/repomanager"
)

// loadUser reads a user with its group list and its effective authorities,
// taken from direct grants or from groups depending on mode.
func loadUser(ctx context.Context, rm repomanager.RepositoryManager, db dbx.DBTX, mode models.RoleMode, username string) (*models.User, error) {
	u, err := rm.Users(db).GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	groupRepo := rm.Groups(db)
	names, err := groupRepo.NamesByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	u.Groups = make([]models.Group, 0, len(names))
	for _, n := range names {
		if g := models.Group(n); g.Valid() {
			u.Groups = append(u.Groups, g)
		}
	}

	if mode == models.RoleModeAuthorities {
		u.Authorities, err = rm.Authorities(db).ListByUsername(ctx, username)
	} else {
		u.Authorities, err = groupRepo.AuthoritiesByUsername(ctx, username)
	}
	if err != nil {
		return nil, fmt.Errorf("authorities: %w", err)
	}
	return u, nil
}
