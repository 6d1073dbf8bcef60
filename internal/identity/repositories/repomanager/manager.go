package repomanager

import (
	"context"
	"database/sql"

	"github.com/rswauth/authcore/internal/dbx"
	"github.com/rswauth/authcore/internal/identity/repositories/authorities"
	"github.com/rswauth/authcore/internal/identity/repositories/groups"
	"github.com/rswauth/authcore/internal/identity/repositories/passwordhistory"
	"github.com/rswauth/authcore/internal/identity/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can
// rebind them to a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Authorities(db dbx.DBTX) authorities.Repository
	Groups(db dbx.DBTX) groups.Repository
	PasswordHistory(db dbx.DBTX) passwordhistory.Repository
}
