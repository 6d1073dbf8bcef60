package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rswauth/authcore/internal/common"
	"github.com/rswauth/authcore/internal/dbx"
	"github.com/rswauth/authcore/internal/identity/models"
	"github.com/rswauth/authcore/internal/identity/repositories/repomanager"
	"github.com/rswauth/authcore/internal/logging"
	"github.com/rswauth/authcore/internal/validation"
)

// DirectoryService manages identities. Every mutating operation runs in a
// single transaction.
type DirectoryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	passwords   *PasswordService
	auth        Authenticator
	mode        models.RoleMode
	logger      logging.Logger
}

// NewDirectoryService builds the directory. mode decides whether users carry
// direct authorities or group memberships. auth re-authenticates users who
// change their own password.
func NewDirectoryService(db *sql.DB, rm repomanager.RepositoryManager, passwords *PasswordService, auth Authenticator,
	mode models.RoleMode, logger logging.Logger) *DirectoryService {
	return &DirectoryService{
		db:          db,
		repomanager: rm,
		passwords:   passwords,
		auth:        auth,
		mode:        mode,
		logger:      logger.With("component", "directory"),
	}
}

// Mode reports where users' authorities come from.
func (s *DirectoryService) Mode() models.RoleMode {
	return s.mode
}

// CreateUser stores a new user together with its first history entry and
// its roles. user.Password is the plaintext password. A nil PasswordExpiry
// gets the policy default.
func (s *DirectoryService) CreateUser(ctx context.Context, user models.User) error {
	if err := s.validateUser(&user); err != nil {
		return err
	}
	if err := s.passwords.ValidatePassword(user.Password); err != nil {
		return err
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repomanager.Users(tx)

		exists, err := users.Exists(ctx, user.Username)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: username %q", common.ErrorConflict, user.Username)
		}

		hash, err := s.passwords.Encode(user.Password)
		if err != nil {
			return err
		}
		row := user.Clone()
		row.Password = hash
		if row.PasswordExpiry == nil {
			row.PasswordExpiry = s.passwords.DefaultExpiry()
		}
		if err := users.Create(ctx, &row); err != nil {
			return err
		}

		if err := s.passwords.RecordHistory(ctx, s.repomanager.PasswordHistory(tx), user.Username, user.Password); err != nil {
			return err
		}
		return s.insertRoles(ctx, tx, &user)
	})
	if err != nil {
		s.logger.Warn(ctx, "create user failed", "username", user.Username, "error", err)
		return err
	}

	s.logger.Info(ctx, "user created", "username", user.Username, "mode", string(s.mode))
	return nil
}

// UpdateUserProfile applies a self-service update. A password change first
// re-authenticates with the old password.
func (s *DirectoryService) UpdateUserProfile(ctx context.Context, update models.UserProfileUpdate) error {
	if err := validation.Struct(update); err != nil {
		return err
	}
	if update.IsChangePassword() {
		if _, err := s.auth.Authenticate(ctx, update.Username, update.OldPassword); err != nil {
			return err
		}
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdateProfile(ctx, &update); err != nil {
			return err
		}
		if update.IsChangePassword() {
			return s.changePassword(ctx, tx, update.Username, update.NewPassword)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn(ctx, "profile update failed", "username", update.Username, "error", err)
		return err
	}

	s.logger.Info(ctx, "profile updated", "username", update.Username, "password_changed", update.IsChangePassword())
	return nil
}

// ChangePassword changes a user's own password after verifying the old one.
func (s *DirectoryService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if _, err := s.auth.Authenticate(ctx, username, oldPassword); err != nil {
		return err
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.changePassword(ctx, tx, username, newPassword)
	})
	if err != nil {
		s.logger.Warn(ctx, "password change failed", "username", username, "error", err)
		return err
	}

	s.logger.Info(ctx, "password changed", "username", username)
	return nil
}

// UpdateUserAdmin rewrites a user as an administrator. A non-empty
// user.Password replaces the stored one after the reuse check, without
// re-authentication. Roles of the active mode are replaced when the
// supplied list is non-empty and kept otherwise.
func (s *DirectoryService) UpdateUserAdmin(ctx context.Context, user models.User) error {
	if err := s.validateUser(&user); err != nil {
		return err
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repomanager.Users(tx)
		row := user.Clone()

		var hash string
		if user.Password != "" {
			history := s.repomanager.PasswordHistory(tx)
			if err := s.passwords.ValidateChangePassword(ctx, history, user.Username, user.Password); err != nil {
				return err
			}
			var err error
			if hash, err = s.passwords.Encode(user.Password); err != nil {
				return err
			}
			if row.PasswordExpiry == nil {
				row.PasswordExpiry = s.passwords.DefaultExpiry()
			}
			if err := users.UpdateAdmin(ctx, &row, hash); err != nil {
				return err
			}
			if err := s.passwords.recordHash(ctx, history, user.Username, hash); err != nil {
				return err
			}
		} else if err := users.UpdateAdmin(ctx, &row, ""); err != nil {
			return err
		}

		return s.replaceRoles(ctx, tx, &user)
	})
	if err != nil {
		s.logger.Warn(ctx, "admin update failed", "username", user.Username, "error", err)
		return err
	}

	s.logger.Info(ctx, "user updated by admin", "username", user.Username, "password_changed", user.Password != "")
	return nil
}

// DeleteUser removes the user's group memberships, authorities, password
// history and finally the user row.
func (s *DirectoryService) DeleteUser(ctx context.Context, username string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Groups(tx).DeleteMembersByUsername(ctx, username); err != nil {
			return err
		}
		if err := s.repomanager.Authorities(tx).DeleteByUsername(ctx, username); err != nil {
			return err
		}
		if err := s.repomanager.PasswordHistory(tx).DeleteByUsername(ctx, username); err != nil {
			return err
		}
		return s.repomanager.Users(tx).Delete(ctx, username)
	})
	if err != nil {
		s.logger.Warn(ctx, "delete user failed", "username", username, "error", err)
		return err
	}

	s.logger.Info(ctx, "user deleted", "username", username)
	return nil
}

func (s *DirectoryService) UserExists(ctx context.Context, username string) (bool, error) {
	return s.repomanager.Users(s.db).Exists(ctx, username)
}

// SearchUsers lists users whose last name matches pattern. A pattern
// without LIKE wildcards is a prefix. Role data is not loaded.
func (s *DirectoryService) SearchUsers(ctx context.Context, pattern string) ([]models.User, error) {
	if !strings.ContainsAny(pattern, "%_") {
		pattern += "%"
	}
	users, err := s.repomanager.Users(s.db).Search(ctx, pattern)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// LoadByUsername returns the user with its groups and effective authorities.
func (s *DirectoryService) LoadByUsername(ctx context.Context, username string) (*models.User, error) {
	return loadUser(ctx, s.repomanager, s.db, s.mode, username)
}

// ListGroups returns every group name.
func (s *DirectoryService) ListGroups(ctx context.Context) ([]string, error) {
	return s.repomanager.Groups(s.db).ListNames(ctx)
}

func (s *DirectoryService) validateUser(user *models.User) error {
	if err := validation.Struct(user); err != nil {
		return err
	}
	for _, g := range user.Groups {
		if !g.Valid() {
			return fmt.Errorf("%w: unknown group %q", common.ErrorValidation, g)
		}
	}
	return nil
}

func (s *DirectoryService) changePassword(ctx context.Context, tx dbx.DBTX, username, newPassword string) error {
	history := s.repomanager.PasswordHistory(tx)
	if err := s.passwords.ValidateChangePassword(ctx, history, username, newPassword); err != nil {
		return err
	}
	hash, err := s.passwords.Encode(newPassword)
	if err != nil {
		return err
	}
	if err := s.repomanager.Users(tx).UpdatePassword(ctx, username, hash, s.passwords.DefaultExpiry()); err != nil {
		return err
	}
	return s.passwords.recordHash(ctx, history, username, hash)
}

func (s *DirectoryService) insertRoles(ctx context.Context, tx dbx.DBTX, user *models.User) error {
	if s.mode == models.RoleModeAuthorities {
		repo := s.repomanager.Authorities(tx)
		for _, a := range user.Authorities {
			if err := repo.Add(ctx, user.Username, a); err != nil {
				return err
			}
		}
		return nil
	}

	repo := s.repomanager.Groups(tx)
	for _, g := range user.Groups {
		id, err := repo.FindID(ctx, g)
		if err != nil {
			return err
		}
		if err := repo.AddMember(ctx, id, user.Username); err != nil {
			return err
		}
	}
	return nil
}

func (s *DirectoryService) replaceRoles(ctx context.Context, tx dbx.DBTX, user *models.User) error {
	if s.mode == models.RoleModeAuthorities {
		if len(user.Authorities) == 0 {
			return nil
		}
		if err := s.repomanager.Authorities(tx).DeleteByUsername(ctx, user.Username); err != nil {
			return err
		}
		return s.insertRoles(ctx, tx, user)
	}

	if len(user.Groups) == 0 {
		return nil
	}
	if err := s.repomanager.Groups(tx).DeleteMembersByUsername(ctx, user.Username); err != nil {
		return err
	}
	return s.insertRoles(ctx, tx, user)
}
