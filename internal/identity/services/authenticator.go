package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rswauth/authcore/internal/common"
	"github.com/rswauth/authcore/internal/cryptox"
	"github.com/rswauth/authcore/internal/identity/models"
	"github.com/rswauth/authcore/internal/identity/repositories/repomanager"
	"github.com/rswauth/authcore/internal/logging"
)

// Authenticator verifies a username/password pair and returns the
// principal. Failures match common.ErrorUnauthorized.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

// AuthService is the database-backed Authenticator.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	passwords   *PasswordService
	mode        models.RoleMode
	logger      logging.Logger
	now         func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(db *sql.DB, rm repomanager.RepositoryManager, passwords *PasswordService, mode models.RoleMode, logger logging.Logger) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: rm,
		passwords:   passwords,
		mode:        mode,
		logger:      logger.With("component", "auth"),
		now:         time.Now,
	}
}

// Authenticate checks, in order: account disabled, account locked,
// credentials expired, password mismatch. An unknown username reports bad
// credentials. The returned principal carries no password.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := loadUser(ctx, s.repomanager, s.db, s.mode, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.passwords.Matches(password, s.getDummyHash())
			s.logger.Info(ctx, "authentication failed", "username", username, "reason", "unknown user")
			return nil, common.ErrBadCredentials
		}
		s.logger.Error(ctx, "authentication lookup failed", "username", username, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	var failure error
	switch {
	case !u.IsEnabled():
		failure = common.ErrAccountDisabled
	case !u.AccountNonLocked():
		failure = common.ErrAccountLocked
	case !u.CredentialsValid(s.now()):
		failure = common.ErrCredentialsExpired
	case !s.passwords.Matches(password, u.Password):
		failure = common.ErrBadCredentials
	}
	if failure != nil {
		s.logger.Info(ctx, "authentication failed", "username", username, "reason", failure.Error())
		return nil, failure
	}

	principal := u.WithoutPassword()
	return &principal, nil
}

// getDummyHash returns a hash of a random password, compared against when
// the user does not exist so both paths cost one hash verification.
func (s *AuthService) getDummyHash() string {
	s.dummyOnce.Do(func() {
		pw, err := cryptox.RandomHex(16)
		if err != nil {
			return
		}
		if h, err := s.passwords.Encode(pw); err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
