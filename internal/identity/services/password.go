// Package services holds the identity core's business logic: password
// policy, the user directory, authentication and claims mapping.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/rswauth/authcore/internal/common"
	"github.com/rswauth/authcore/internal/cryptox"
	"github.com/rswauth/authcore/internal/identity/models"
	"github.com/rswauth/authcore/internal/identity/repositories/passwordhistory"
)

// patternTimeout bounds a single password pattern evaluation.
const patternTimeout = 250 * time.Millisecond

// PasswordPolicy configures the password rules. Zero values disable the
// respective rule.
type PasswordPolicy struct {
	// Pattern must match the whole password. Look-around assertions are
	// supported.
	Pattern string
	// ExpiryDays is the lifetime of a new password; 0 means it never expires.
	ExpiryDays int
	// RecycleSpan is how many of the most recent passwords may not be reused.
	RecycleSpan int
}

// PasswordService enforces PasswordPolicy and owns password hashing and
// history.
type PasswordService struct {
	encoder     cryptox.PasswordEncoder
	pattern     *regexp2.Regexp
	expiryDays  int
	recycleSpan int
	now         func() time.Time
}

// CompilePasswordPattern compiles pattern anchored to the whole input.
func CompilePasswordPattern(pattern string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(`\A(?:`+pattern+`)\z`, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("invalid password pattern: %w", err)
	}
	re.MatchTimeout = patternTimeout
	return re, nil
}

func NewPasswordService(policy PasswordPolicy, encoder cryptox.PasswordEncoder) (*PasswordService, error) {
	if policy.ExpiryDays < 0 || policy.RecycleSpan < 0 {
		return nil, fmt.Errorf("password expiry days and recycle span must not be negative")
	}

	s := &PasswordService{
		encoder:     encoder,
		expiryDays:  policy.ExpiryDays,
		recycleSpan: policy.RecycleSpan,
		now:         time.Now,
	}
	if policy.Pattern != "" {
		re, err := CompilePasswordPattern(policy.Pattern)
		if err != nil {
			return nil, err
		}
		s.pattern = re
	}
	return s, nil
}

// ValidatePassword checks the format rules only.
func (s *PasswordService) ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: password may not be empty", common.ErrorValidation)
	}
	if s.pattern == nil {
		return nil
	}

	ok, err := s.pattern.MatchString(password)
	if err != nil {
		return fmt.Errorf("%w: password pattern: %v", common.ErrorInternal, err)
	}
	if !ok {
		return fmt.Errorf("%w: password doesn't meet requirements", common.ErrorValidation)
	}
	return nil
}

// ValidateChangePassword checks the format rules and that password is not
// one of the user's RecycleSpan most recent passwords.
func (s *PasswordService) ValidateChangePassword(ctx context.Context, history passwordhistory.Repository, username, password string) error {
	if err := s.ValidatePassword(password); err != nil {
		return err
	}
	if s.recycleSpan == 0 {
		return nil
	}

	recent, err := history.Recent(ctx, username, s.recycleSpan)
	if err != nil {
		return fmt.Errorf("password history: %w", err)
	}
	for _, e := range recent {
		if s.encoder.Matches(password, e.Password) {
			return fmt.Errorf("%w: cannot reuse an old password", common.ErrorPolicyViolation)
		}
	}
	return nil
}

// DefaultExpiry returns the expiry for a password set now, or nil when
// passwords never expire.
func (s *PasswordService) DefaultExpiry() *time.Time {
	if s.expiryDays == 0 {
		return nil
	}
	exp := s.now().AddDate(0, 0, s.expiryDays)
	return &exp
}

func (s *PasswordService) Encode(password string) (string, error) {
	hash, err := s.encoder.Encode(password)
	if err != nil {
		return "", fmt.Errorf("%w: encode password: %v", common.ErrorInternal, err)
	}
	return hash, nil
}

func (s *PasswordService) Matches(password, hash string) bool {
	return s.encoder.Matches(password, hash)
}

// RecordHistory appends a freshly hashed password to the user's history.
func (s *PasswordService) RecordHistory(ctx context.Context, history passwordhistory.Repository, username, password string) error {
	hash, err := s.Encode(password)
	if err != nil {
		return err
	}
	return s.recordHash(ctx, history, username, hash)
}

func (s *PasswordService) recordHash(ctx context.Context, history passwordhistory.Repository, username, hash string) error {
	entry := &models.PasswordHistoryEntry{Username: username, Password: hash, ChangedAt: s.now()}
	if err := history.Add(ctx, entry); err != nil {
		return fmt.Errorf("password history: %w", err)
	}
	return nil
}
