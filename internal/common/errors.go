// Package common defines sentinel errors and constants shared by the
// identity core. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// repository specific errors
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// service specific errors
	ErrorInternal        = errors.New("internal error")
	ErrorValidation      = errors.New("validation error")
	ErrorPolicyViolation = errors.New("policy violation")
	ErrorUnauthorized    = errors.New("unauthorized")

	// authentication failures, all of them match ErrorUnauthorized
	ErrAccountDisabled    = fmt.Errorf("%w: account is disabled", ErrorUnauthorized)
	ErrAccountLocked      = fmt.Errorf("%w: account is locked", ErrorUnauthorized)
	ErrCredentialsExpired = fmt.Errorf("%w: credentials have expired", ErrorUnauthorized)
	ErrBadCredentials     = fmt.Errorf("%w: bad credentials", ErrorUnauthorized)
)
