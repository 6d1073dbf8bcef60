// Package auth maps authenticated principals onto the claim set handed to
// the token issuer.
package auth

import (
	"maps"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rswauth/authcore/internal/common"
	"github.com/rswauth/authcore/internal/identity/models"
)

// ClaimsEnhancer adds identity claims for a principal.
type ClaimsEnhancer struct {
	assertAuthorities bool
}

// NewClaimsEnhancer returns an enhancer. With assertAuthorities set the
// principal's authorities replace any "authorities" claim already present;
// otherwise that claim is left as the issuer supplied it.
func NewClaimsEnhancer(assertAuthorities bool) *ClaimsEnhancer {
	return &ClaimsEnhancer{assertAuthorities: assertAuthorities}
}

// Enhance returns a copy of claims with the principal's identity claims set.
// Principals of an unknown type get an unmodified copy.
func (e *ClaimsEnhancer) Enhance(principal any, claims jwt.MapClaims) jwt.MapClaims {
	out := make(jwt.MapClaims, len(claims)+5)
	maps.Copy(out, claims)

	u, ok := asUser(principal)
	if !ok {
		return out
	}

	out[common.ClaimUsername] = u.Username
	out[common.ClaimFirstName] = u.FirstName
	out[common.ClaimLastName] = u.LastName
	out[common.ClaimEmail] = u.EmailAddress

	if e.assertAuthorities {
		out[common.ClaimAuthorities] = u.GetAuthorities()
	}
	return out
}

// UserInfo is the user description served to resource servers.
func UserInfo(principal any) map[string]any {
	u, ok := asUser(principal)
	if !ok {
		return map[string]any{}
	}
	return map[string]any{
		"name":        u.Username,
		"authorities": u.GetAuthorities(),
		"fullname":    u.FullName(),
		"email":       u.EmailAddress,
	}
}

func asUser(principal any) (*models.User, bool) {
	switch p := principal.(type) {
	case *models.User:
		return p, p != nil
	case models.User:
		return &p, true
	}
	return nil, false
}
