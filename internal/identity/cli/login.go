package cli

import (
	"context"
	"encoding/json"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rswauth/authcore/internal/identity/auth"
)

// login authenticates and prints the claims a token for the user would
// carry together with the user info document.
func (a *App) login(ctx context.Context, username string) error {
	pw, err := GetPassword("Password", a.out)
	if err != nil {
		return err
	}

	principal, err := a.auth.Authenticate(ctx, username, pw)
	if err != nil {
		return err
	}

	claims := a.claims.Enhance(principal, jwt.MapClaims{
		"sub":         principal.Username,
		"authorities": principal.GetAuthorities(),
	})

	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"claims":   claims,
		"userinfo": auth.UserInfo(principal),
	})
}
