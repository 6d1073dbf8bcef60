package cli

import (
	"bufio"
	"context"
	"io"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rswauth/authcore/internal/identity/models"
	"github.com/rswauth/authcore/internal/identity/services"
)

// Directory is the part of the user directory the commands use.
type Directory interface {
	Mode() models.RoleMode
	CreateUser(ctx context.Context, user models.User) error
	UpdateUserProfile(ctx context.Context, update models.UserProfileUpdate) error
	ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error
	UpdateUserAdmin(ctx context.Context, user models.User) error
	DeleteUser(ctx context.Context, username string) error
	SearchUsers(ctx context.Context, pattern string) ([]models.User, error)
	LoadByUsername(ctx context.Context, username string) (*models.User, error)
	ListGroups(ctx context.Context) ([]string, error)
}

// ClaimsEnhancer adds identity claims for a principal.
type ClaimsEnhancer interface {
	Enhance(principal any, claims jwt.MapClaims) jwt.MapClaims
}

type App struct {
	directory Directory
	auth      services.Authenticator
	claims    ClaimsEnhancer
	migrate   func(ctx context.Context) error
	reader    *bufio.Reader
	out       io.Writer
}

// NewApp builds the command runner. Prompts read from in; output and
// prompts go to out.
func NewApp(d Directory, a services.Authenticator, c ClaimsEnhancer, migrate func(ctx context.Context) error,
	in io.Reader, out io.Writer) *App {
	return &App{
		directory: d,
		auth:      a,
		claims:    c,
		migrate:   migrate,
		reader:    bufio.NewReader(in),
		out:       out,
	}
}
