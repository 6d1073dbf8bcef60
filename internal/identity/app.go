// Package identity wires configuration, storage and the identity services
// into a ready to use application.
package identity

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/rswauth/authcore/internal/cryptox"
	"github.com/rswauth/authcore/internal/identity/auth"
	"github.com/rswauth/authcore/internal/identity/config"
	"github.com/rswauth/authcore/internal/identity/models"
	"github.com/rswauth/authcore/internal/identity/repositories/repomanager"
	"github.com/rswauth/authcore/internal/identity/services"
	"github.com/rswauth/authcore/internal/logging"
)

// openDB is a test seam for repomanager.Open.
var openDB = repomanager.Open

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	repos     repomanager.RepositoryManager
	auth      *services.AuthService
	directory *services.DirectoryService
	claims    *auth.ClaimsEnhancer
}

// NewApp connects to the database named by c and builds the services.
// Logs are written to logOut.
func NewApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {
	logger, err := logging.New(c.LogOptions(), logOut)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := newApp(c, db, repomanager.NewPostgresRepositoryManager(), logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(c *config.Config, db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger) (*App, error) {
	encoder, err := cryptox.NewEncoder(c.PasswordEncoder, c.BCryptCost)
	if err != nil {
		return nil, err
	}
	passwords, err := services.NewPasswordService(c.PasswordPolicy(), encoder)
	if err != nil {
		return nil, err
	}

	mode := models.RoleMode(c.RoleMode)
	as := services.NewAuthService(db, rm, passwords, mode, logger)
	ds := services.NewDirectoryService(db, rm, passwords, as, mode, logger)

	return &App{
		config:    c,
		logger:    logger,
		db:        db,
		repos:     rm,
		auth:      as,
		directory: ds,
		claims:    auth.NewClaimsEnhancer(c.ClaimsAssertAuthorities),
	}, nil
}

// Migrate brings the schema up to date.
func (app *App) Migrate(ctx context.Context) error {
	app.logger.Info(ctx, "running migrations")
	return app.repos.RunMigrations(ctx, app.db)
}

func (app *App) Directory() *services.DirectoryService { return app.directory }

func (app *App) Authenticator() *services.AuthService { return app.auth }

func (app *App) Claims() *auth.ClaimsEnhancer { return app.claims }

func (app *App) Logger() logging.Logger { return app.logger }

// Close releases the database and flushes buffered logs.
func (app *App) Close() error {
	if s, ok := app.logger.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
	return app.db.Close()
}
