// Package authorities stores authorities granted directly to a user.
package authorities

import (
	"context"
	"fmt"

	"github.com/rswauth/authcore/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByUsername(ctx context.Context, username string) ([]string, error) {
	query :=
		`SELECT DISTINCT a.authority FROM authorities a
		 WHERE a.username = $1
		 ORDER BY a.authority
		 `

	out, err := dbx.QueryStrings(ctx, r.db, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Add(ctx context.Context, username, authority string) error {
	query := `INSERT INTO authorities (username, authority) VALUES ($1, $2)`

	if _, err := r.db.ExecContext(ctx, query, username, authority); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByUsername(ctx context.Context, username string) error {
	query := `DELETE FROM authorities WHERE username = $1`

	if _, err := r.db.ExecContext(ctx, query, username); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
