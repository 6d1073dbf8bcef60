// Package passwordhistory stores the password history used for reuse checks.
package passwordhistory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rswauth/authcore/internal/dbx"
	"github.com/rswauth/authcore/internal/identity/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Add appends entry. A zero ID is replaced with a fresh UUID.
func (r *PostgresRepository) Add(ctx context.Context, entry *models.PasswordHistoryEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	query :=
		`INSERT INTO password_history (id, username, password, changed_date)
		 VALUES ($1, $2, $3, $4)
		 `

	if _, err := r.db.ExecContext(ctx, query, entry.ID, entry.Username, entry.Password, entry.ChangedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Recent returns at most limit entries for username, newest first.
func (r *PostgresRepository) Recent(ctx context.Context, username string, limit int) ([]models.PasswordHistoryEntry, error) {
	query :=
		`SELECT id, username, password, changed_date FROM password_history
		 WHERE username = $1
		 ORDER BY changed_date DESC
		 LIMIT $2
		 `

	out, err := dbx.QueryAll(ctx, r.db, func(s dbx.Scanner) (models.PasswordHistoryEntry, error) {
		var e models.PasswordHistoryEntry
		err := s.Scan(&e.ID, &e.Username, &e.Password, &e.ChangedAt)
		return e, err
	}, query, username, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) DeleteByUsername(ctx context.Context, username string) error {
	query := `DELETE FROM password_history WHERE username = $1`

	if _, err := r.db.ExecContext(ctx, query, username); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
