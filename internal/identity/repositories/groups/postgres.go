// Package groups stores group memberships and resolves group-derived
// authorities.
package groups

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rswauth/authcore/internal/common"
	"github.com/rswauth/authcore/internal/dbx"
	"github.com/rswauth/authcore/internal/identity/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListNames(ctx context.Context) ([]string, error) {
	query := `SELECT g.group_name FROM groups g ORDER BY g.id`

	out, err := dbx.QueryStrings(ctx, r.db, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) FindID(ctx context.Context, group models.Group) (int64, error) {
	query := `SELECT id FROM groups WHERE group_name = $1`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, string(group)).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: group %s", common.ErrorNotFound, group)
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

// NamesByUsername returns the user's group names in the order they were assigned.
func (r *PostgresRepository) NamesByUsername(ctx context.Context, username string) ([]string, error) {
	query :=
		`SELECT g.group_name FROM groups g
		 JOIN group_members gm ON g.id = gm.group_id
		 WHERE gm.username = $1
		 GROUP BY g.group_name
		 ORDER BY MIN(gm.id)
		 `

	out, err := dbx.QueryStrings(ctx, r.db, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) AuthoritiesByUsername(ctx context.Context, username string) ([]string, error) {
	query :=
		`SELECT DISTINCT ga.authority FROM groups g
		 JOIN group_members gm ON g.id = gm.group_id
		 JOIN group_authorities ga ON g.id = ga.group_id
		 WHERE gm.username = $1
		 ORDER BY ga.authority
		 `

	out, err := dbx.QueryStrings(ctx, r.db, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) AddMember(ctx context.Context, groupID int64, username string) error {
	query := `INSERT INTO group_members (group_id, username) VALUES ($1, $2)`

	if _, err := r.db.ExecContext(ctx, query, groupID, username); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteMembersByUsername(ctx context.Context, username string) error {
	query := `DELETE FROM group_members WHERE username = $1`

	if _, err := r.db.ExecContext(ctx, query, username); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
