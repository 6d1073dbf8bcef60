// Package users provides the PostgreSQL-backed store for user rows.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

const selectUsers = `SELECT u.username, u.password, u.first_name, u.middle_initial, u.last_name,
		u.email_address, u.mobile_number, u.enabled, u.locked, u.password_expiry
		FROM users u`

const updateProfileColumns = `UPDATE users SET first_name = $1, middle_initial = $2, last_name = $3,
		email_address = $4, mobile_number = $5`

// scanUser decodes one row of selectUsers.
func scanUser(s dbx.Scanner) (models.User, error) {
	var (
		u             models.User
		middleInitial sql.NullString
		mobileNumber  sql.NullString
		expiry        sql.NullTime
	)
	err := s.Scan(&u.Username, &u.Password, &u.FirstName, &middleInitial, &u.LastName,
		&u.EmailAddress, &mobileNumber, &u.Enabled, &u.Locked, &expiry)
	if err != nil {
		return models.User{}, err
	}
	u.MiddleInitial = middleInitial.String
	u.MobileNumber = mobileNumber.String
	if expiry.Valid {
		t := expiry.Time
		u.PasswordExpiry = &t
	}
	return u, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// Create inserts user. user.Password must already be hashed. A duplicate
// username yields common.ErrorConflict.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {
	query :=
		`INSERT INTO users (username, password, enabled, locked, password_expiry,
		 first_name, middle_initial, last_name, email_address, mobile_number)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 `

	_, err := r.db.ExecContext(ctx, query,
		user.Username, user.Password, user.Enabled, user.Locked, nullableTime(user.PasswordExpiry),
		user.FirstName, nullable(user.MiddleInitial), user.LastName, user.EmailAddress, nullable(user.MobileNumber))

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("%w: username %q", common.ErrorConflict, user.Username)
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := selectUsers + `
		WHERE u.username = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &u, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// Search matches last_name LIKE lastNamePattern, ordered by last name.
func (r *PostgresRepository) Search(ctx context.Context, lastNamePattern string) ([]models.User, error) {
	query := selectUsers + `
		WHERE u.last_name LIKE $1
		ORDER BY u.last_name, u.username`

	users, err := dbx.QueryAll(ctx, r.db, scanUser, query, lastNamePattern)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return users, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, p *models.UserProfileUpdate) error {
	query := updateProfileColumns + `
		WHERE username = $6`

	res, err := r.db.ExecContext(ctx, query,
		p.FirstName, nullable(p.MiddleInitial), p.LastName, p.EmailAddress, nullable(p.MobileNumber), p.Username)
	return checkAffected(res, err)
}

// UpdateAdmin rewrites the profile, flags and expiry of user. The stored
// password is replaced only when passwordHash is non-empty.
func (r *PostgresRepository) UpdateAdmin(ctx context.Context, user *models.User, passwordHash string) error {
	args := []any{
		user.FirstName, nullable(user.MiddleInitial), user.LastName, user.EmailAddress, nullable(user.MobileNumber),
		user.Enabled, user.Locked, nullableTime(user.PasswordExpiry),
	}

	var query string
	if passwordHash == "" {
		query = updateProfileColumns + `, enabled = $6, locked = $7, password_expiry = $8
		WHERE username = $9`
		args = append(args, user.Username)
	} else {
		query = updateProfileColumns + `, enabled = $6, locked = $7, password_expiry = $8, password = $9
		WHERE username = $10`
		args = append(args, passwordHash, user.Username)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	return checkAffected(res, err)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, username, passwordHash string, expiry *time.Time) error {
	query :=
		`UPDATE users SET password = $1, password_expiry = $2
		 WHERE username = $3
		 `

	res, err := r.db.ExecContext(ctx, query, passwordHash, nullableTime(expiry), username)
	return checkAffected(res, err)
}

// Delete removes the user row. Dependent rows must be removed first.
func (r *PostgresRepository) Delete(ctx context.Context, username string) error {
	query := `DELETE FROM users WHERE username = $1`

	res, err := r.db.ExecContext(ctx, query, username)
	return checkAffected(res, err)
}

func checkAffected(res sql.Result, err error) error {
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
