package passwordhistory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/rswauth/authcore/internal/identity/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestAdd_AssignsID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+password_history\s*\(id,\s*username,\s*password,\s*changed_date\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*$`).
		WithArgs(sqlmock.AnyArg(), "alice", "$2a$h", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	e := &models.PasswordHistoryEntry{Username: "alice", Password: "$2a$h", ChangedAt: at}
	require.NoError(t, repo.Add(context.Background(), e))
	assert.NotEqual(t, uuid.Nil, e.ID)
}

func TestAdd_KeepsID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	id := uuid.MustParse("5b0c8a52-93c6-4f6e-9d7c-5e4f0c1b2a39")
	mock.ExpectExec(`INSERT\s+INTO\s+password_history`).
		WithArgs(id, "alice", "h", sqlmock.AnyArg()).
		WillReturnError(errors.New("db err"))

	err := repo.Add(context.Background(), &models.PasswordHistoryEntry{ID: id, Username: "alice", Password: "h", ChangedAt: time.Now()})
	assert.ErrorContains(t, err, "db error: db err")
}

func TestRecent_NewestFirstWithLimit(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	t2 := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	t1 := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	id1, id2 := uuid.New(), uuid.New()
	mock.ExpectQuery(`(?s)WHERE\s+username\s*=\s*\$1\s+ORDER\s+BY\s+changed_date\s+DESC\s+LIMIT\s+\$2\s*$`).
		WithArgs("alice", 4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "changed_date"}).
			AddRow(id2.String(), "alice", "h2", t2).
			AddRow(id1.String(), "alice", "h1", t1))

	got, err := repo.Recent(context.Background(), "alice", 4)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, id2, got[0].ID)
	assert.Equal(t, "h2", got[0].Password)
	assert.Equal(t, "h1", got[1].Password)
	assert.True(t, got[0].ChangedAt.After(got[1].ChangedAt))
}

func TestRecent_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM\s+password_history`).WillReturnError(errors.New("db err"))

	_, err := repo.Recent(context.Background(), "alice", 1)
	assert.ErrorContains(t, err, "db error")
}

func TestDeleteByUsername(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`^DELETE\s+FROM\s+password_history\s+WHERE\s+username\s*=\s*\$1$`).
		WithArgs("alice").
		WillReturnResult(sqlmock.NewResult(0, 5))

	require.NoError(t, repo.DeleteByUsername(context.Background(), "alice"))
}
