package services

import (
	"context"
	"database/sql"
	"io"
	"slices"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/rswauth/authcore/internal/common"
	"github.com/rswauth/authcore/internal/cryptox"
	"github.com/rswauth/authcore/internal/dbx"
	"github.com/rswauth/authcore/internal/identity/models"
	"github.com/rswauth/authcore/internal/identity/repositories/authorities"
	"github.com/rswauth/authcore/internal/identity/repositories/groups"
	"github.com/rswauth/authcore/internal/identity/repositories/passwordhistory"
	"github.com/rswauth/authcore/internal/identity/repositories/users"
	"github.com/rswauth/authcore/internal/logging"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memStore backs the in-memory repositories. It ignores the DBTX it is bound
// to, so a rolled back transaction does not undo its writes.
type memStore struct {
	users       map[string]models.User
	authorities map[string][]string
	groups      []string
	groupAuth   map[string][]string
	members     []membership
	history     []models.PasswordHistoryEntry

	calls  []string
	failOn map[string]error
}

type membership struct {
	id       int64
	groupID  int64
	username string
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[string]models.User{},
		authorities: map[string][]string{},
		groups:      []string{"API_USER", "API_ADMIN", "SYSTEM_ADMIN"},
		groupAuth: map[string][]string{
			"API_USER":     {"ROLE_API_USER"},
			"API_ADMIN":    {"ROLE_API_USER", "ROLE_API_ADMIN"},
			"SYSTEM_ADMIN": {"ROLE_API_USER", "ROLE_API_ADMIN", "ROLE_SYSTEM_ADMIN"},
		},
		failOn: map[string]error{},
	}
}

func (s *memStore) record(op string) error {
	s.calls = append(s.calls, op)
	return s.failOn[op]
}

func (s *memStore) mutations() []string {
	var out []string
	for _, c := range s.calls {
		switch c {
		case "users.Exists", "users.GetByUsername", "users.Search", "history.Recent",
			"groups.FindID", "groups.ListNames", "groups.NamesByUsername",
			"groups.AuthoritiesByUsername", "authorities.ListByUsername":
			continue
		}
		out = append(out, c)
	}
	return out
}

type memManager struct{ s *memStore }

func (m *memManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *memManager) Users(dbx.DBTX) users.Repository {
	return &memUsers{m.s}
}

func (m *memManager) Authorities(dbx.DBTX) authorities.Repository {
	return &memAuthorities{m.s}
}

func (m *memManager) Groups(dbx.DBTX) groups.Repository {
	return &memGroups{m.s}
}

func (m *memManager) PasswordHistory(dbx.DBTX) passwordhistory.Repository {
	return &memHistory{m.s}
}

type memUsers struct{ s *memStore }

func (r *memUsers) Create(_ context.Context, u *models.User) error {
	if err := r.s.record("users.Create"); err != nil {
		return err
	}
	if _, ok := r.s.users[u.Username]; ok {
		return common.ErrorConflict
	}
	row := u.Clone()
	row.Groups, row.Authorities = nil, nil
	r.s.users[u.Username] = row
	return nil
}

func (r *memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if err := r.s.record("users.GetByUsername"); err != nil {
		return nil, err
	}
	u, ok := r.s.users[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := u.Clone()
	return &c, nil
}

func (r *memUsers) Exists(_ context.Context, username string) (bool, error) {
	if err := r.s.record("users.Exists"); err != nil {
		return false, err
	}
	_, ok := r.s.users[username]
	return ok, nil
}

// Search supports only the trailing-% prefix form.
func (r *memUsers) Search(_ context.Context, pattern string) ([]models.User, error) {
	if err := r.s.record("users.Search"); err != nil {
		return nil, err
	}
	prefix := pattern[:len(pattern)-1]
	out := []models.User{}
	for _, u := range r.s.users {
		if len(u.LastName) >= len(prefix) && u.LastName[:len(prefix)] == prefix {
			out = append(out, u.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].Username < out[j].Username
	})
	return out, nil
}

func (r *memUsers) UpdateProfile(_ context.Context, p *models.UserProfileUpdate) error {
	if err := r.s.record("users.UpdateProfile"); err != nil {
		return err
	}
	u, ok := r.s.users[p.Username]
	if !ok {
		return common.ErrorNotFound
	}
	u.FirstName, u.MiddleInitial, u.LastName = p.FirstName, p.MiddleInitial, p.LastName
	u.EmailAddress, u.MobileNumber = p.EmailAddress, p.MobileNumber
	r.s.users[p.Username] = u
	return nil
}

func (r *memUsers) UpdateAdmin(_ context.Context, in *models.User, hash string) error {
	if err := r.s.record("users.UpdateAdmin"); err != nil {
		return err
	}
	u, ok := r.s.users[in.Username]
	if !ok {
		return common.ErrorNotFound
	}
	row := in.Clone()
	row.Groups, row.Authorities = nil, nil
	row.Password = u.Password
	if hash != "" {
		row.Password = hash
	}
	r.s.users[in.Username] = row
	return nil
}

func (r *memUsers) UpdatePassword(_ context.Context, username, hash string, expiry *time.Time) error {
	if err := r.s.record("users.UpdatePassword"); err != nil {
		return err
	}
	u, ok := r.s.users[username]
	if !ok {
		return common.ErrorNotFound
	}
	u.Password = hash
	u = u.WithPasswordExpiry(expiry)
	r.s.users[username] = u
	return nil
}

func (r *memUsers) Delete(_ context.Context, username string) error {
	if err := r.s.record("users.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.users[username]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.users, username)
	return nil
}

type memAuthorities struct{ s *memStore }

func (r *memAuthorities) ListByUsername(_ context.Context, username string) ([]string, error) {
	if err := r.s.record("authorities.ListByUsername"); err != nil {
		return nil, err
	}
	out := slices.Clone(r.s.authorities[username])
	slices.Sort(out)
	return slices.Compact(out), nil
}

func (r *memAuthorities) Add(_ context.Context, username, authority string) error {
	if err := r.s.record("authorities.Add"); err != nil {
		return err
	}
	if slices.Contains(r.s.authorities[username], authority) {
		return common.ErrorConflict
	}
	r.s.authorities[username] = append(r.s.authorities[username], authority)
	return nil
}

func (r *memAuthorities) DeleteByUsername(_ context.Context, username string) error {
	if err := r.s.record("authorities.DeleteByUsername"); err != nil {
		return err
	}
	delete(r.s.authorities, username)
	return nil
}

type memGroups struct{ s *memStore }

func (r *memGroups) ListNames(context.Context) ([]string, error) {
	if err := r.s.record("groups.ListNames"); err != nil {
		return nil, err
	}
	return slices.Clone(r.s.groups), nil
}

func (r *memGroups) FindID(_ context.Context, g models.Group) (int64, error) {
	if err := r.s.record("groups.FindID"); err != nil {
		return 0, err
	}
	i := slices.Index(r.s.groups, string(g))
	if i < 0 {
		return 0, common.ErrorNotFound
	}
	return int64(i + 1), nil
}

func (r *memGroups) NamesByUsername(_ context.Context, username string) ([]string, error) {
	if err := r.s.record("groups.NamesByUsername"); err != nil {
		return nil, err
	}
	out := []string{}
	for _, m := range r.s.members {
		name := r.s.groups[m.groupID-1]
		if m.username == username && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out, nil
}

func (r *memGroups) AuthoritiesByUsername(_ context.Context, username string) ([]string, error) {
	if err := r.s.record("groups.AuthoritiesByUsername"); err != nil {
		return nil, err
	}
	out := []string{}
	for _, m := range r.s.members {
		if m.username == username {
			out = append(out, r.s.groupAuth[r.s.groups[m.groupID-1]]...)
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func (r *memGroups) AddMember(_ context.Context, groupID int64, username string) error {
	if err := r.s.record("groups.AddMember"); err != nil {
		return err
	}
	r.s.members = append(r.s.members, membership{id: int64(len(r.s.members) + 1), groupID: groupID, username: username})
	return nil
}

func (r *memGroups) DeleteMembersByUsername(_ context.Context, username string) error {
	if err := r.s.record("groups.DeleteMembersByUsername"); err != nil {
		return err
	}
	r.s.members = slices.DeleteFunc(r.s.members, func(m membership) bool { return m.username == username })
	return nil
}

type memHistory struct{ s *memStore }

func (r *memHistory) Add(_ context.Context, e *models.PasswordHistoryEntry) error {
	if err := r.s.record("history.Add"); err != nil {
		return err
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.s.history = append(r.s.history, *e)
	return nil
}

// Recent returns newest first by insertion order.
func (r *memHistory) Recent(_ context.Context, username string, limit int) ([]models.PasswordHistoryEntry, error) {
	if err := r.s.record("history.Recent"); err != nil {
		return nil, err
	}
	out := []models.PasswordHistoryEntry{}
	for i := len(r.s.history) - 1; i >= 0 && len(out) < limit; i-- {
		if r.s.history[i].Username == username {
			out = append(out, r.s.history[i])
		}
	}
	return out, nil
}

func (r *memHistory) DeleteByUsername(_ context.Context, username string) error {
	if err := r.s.record("history.DeleteByUsername"); err != nil {
		return err
	}
	r.s.history = slices.DeleteFunc(r.s.history, func(e models.PasswordHistoryEntry) bool { return e.Username == username })
	return nil
}

// --- helpers ---

const testPattern = `(?=.*[0-9])(?=.*[a-z])(?=.*[A-Z])(?=.*[!@#$%^&*-]).{8,}`

func testLogger() logging.Logger {
	l, _ := logging.New(logging.Options{Level: "error"}, io.Discard)
	return l
}

func newTestPasswords(t *testing.T, policy PasswordPolicy) *PasswordService {
	t.Helper()
	enc, err := cryptox.NewBCryptEncoder(bcrypt.MinCost)
	require.NoError(t, err)
	ps, err := NewPasswordService(policy, enc)
	require.NoError(t, err)
	return ps
}

type fixture struct {
	db        *sql.DB
	mock      sqlmock.Sqlmock
	store     *memStore
	passwords *PasswordService
	auth      *AuthService
	dir       *DirectoryService
}

func newFixture(t *testing.T, mode models.RoleMode, policy PasswordPolicy) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := newMemStore()
	rm := &memManager{s: store}
	ps := newTestPasswords(t, policy)
	auth := NewAuthService(db, rm, ps, mode, testLogger())
	dir := NewDirectoryService(db, rm, ps, auth, mode, testLogger())
	return &fixture{db: db, mock: mock, store: store, passwords: ps, auth: auth, dir: dir}
}

func (f *fixture) expectCommit() {
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
}

func (f *fixture) expectRollback() {
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
}

func newUser(username string) models.User {
	return models.User{
		Username:     username,
		Password:     "Secret-123",
		Enabled:      true,
		FirstName:    "Test",
		LastName:     "User",
		EmailAddress: username + "@example.com",
		Groups:       []models.Group{models.GroupAPIUser},
		Authorities:  []string{"ROLE_API_USER"},
	}
}

// seed creates u through the directory.
func (f *fixture) seed(t *testing.T, u models.User) {
	t.Helper()
	f.expectCommit()
	require.NoError(t, f.dir.CreateUser(context.Background(), u))
	f.store.calls = nil
}
