package models

import (
	"errors"
	"testing"
	"time"

	"github.com/rswauth/authcore/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_CredentialsValid(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Second)
	future := now.Add(time.Hour)

	tests := []struct {
		name   string
		expiry *time.Time
		want   bool
	}{
		{name: "nil never expires", expiry: nil, want: true},
		{name: "future expiry", expiry: &future, want: true},
		{name: "past expiry", expiry: &past, want: false},
		{name: "expiry equal to now", expiry: &now, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{PasswordExpiry: tt.expiry}
			assert.Equal(t, tt.want, u.CredentialsValid(now))
		})
	}
}

func TestUser_AccountNonLocked(t *testing.T) {
	assert.True(t, (&User{}).AccountNonLocked())
	assert.False(t, (&User{Locked: true}).AccountNonLocked())
}

func TestUser_WithHelpersDoNotAlias(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	orig := User{Username: "alice", Groups: []Group{GroupAPIUser}, Authorities: []string{"ROLE_A"}, PasswordExpiry: &exp}

	c := orig.WithGroups(GroupAPIAdmin, GroupSystemAdmin)
	c.Groups[0] = GroupAPIUser
	c.Authorities[0] = "ROLE_CHANGED"
	*c.PasswordExpiry = time.Time{}

	assert.Equal(t, []Group{GroupAPIUser}, orig.Groups)
	assert.Equal(t, []string{"ROLE_A"}, orig.Authorities)
	assert.Equal(t, exp, *orig.PasswordExpiry)

	auths := []string{"ROLE_X"}
	d := orig.WithAuthorities(auths...)
	auths[0] = "ROLE_Y"
	assert.Equal(t, []string{"ROLE_X"}, d.Authorities)

	e := orig.WithPasswordExpiry(nil)
	assert.Nil(t, e.PasswordExpiry)
	assert.NotNil(t, orig.PasswordExpiry)
}

func TestUser_GetAuthoritiesCopies(t *testing.T) {
	u := &User{Authorities: []string{"ROLE_A"}}
	got := u.GetAuthorities()
	got[0] = "ROLE_B"
	assert.Equal(t, []string{"ROLE_A"}, u.Authorities)
}

func TestUser_FullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&User{FirstName: "Ada", LastName: "Lovelace"}).FullName())
	assert.Equal(t, "Lovelace", (&User{LastName: "Lovelace"}).FullName())
	assert.Equal(t, "Ada", (&User{FirstName: "Ada"}).FullName())
}

func TestParseGroup(t *testing.T) {
	g, err := ParseGroup(" api_admin ")
	require.NoError(t, err)
	assert.Equal(t, GroupAPIAdmin, g)

	_, err = ParseGroup("ROOT")
	assert.True(t, errors.Is(err, common.ErrorValidation))

	gs, err := ParseGroups([]string{"API_USER", "system_admin"})
	require.NoError(t, err)
	assert.Equal(t, []Group{GroupAPIUser, GroupSystemAdmin}, gs)

	_, err = ParseGroups([]string{"API_USER", ""})
	assert.Error(t, err)
}

func TestUserProfileUpdate_IsChangePassword(t *testing.T) {
	assert.False(t, (&UserProfileUpdate{}).IsChangePassword())
	assert.False(t, (&UserProfileUpdate{OldPassword: "old"}).IsChangePassword())
	assert.False(t, (&UserProfileUpdate{NewPassword: "new"}).IsChangePassword())
	assert.True(t, (&UserProfileUpdate{OldPassword: "old", NewPassword: "new"}).IsChangePassword())
}
