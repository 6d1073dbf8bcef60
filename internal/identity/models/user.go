// Package models holds the identity core's value types.
package models

import (
	"slices"
	"time"
)

// CredentialsHolder is the capability an authentication backend needs from
// a principal.
type CredentialsHolder interface {
	GetUsername() string
	GetPassword() string
	IsEnabled() bool
	AccountNonLocked() bool
	CredentialsValid(now time.Time) bool
	GetAuthorities() []string
}

// User is a directory identity. Password holds the stored hash when the
// value comes from the store, and the plaintext only on inbound create and
// admin update requests. A nil PasswordExpiry never expires.
type User struct {
	Username       string `validate:"required,max=50"`
	Password       string
	Enabled        bool
	Locked         bool
	PasswordExpiry *time.Time
	FirstName      string `validate:"required,max=50"`
	MiddleInitial  string `validate:"max=1"`
	LastName       string `validate:"required,max=50"`
	EmailAddress   string `validate:"required,email,max=100"`
	MobileNumber   string `validate:"max=20"`
	Groups         []Group
	Authorities    []string
}

var _ CredentialsHolder = (*User)(nil)

func (u *User) GetUsername() string { return u.Username }

func (u *User) GetPassword() string { return u.Password }

func (u *User) IsEnabled() bool { return u.Enabled }

func (u *User) AccountNonLocked() bool { return !u.Locked }

// CredentialsValid reports whether the password is still usable at now.
func (u *User) CredentialsValid(now time.Time) bool {
	return u.PasswordExpiry == nil || now.Before(*u.PasswordExpiry)
}

func (u *User) GetAuthorities() []string { return slices.Clone(u.Authorities) }

// FullName is "First Last".
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Clone returns a deep copy; no slice or pointer is shared with u.
func (u User) Clone() User {
	u.Groups = slices.Clone(u.Groups)
	u.Authorities = slices.Clone(u.Authorities)
	if u.PasswordExpiry != nil {
		exp := *u.PasswordExpiry
		u.PasswordExpiry = &exp
	}
	return u
}

// WithGroups returns a copy of u with the given group memberships.
func (u User) WithGroups(groups ...Group) User {
	c := u.Clone()
	c.Groups = slices.Clone(groups)
	return c
}

// WithAuthorities returns a copy of u with the given direct authorities.
func (u User) WithAuthorities(authorities ...string) User {
	c := u.Clone()
	c.Authorities = slices.Clone(authorities)
	return c
}

// WithPasswordExpiry returns a copy of u expiring at exp; nil never expires.
func (u User) WithPasswordExpiry(exp *time.Time) User {
	c := u.Clone()
	if exp != nil {
		t := *exp
		c.PasswordExpiry = &t
	} else {
		c.PasswordExpiry = nil
	}
	return c
}

// WithoutPassword returns a copy of u with the password cleared.
func (u User) WithoutPassword() User {
	c := u.Clone()
	c.Password = ""
	return c
}

// GroupNames returns the names of u's groups in order.
func (u *User) GroupNames() []string {
	names := make([]string, 0, len(u.Groups))
	for _, g := range u.Groups {
		names = append(names, string(g))
	}
	return names
}
