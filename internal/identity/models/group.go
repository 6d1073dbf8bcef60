package models

import (
	"fmt"
	"strings"

	"github.com/rswauth/authcore/internal/common"
)

// Group is one of the fixed directory roles.
type Group string

const (
	GroupAPIUser     Group = "API_USER"
	GroupAPIAdmin    Group = "API_ADMIN"
	GroupSystemAdmin Group = "SYSTEM_ADMIN"
)

// Groups lists every known group.
var Groups = []Group{GroupAPIUser, GroupAPIAdmin, GroupSystemAdmin}

func (g Group) Valid() bool {
	switch g {
	case GroupAPIUser, GroupAPIAdmin, GroupSystemAdmin:
		return true
	}
	return false
}

// ParseGroup accepts a group name in any letter case.
func ParseGroup(s string) (Group, error) {
	g := Group(strings.ToUpper(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", fmt.Errorf("%w: unknown group %q", common.ErrorValidation, s)
	}
	return g, nil
}

// ParseGroups parses every name in names.
func ParseGroups(names []string) ([]Group, error) {
	out := make([]Group, 0, len(names))
	for _, n := range names {
		g, err := ParseGroup(n)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

// RoleMode selects where a user's effective authorities come from.
type RoleMode string

const (
	RoleModeGroups      RoleMode = "groups"
	RoleModeAuthorities RoleMode = "authorities"
)

func (m RoleMode) Valid() bool {
	return m == RoleModeGroups || m == RoleModeAuthorities
}
