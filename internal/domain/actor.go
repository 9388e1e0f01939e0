package domain

import (
	"strings"
	"time"
)

// Group is an organizational unit that owns projects, tasks and templates.
type Group struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Actor is the identity on whose behalf an operation runs. Role may be nil
// for accounts that were never given one.
type Actor struct {
	ID        string
	Username  string
	FullName  string
	Role      *Role
	Superuser bool
	Groups    []Group
	CreatedAt time.Time
}

// EffectiveRole resolves a missing role to Member.
func (a *Actor) EffectiveRole() Role {
	if a == nil || a.Role == nil {
		return RoleMember
	}
	return *a.Role
}

// HasRole reports whether the actor's effective role is one of roles.
func (a *Actor) HasRole(roles ...Role) bool {
	r := a.EffectiveRole()
	for _, want := range roles {
		if r == want {
			return true
		}
	}
	return false
}

// InGroup reports whether the actor is a direct member of groupID.
func (a *Actor) InGroup(groupID string) bool {
	for _, g := range a.Groups {
		if g.ID == groupID {
			return true
		}
	}
	return false
}

// PrimaryGroup returns the first group the actor belongs to.
func (a *Actor) PrimaryGroup() (Group, bool) {
	if len(a.Groups) == 0 {
		return Group{}, false
	}
	return a.Groups[0], true
}

// DisplayName prefers the full name over the username.
func (a *Actor) DisplayName() string {
	if strings.TrimSpace(a.FullName) != "" {
		return a.FullName
	}
	return a.Username
}
