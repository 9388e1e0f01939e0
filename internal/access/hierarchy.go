// Package access decides which projects and tasks an actor can see and
// which mutations it may perform.
package access

import "strings"

// Hierarchy maps a parent group name to the sub-groups its admins may see.
// Names compare case-insensitively.
type Hierarchy map[string][]string

// DefaultHierarchy is the organizational table shipped with the tracker.
func DefaultHierarchy() Hierarchy {
	return Hierarchy{
		"RISK MANAGEMENT": {
			"RISK PROCESS CONTROL",
			"PORTFOLIO MANAGEMENT & GOVERNANCE",
			"RISK PRODUCT & DEVELOPMENT",
		},
	}
}

func (h Hierarchy) subGroups(name string) []string {
	key := normalizeName(name)
	for parent, subs := range h {
		if normalizeName(parent) == key {
			return subs
		}
	}
	return nil
}

func normalizeName(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
