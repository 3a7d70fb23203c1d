// Package auth decides who may see which part of the staff area and signs
// staff members in.
package auth

import "strings"

type Role int

const (
	RoleUnauthenticated Role = iota
	RoleAdmin
	RoleChef
	RoleWaiter
)

var roleNames = map[Role]string{
	RoleUnauthenticated: "unauthenticated",
	RoleAdmin:           "admin",
	RoleChef:            "chef",
	RoleWaiter:          "waiter",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return roleNames[RoleUnauthenticated]
}

// roleAliases maps stored role strings, including legacy Uzbek names, to roles.
var roleAliases = map[string]Role{
	"admin":         RoleAdmin,
	"administrator": RoleAdmin,
	"chef":          RoleChef,
	"oshpaz":        RoleChef,
	"waiter":        RoleWaiter,
	"ofitsiant":     RoleWaiter,
}

// ParseRole maps a stored role string to a Role. Unknown values are
// unauthenticated.
func ParseRole(s string) Role {
	return roleAliases[strings.ToLower(strings.TrimSpace(s))]
}

// Valid reports whether s names a staff role.
func Valid(s string) bool {
	return ParseRole(s) != RoleUnauthenticated
}
