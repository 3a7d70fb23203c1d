package auth

import (
	"path"
	"strings"
)

const (
	AdminPrefix = "/admin"
	LoginPath   = "/admin/login"
	LogoutPath  = "/admin/logout"
)

// Decision is the outcome of a gate check. Redirect is set when Allowed is false.
type Decision struct {
	Allowed  bool
	Redirect string
}

// Gate maps each role to the admin path prefixes it may open. The first
// prefix of a role is its home.
type Gate struct {
	prefixes map[Role][]string
}

func NewGate() *Gate {
	return &Gate{prefixes: map[Role][]string{
		RoleAdmin:  {AdminPrefix},
		RoleChef:   {AdminPrefix + "/chef"},
		RoleWaiter: {AdminPrefix + "/waiter"},
	}}
}

// Home is where a role lands after login or a denied request.
func (g *Gate) Home(role Role) string {
	if p := g.prefixes[role]; len(p) > 0 {
		return p[0]
	}
	return LoginPath
}

// Decide checks whether role may open urlPath. Paths outside the admin area
// are always allowed, as are the login and logout pages.
func (g *Gate) Decide(role Role, urlPath string) Decision {
	p := path.Clean("/" + urlPath)
	if !hasPathPrefix(p, AdminPrefix) || p == LoginPath || p == LogoutPath {
		return Decision{Allowed: true}
	}
	if role == RoleUnauthenticated {
		return Decision{Redirect: LoginPath}
	}
	for _, prefix := range g.prefixes[role] {
		if hasPathPrefix(p, prefix) {
			return Decision{Allowed: true}
		}
	}
	return Decision{Redirect: g.Home(role)}
}

// hasPathPrefix matches whole segments: /admin/chef matches /admin/chef/orders
// but not /admin/chefs.
func hasPathPrefix(p, prefix string) bool {
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}
