package auth

import (
	"context"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"food-ordering/models"
)

const SessionCookie = "session"

// Identity is the signed-in staff member attached to a request.
type Identity struct {
	UID  string
	Role Role
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the request's identity, unauthenticated when none was set.
func IdentityFrom(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey{}).(Identity)
	return id
}

// UserReader looks a staff account up by uid.
type UserReader interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

// Middleware resolves the session on every admin request and applies the gate.
type Middleware struct {
	gate  *Gate
	authn Authenticator
	users UserReader
}

func NewMiddleware(gate *Gate, authn Authenticator, users UserReader) *Middleware {
	return &Middleware{gate: gate, authn: authn, users: users}
}

func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := m.Resolve(r)
		d := m.gate.Decide(id.Role, r.URL.Path)
		if !d.Allowed {
			log.WithFields(log.Fields{
				"path":     r.URL.Path,
				"role":     id.Role.String(),
				"redirect": d.Redirect,
			}).Debug("admin request redirected")
			http.Redirect(w, r, d.Redirect, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// Resolve maps the request's session to an identity. Any failure along the
// way yields an unauthenticated identity.
func (m *Middleware) Resolve(r *http.Request) Identity {
	token := SessionToken(r)
	if token == "" {
		return Identity{}
	}
	ctx := r.Context()
	uid, err := m.authn.Verify(ctx, token)
	if err != nil {
		log.WithError(err).Debug("session verification failed")
		return Identity{}
	}
	u, err := m.users.GetUser(ctx, uid)
	if err != nil {
		log.WithError(err).WithField("uid", uid).Debug("staff user lookup failed")
		return Identity{}
	}
	return Identity{UID: uid, Role: ParseRole(u.Role)}
}

// SessionToken reads the session cookie, falling back to a bearer token.
func SessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}
