package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-ordering/models"
	"food-ordering/store/memstore"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"admin", RoleAdmin},
		{"Administrator", RoleAdmin},
		{"chef", RoleChef},
		{"oshpaz", RoleChef},
		{" waiter ", RoleWaiter},
		{"ofitsiant", RoleWaiter},
		{"cashier", RoleUnauthenticated},
		{"", RoleUnauthenticated},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseRole(tt.in), tt.in)
	}
	assert.True(t, Valid("oshpaz"))
	assert.False(t, Valid("guest"))
	assert.Equal(t, "waiter", RoleWaiter.String())
}

func TestGate_Decide(t *testing.T) {
	g := NewGate()
	tests := []struct {
		name string
		role Role
		path string
		want Decision
	}{
		{"waiter cannot open chef view", RoleWaiter, "/admin/chef", Decision{Redirect: "/admin/waiter"}},
		{"waiter own view", RoleWaiter, "/admin/waiter/orders", Decision{Allowed: true}},
		{"chef own view", RoleChef, "/admin/chef/orders/42/status", Decision{Allowed: true}},
		{"chef cannot open settings", RoleChef, "/admin/settings", Decision{Redirect: "/admin/chef"}},
		{"chef prefix matches whole segments", RoleChef, "/admin/chefs", Decision{Redirect: "/admin/chef"}},
		{"admin everywhere", RoleAdmin, "/admin/waiter/orders", Decision{Allowed: true}},
		{"admin root", RoleAdmin, "/admin", Decision{Allowed: true}},
		{"anonymous redirected to login", RoleUnauthenticated, "/admin/chef", Decision{Redirect: LoginPath}},
		{"login always allowed", RoleUnauthenticated, "/admin/login", Decision{Allowed: true}},
		{"login allowed for staff", RoleWaiter, "/admin/login", Decision{Allowed: true}},
		{"logout allowed", RoleChef, "/admin/logout", Decision{Allowed: true}},
		{"dot segments cleaned", RoleWaiter, "/admin/waiter/../chef", Decision{Redirect: "/admin/waiter"}},
		{"public pages untouched", RoleUnauthenticated, "/api/menu", Decision{Allowed: true}},
		{"administrator lookalike is public", RoleUnauthenticated, "/administration", Decision{Allowed: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Decide(tt.role, tt.path))
		})
	}
}

func TestCooldownForFailCount(t *testing.T) {
	tests := []struct {
		failCount int
		want      time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{10, 30 * time.Second},
		{100, 30 * time.Second},
	}
	for _, tt := range tests {
		if got := CooldownForFailCount(tt.failCount); got != tt.want {
			t.Errorf("CooldownForFailCount(%d) = %v, want %v", tt.failCount, got, tt.want)
		}
	}
}

func TestThrottle(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	th := NewThrottle()
	th.now = func() time.Time { return now }

	assert.Zero(t, th.Wait("chef@cafe.uz"))
	th.RecordFailure("chef@cafe.uz")
	assert.Equal(t, 2*time.Second, th.Wait("CHEF@cafe.uz"))

	th.RecordFailure("chef@cafe.uz")
	assert.Equal(t, 4*time.Second, th.Wait("chef@cafe.uz"))

	now = now.Add(5 * time.Second)
	assert.Zero(t, th.Wait("chef@cafe.uz"))

	for i := 0; i < 8; i++ {
		th.RecordFailure("chef@cafe.uz")
	}
	assert.Equal(t, 30*time.Second, th.Wait("chef@cafe.uz"))

	th.RecordSuccess("chef@cafe.uz")
	assert.Zero(t, th.Wait("chef@cafe.uz"))
}

func TestThrottle_ForgetsStaleEntries(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	th := NewThrottle()
	th.now = func() time.Time { return now }

	for i := 0; i < 6; i++ {
		th.RecordFailure("ghost-" + string(rune('a'+i)) + "@cafe.uz")
	}
	th.RecordFailure("chef@cafe.uz")
	th.RecordFailure("chef@cafe.uz")
	assert.Len(t, th.entries, 7)

	now = now.Add(throttleRetention + time.Minute)
	th.RecordFailure("chef@cafe.uz")
	assert.Len(t, th.entries, 1)
	assert.Equal(t, 2*time.Second, th.Wait("chef@cafe.uz"), "fail count starts over")
}

func TestGeneratePassword(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		p, err := GeneratePassword()
		require.NoError(t, err)
		assert.Len(t, p, generatedPasswordLen)
		assert.True(t, strings.ContainsAny(p, passwordUpper), p)
		assert.True(t, strings.ContainsAny(p, passwordLower), p)
		assert.True(t, strings.ContainsAny(p, passwordDigits), p)
		assert.True(t, strings.ContainsAny(p, passwordSymbols), p)
		seen[p] = true
	}
	assert.Greater(t, len(seen), 1)
}

func newLocal(t *testing.T) (*LocalAuthenticator, *memstore.Store) {
	t.Helper()
	s := memstore.New()
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	require.NoError(t, s.UpsertUser(context.Background(), &models.User{
		ID: "u-chef", Email: "chef@cafe.uz", PasswordHash: hash, Role: "oshpaz",
	}))
	return NewLocalAuthenticator(s, "test-secret", time.Hour), s
}

func TestLocalAuthenticator_SignInAndVerify(t *testing.T) {
	a, _ := newLocal(t)
	ctx := context.Background()

	sess, err := a.SignIn(ctx, LoginRequest{Email: "Chef@Cafe.uz", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, "u-chef", sess.UID)
	assert.Equal(t, time.Hour, sess.ExpiresIn)

	uid, err := a.Verify(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-chef", uid)

	_, err = a.Verify(ctx, sess.Token+"x")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	other := NewLocalAuthenticator(nil, "another-secret", time.Hour)
	_, err = other.Verify(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLocalAuthenticator_ExpiredToken(t *testing.T) {
	a, _ := newLocal(t)
	a.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	sess, err := a.SignIn(context.Background(), LoginRequest{Email: "chef@cafe.uz", Password: "s3cret!"})
	require.NoError(t, err)

	_, err = a.Verify(context.Background(), sess.Token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLocalAuthenticator_FailuresAreThrottled(t *testing.T) {
	a, _ := newLocal(t)
	ctx := context.Background()

	_, err := a.SignIn(ctx, LoginRequest{Email: "chef@cafe.uz", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.SignIn(ctx, LoginRequest{Email: "chef@cafe.uz", Password: "s3cret!"})
	assert.ErrorIs(t, err, ErrTooManyAttempts)
	var throttled *ThrottledError
	require.ErrorAs(t, err, &throttled)
	assert.Greater(t, throttled.Wait, time.Duration(0))

	_, err = a.SignIn(ctx, LoginRequest{Email: "nobody@cafe.uz", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.SignIn(ctx, LoginRequest{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestMiddleware(t *testing.T) {
	a, s := newLocal(t)
	ctx := context.Background()
	require.NoError(t, s.UpsertUser(ctx, &models.User{ID: "u-ghost", Email: "ghost@cafe.uz", Role: "cashier"}))
	chef, err := a.issue("u-chef")
	require.NoError(t, err)
	ghost, err := a.issue("u-ghost")
	require.NoError(t, err)
	stranger, err := a.issue("u-deleted")
	require.NoError(t, err)

	var seen Identity
	h := NewMiddleware(NewGate(), a, s).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = IdentityFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		path       string
		cookie     string
		bearer     string
		wantStatus int
		wantLoc    string
	}{
		{"chef cookie on chef view", "/admin/chef/orders", chef, "", http.StatusNoContent, ""},
		{"chef bearer on chef view", "/admin/chef/orders", "", chef, http.StatusNoContent, ""},
		{"chef on waiter view", "/admin/waiter/orders", chef, "", http.StatusSeeOther, "/admin/chef"},
		{"no session", "/admin/chef/orders", "", "", http.StatusSeeOther, LoginPath},
		{"garbage token", "/admin/chef/orders", "not-a-jwt", "", http.StatusSeeOther, LoginPath},
		{"unknown role", "/admin/chef/orders", ghost, "", http.StatusSeeOther, LoginPath},
		{"user document missing", "/admin", stranger, "", http.StatusSeeOther, LoginPath},
		{"login page open", "/admin/login", "", "", http.StatusNoContent, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/chef", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: chef})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, Identity{UID: "u-chef", Role: RoleChef}, seen)
}
