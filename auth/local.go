package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	log "github.com/sirupsen/logrus"

	"food-ordering/models"
	"food-ordering/store"
)

const tokenIssuer = "food-ordering"

// UserFinder looks staff accounts up by email.
type UserFinder interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// LocalAuthenticator checks bcrypt password hashes stored on user documents
// and issues HS256 JWT sessions.
type LocalAuthenticator struct {
	users    UserFinder
	secret   []byte
	ttl      time.Duration
	throttle *Throttle
	now      func() time.Time
}

func NewLocalAuthenticator(users UserFinder, secret string, ttl time.Duration) *LocalAuthenticator {
	return &LocalAuthenticator{
		users:    users,
		secret:   []byte(secret),
		ttl:      ttl,
		throttle: NewThrottle(),
		now:      time.Now,
	}
}

func (a *LocalAuthenticator) SignIn(ctx context.Context, req LoginRequest) (*Session, error) {
	if req.Email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}
	if wait := a.throttle.Wait(req.Email); wait > 0 {
		return nil, &ThrottledError{Wait: wait}
	}

	u, err := a.users.FindUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil || !checkPassword(u.PasswordHash, req.Password) {
		a.throttle.RecordFailure(req.Email)
		log.WithField("email", req.Email).Info("failed staff login")
		return nil, ErrInvalidCredentials
	}
	a.throttle.RecordSuccess(req.Email)

	token, err := a.issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, UID: u.ID, ExpiresIn: a.ttl}, nil
}

func (a *LocalAuthenticator) issue(uid string) (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   uid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

func (a *LocalAuthenticator) Verify(_ context.Context, token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if claims.Issuer != tokenIssuer || claims.Subject == "" {
		return "", ErrInvalidCredentials
	}
	return claims.Subject, nil
}
