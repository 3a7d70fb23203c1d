package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
)

// LoginRequest carries either a provider ID token or an email and password,
// depending on the authenticator.
type LoginRequest struct {
	IDToken  string `json:"idToken"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Session struct {
	Token     string
	UID       string
	ExpiresIn time.Duration
}

// Authenticator signs staff in and verifies the session tokens it issued.
type Authenticator interface {
	SignIn(ctx context.Context, req LoginRequest) (*Session, error)
	Verify(ctx context.Context, token string) (uid string, err error)
}

// ThrottledError is returned while a login cooldown is active.
type ThrottledError struct {
	Wait time.Duration
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("%s: retry in %d seconds", ErrTooManyAttempts, int(e.Wait.Seconds())+1)
}

func (e *ThrottledError) Is(target error) bool {
	return target == ErrTooManyAttempts
}
