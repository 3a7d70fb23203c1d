package auth

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseAuthenticator exchanges Firebase ID tokens for session cookies and
// verifies them.
type FirebaseAuthenticator struct {
	client *fbauth.Client
	ttl    time.Duration
}

// NewFirebaseAuthenticator uses application default credentials when
// credentialsPath is empty.
func NewFirebaseAuthenticator(ctx context.Context, projectID, credentialsPath string, ttl time.Duration) (*FirebaseAuthenticator, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("get firebase auth client: %w", err)
	}
	return &FirebaseAuthenticator{client: client, ttl: ttl}, nil
}

func (a *FirebaseAuthenticator) SignIn(ctx context.Context, req LoginRequest) (*Session, error) {
	if req.IDToken == "" {
		return nil, ErrInvalidCredentials
	}
	tok, err := a.client.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	cookie, err := a.client.SessionCookie(ctx, req.IDToken, a.ttl)
	if err != nil {
		return nil, fmt.Errorf("create session cookie: %w", err)
	}
	return &Session{Token: cookie, UID: tok.UID, ExpiresIn: a.ttl}, nil
}

func (a *FirebaseAuthenticator) Verify(ctx context.Context, token string) (string, error) {
	tok, err := a.client.VerifySessionCookie(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return tok.UID, nil
}
