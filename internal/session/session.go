// Package session models the authenticated session as an explicit
// context object: created on login, restored from the stored token on
// startup, torn down on logout. Components receive it at construction
// instead of reaching into ambient state.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/commentify/commentify/internal/api"
	"github.com/commentify/commentify/internal/store"
)

// ErrNotLoggedIn indicates no stored session exists
var ErrNotLoggedIn = errors.New("not logged in; run 'commentify login'")

// ErrExpired indicates the stored token is past its expiry
var ErrExpired = errors.New("session expired; run 'commentify login' again")

// Session is the authenticated identity all core components act for
type Session struct {
	UserID   string
	Username string
	Email    string
	Token    string
}

// claims is the subset of the service's JWT payload the client reads.
// Shape follows the service's registered claims plus identity fields.
type claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// AuthAPI is the slice of the transport the session layer needs
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*api.User, error)
}

// Login authenticates against the service and persists the token
func Login(ctx context.Context, a AuthAPI, st *store.Store, email, password string) (*Session, error) {
	resp, err := a.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := st.SaveToken(resp.Token); err != nil {
		return nil, fmt.Errorf("persist token: %w", err)
	}
	return &Session{
		UserID:   resp.User.ID,
		Username: resp.User.Username,
		Email:    resp.User.Email,
		Token:    resp.Token,
	}, nil
}

// Restore rebuilds the session from the stored token without a network
// call, by parsing the identity claims out of the token. The signature
// is not verified client-side (the server is the authority); only the
// expiry is checked so a dead token fails fast with ErrExpired.
func Restore(st *store.Store) (*Session, error) {
	token, err := st.Token()
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, err
	}

	var c claims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &c); err != nil {
		return nil, fmt.Errorf("parse stored token: %w", err)
	}
	if c.ExpiresAt != nil && c.ExpiresAt.Before(time.Now()) {
		return nil, ErrExpired
	}

	return &Session{
		UserID: c.UserID,
		Email:  c.Email,
		Token:  token,
	}, nil
}

// Logout invalidates the token server-side (best-effort) and always
// clears local state: the token and the pairing payload are both scoped
// to the session and must not outlive it.
func Logout(ctx context.Context, a AuthAPI, st *store.Store) error {
	serverErr := a.Logout(ctx)

	if err := st.ClearToken(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	if err := st.ClearPairing(); err != nil {
		return fmt.Errorf("clear pairing payload: %w", err)
	}
	return serverErr
}
