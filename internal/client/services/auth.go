// Package services contains application services for the fragments CLI.
// This file defines the authentication service: provider sign-in, restoring
// and refreshing the persisted session, sign-out and the liveness probe.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fragments-ui/internal/client/auth"
	"github.com/dmitrijs2005/fragments-ui/internal/client/client"
	"github.com/dmitrijs2005/fragments-ui/internal/client/models"
	"github.com/dmitrijs2005/fragments-ui/internal/client/repositories/session"
	"github.com/dmitrijs2005/fragments-ui/internal/common"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - SignIn: authenticate with the provider and persist the session.
//   - CurrentUser: restore the persisted session, refreshing it when expired.
//     Returns common.ErrNoSession when nobody is signed in.
//   - SignOut: end the provider session and forget the local one.
//   - Ping: check server liveness.
type AuthService interface {
	SignIn(ctx context.Context, username string, password []byte) (*models.User, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	SignOut(ctx context.Context) error
	Ping(ctx context.Context) error
}

type authService struct {
	provider auth.Provider
	sessions session.Repository
	client   client.Client
	now      func() time.Time
}

func NewAuthService(provider auth.Provider, sessions session.Repository, client client.Client) AuthService {
	return &authService{provider: provider, sessions: sessions, client: client, now: time.Now}
}

func (a *authService) SignIn(ctx context.Context, username string, password []byte) (*models.User, error) {
	s, err := a.provider.SignIn(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if err := a.sessions.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	return models.NewUser(s), nil
}

// CurrentUser returns the signed-in user. A session left behind by another
// provider, or one the provider refuses to refresh, is discarded.
func (a *authService) CurrentUser(ctx context.Context) (*models.User, error) {
	s, err := a.sessions.Load(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, common.ErrNoSession
	}

	if s.Provider != a.provider.Name() {
		return nil, a.discard(ctx)
	}

	if s.Expired(a.now()) {
		refreshed, err := a.provider.Refresh(ctx, s)
		if errors.Is(err, auth.ErrSessionExpired) {
			return nil, a.discard(ctx)
		}
		if err != nil {
			return nil, fmt.Errorf("refresh session: %w", err)
		}
		if err := a.sessions.Save(ctx, refreshed); err != nil {
			return nil, fmt.Errorf("session saving error: %w", err)
		}
		s = refreshed
	}

	return models.NewUser(s), nil
}

func (a *authService) discard(ctx context.Context) error {
	if err := a.sessions.Clear(ctx); err != nil {
		return err
	}
	return common.ErrNoSession
}

// SignOut always clears the local session, even if the provider call fails.
func (a *authService) SignOut(ctx context.Context) error {
	s, err := a.sessions.Load(ctx)
	if err != nil {
		return err
	}

	var providerErr error
	if s != nil {
		providerErr = a.provider.SignOut(ctx, s)
	}

	if err := a.sessions.Clear(ctx); err != nil {
		return err
	}
	if providerErr != nil {
		return fmt.Errorf("provider sign out: %w", providerErr)
	}
	return nil
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
