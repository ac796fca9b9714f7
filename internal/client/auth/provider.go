// Package auth signs users in against an identity provider and turns the
// result into a models.Session that can be persisted and restored.
package auth

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/fragments-ui/internal/client/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrChallengeRequired  = errors.New("identity provider requires an additional challenge")
	ErrSessionExpired     = errors.New("session expired, please login again")
)

// Provider is an identity provider the CLI can sign in with.
type Provider interface {
	Name() string
	SignIn(ctx context.Context, username string, password []byte) (*models.Session, error)
	// Refresh returns a renewed session. Providers whose sessions never
	// expire return s unchanged.
	Refresh(ctx context.Context, s *models.Session) (*models.Session, error)
	SignOut(ctx context.Context, s *models.Session) error
}
