package session

import (
	"context"

	"github.com/dmitrijs2005/fragments-ui/internal/client/models"
)

// Repository persists the single signed-in session of the CLI.
type Repository interface {
	// Load returns nil and no error when nobody is signed in.
	Load(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Clear(ctx context.Context) error
}
