package auth

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/fragments-ui/internal/client/config"
	"github.com/dmitrijs2005/fragments-ui/internal/client/models"
)

// BasicProvider builds HTTP Basic sessions for development servers. The
// credentials are checked by the fragments service on first use.
type BasicProvider struct{}

func NewBasicProvider() *BasicProvider {
	return &BasicProvider{}
}

func (p *BasicProvider) Name() string { return config.ProviderBasic }

func (p *BasicProvider) SignIn(ctx context.Context, username string, password []byte) (*models.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) == 0 {
		return nil, ErrInvalidCredentials
	}

	s := &models.Session{
		Provider:         p.Name(),
		Username:         username,
		BasicCredentials: models.BasicCredentials(username, password),
	}
	if strings.Contains(username, "@") {
		s.Email = username
	}
	return s, nil
}

func (p *BasicProvider) Refresh(ctx context.Context, s *models.Session) (*models.Session, error) {
	return s, nil
}

func (p *BasicProvider) SignOut(ctx context.Context, s *models.Session) error {
	return nil
}
