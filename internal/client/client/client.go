package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/fragments-ui/internal/client/models"
)

// User is the authenticated principal on whose behalf a request is made.
type User interface {
	AuthorizationHeaders() http.Header
}

// BlobStore keeps binary bodies and hands back a local reference to them.
type BlobStore interface {
	Put(ctx context.Context, mediaType string, data []byte) (string, error)
}

// Client is the fragments service contract used by the rest of the app.
type Client interface {
	ListFragments(ctx context.Context, user User) (*models.FragmentList, error)
	ListFragmentIDs(ctx context.Context, user User) ([]string, error)
	CreateFragment(ctx context.Context, user User, content []byte, mediaType string) (*models.Fragment, error)
	GetFragment(ctx context.Context, user User, id string) (*models.FragmentData, error)
	UpdateFragment(ctx context.Context, user User, content []byte, id string, mediaType string) (*models.Fragment, error)
	DeleteFragment(ctx context.Context, user User, id string) (*models.DeleteResult, error)
	GetConvertedFragment(ctx context.Context, user User, id string, extension string) (*models.ConvertedFragment, error)
	Ping(ctx context.Context) error
}
