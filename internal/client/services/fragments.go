package services

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/fragments-ui/internal/client/client"
	"github.com/dmitrijs2005/fragments-ui/internal/client/models"
	"github.com/dmitrijs2005/fragments-ui/internal/common"
	"github.com/dmitrijs2005/fragments-ui/internal/filex"
)

// MaxContentSize is the largest file accepted as fragment content.
const MaxContentSize = 5 << 20

// DefaultMediaType is used when the user does not pick one.
const DefaultMediaType = "text/plain"

// SupportedTypes are the media types offered when creating a fragment.
var SupportedTypes = []string{
	"text/plain",
	"text/markdown",
	"text/html",
	"application/json",
	"image/png",
	"image/jpeg",
	"image/webp",
	"image/gif",
}

type FragmentService interface {
	List(ctx context.Context, user client.User) ([]models.Fragment, error)
	IDs(ctx context.Context, user client.User) ([]string, error)
	Create(ctx context.Context, user client.User, content []byte, mediaType string) (*models.Fragment, error)
	View(ctx context.Context, user client.User, id string) (*models.FragmentData, error)
	Update(ctx context.Context, user client.User, id string, content []byte, mediaType string) (*models.Fragment, error)
	Delete(ctx context.Context, user client.User, id string) error
	Convert(ctx context.Context, user client.User, id string, ext string) (*models.ConvertedFragment, error)
}

type fragmentService struct {
	client client.Client
}

func NewFragmentService(c client.Client) FragmentService {
	return &fragmentService{client: c}
}

func (s *fragmentService) List(ctx context.Context, user client.User) ([]models.Fragment, error) {
	list, err := s.client.ListFragments(ctx, user)
	if err != nil {
		return nil, err
	}
	return list.Fragments, nil
}

func (s *fragmentService) IDs(ctx context.Context, user client.User) ([]string, error) {
	return s.client.ListFragmentIDs(ctx, user)
}

func (s *fragmentService) Create(ctx context.Context, user client.User, content []byte, mediaType string) (*models.Fragment, error) {
	mt, err := NormalizeMediaType(mediaType)
	if err != nil {
		return nil, err
	}
	return s.client.CreateFragment(ctx, user, content, mt)
}

func (s *fragmentService) View(ctx context.Context, user client.User, id string) (*models.FragmentData, error) {
	return s.client.GetFragment(ctx, user, strings.TrimSpace(id))
}

func (s *fragmentService) Update(ctx context.Context, user client.User, id string, content []byte, mediaType string) (*models.Fragment, error) {
	mt, err := NormalizeMediaType(mediaType)
	if err != nil {
		return nil, err
	}
	return s.client.UpdateFragment(ctx, user, content, strings.TrimSpace(id), mt)
}

func (s *fragmentService) Delete(ctx context.Context, user client.User, id string) error {
	_, err := s.client.DeleteFragment(ctx, user, strings.TrimSpace(id))
	return err
}

func (s *fragmentService) Convert(ctx context.Context, user client.User, id string, ext string) (*models.ConvertedFragment, error) {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	return s.client.GetConvertedFragment(ctx, user, strings.TrimSpace(id), ext)
}

// NormalizeMediaType checks that mediaType parses and returns it in
// canonical form. An empty value becomes DefaultMediaType.
func NormalizeMediaType(mediaType string) (string, error) {
	mediaType = strings.TrimSpace(mediaType)
	if mediaType == "" {
		return DefaultMediaType, nil
	}
	mt, params, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return "", fmt.Errorf("invalid media type %q: %w", mediaType, err)
	}
	return mime.FormatMediaType(mt, params), nil
}

// ReadContentFile loads fragment content from path and guesses its media
// type from the file extension. The guess is empty when unknown.
func ReadContentFile(path string) ([]byte, string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, "", common.ErrEmptyInput
	}

	data, err := filex.ReadLimited(path, MaxContentSize)
	if err != nil {
		return nil, "", err
	}
	return data, guessMediaType(path), nil
}

func guessMediaType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case "":
		return ""
	case ".md", ".markdown":
		return "text/markdown"
	case ".txt", ".text":
		return "text/plain"
	case ".json":
		return "application/json"
	}

	t := mime.TypeByExtension(ext)
	if t == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(t)
	if err != nil {
		return ""
	}
	return mt
}
