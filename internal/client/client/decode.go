package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fragments-ui/internal/client/models"
)

// decodeByContentType decodes a GET /v1/fragments/{id} body by the category
// of the response Content-Type.
func (c *HTTPClient) decodeByContentType(ctx context.Context, contentType string, body []byte) (models.Content, error) {
	mt := baseMediaType(contentType)

	switch {
	case isText(mt):
		return textContent(mt, body), nil
	case isApplication(mt):
		return jsonContent(mt, body)
	case isImage(mt):
		return c.binaryContent(ctx, mt, body)
	default:
		return models.Content{Kind: models.KindUnsupported, MediaType: mt, Raw: body, Size: len(body)}, nil
	}
}

// decodeConverted decodes a conversion body by the type that was requested
// through Accept, not by what the response claims.
func (c *HTTPClient) decodeConverted(ctx context.Context, mediaType string, body []byte) (models.Content, error) {
	switch {
	case isImage(mediaType):
		return c.binaryContent(ctx, mediaType, body)
	case mediaType == "application/json":
		return jsonContent(mediaType, body)
	default:
		return textContent(mediaType, body), nil
	}
}

func textContent(mt string, body []byte) models.Content {
	return models.Content{Kind: models.KindText, MediaType: mt, Text: string(body), Size: len(body)}
}

func jsonContent(mt string, body []byte) (models.Content, error) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return models.Content{}, fmt.Errorf("decode %s body: %w", mt, err)
	}
	return models.Content{Kind: models.KindJSON, MediaType: mt, JSON: v, Size: len(body)}, nil
}

func (c *HTTPClient) binaryContent(ctx context.Context, mt string, body []byte) (models.Content, error) {
	if c.blobs == nil {
		return models.Content{}, errors.New("no blob store configured for binary content")
	}
	ref, err := c.blobs.Put(ctx, mt, body)
	if err != nil {
		return models.Content{}, fmt.Errorf("store %s body: %w", mt, err)
	}
	return models.Content{Kind: models.KindBinary, MediaType: mt, Ref: ref, Size: len(body)}, nil
}
