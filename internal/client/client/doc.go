// Package client is the HTTP client of the fragments service.
//
// # Overview
//
// HTTPClient issues exactly one request per operation and turns the response
// into a value or an error:
//
//	ListFragments         GET    /v1/fragments?expand=1
//	ListFragmentIDs       GET    /v1/fragments
//	CreateFragment        POST   /v1/fragments
//	GetFragment           GET    /v1/fragments/{id}
//	UpdateFragment        PUT    /v1/fragments/{id}
//	DeleteFragment        DELETE /v1/fragments/{id}
//	GetConvertedFragment  GET    /v1/fragments/{id}.{ext}
//	Ping                  GET    /
//
// Every fragment request carries the user's Authorization header, a fresh
// X-Request-ID and the client User-Agent. Nothing is cached.
//
// # Content negotiation
//
// Bodies are decoded into models.Content by media type category: text/* as
// text, application/* as JSON, image/* as bytes stored through a BlobStore
// (the caller gets a local reference), anything else as KindUnsupported with
// the raw bytes kept. Conversions pick the Accept type from a fixed extension
// table (see MediaTypeForExtension) and decode by that resolved type.
//
// # Error Handling
//
// Failures match sentinel errors with errors.Is: ErrRetrieval, ErrCreation,
// ErrUpdate, ErrDeletion, ErrUnsupportedExtension, ErrInvalidID,
// ErrUnauthorized, ErrNotFound and ErrUnavailable. Non-2xx responses are
// *ResponseError values carrying the status code and, when the service sent
// one, its error payload.
package client
