package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/fragments-ui/internal/client/models"
	"github.com/dmitrijs2005/fragments-ui/internal/common"
	"github.com/dmitrijs2005/fragments-ui/internal/logging"
	"github.com/dmitrijs2005/fragments-ui/internal/netx"
)

// maxBodySize is the largest response body accepted.
const maxBodySize = 64 << 20

// HTTPClient talks to the fragments service over its REST API.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	blobs   BlobStore
	log     logging.Logger
	timeout time.Duration
	maxBody int64

	newRequestID func() string
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the transport (tests use httptest clients).
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.http = c }
}

func WithLogger(l logging.Logger) Option {
	return func(h *HTTPClient) { h.log = l }
}

// WithTimeout bounds every request. Zero means no deadline beyond ctx.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) { h.timeout = d }
}

// NewFragmentsClient builds a client for the service at baseURL.
func NewFragmentsClient(baseURL string, blobs BlobStore, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api url %q is not absolute", baseURL)
	}

	c := &HTTPClient{
		baseURL:      u,
		http:         netx.NewHTTPClient(),
		blobs:        blobs,
		log:          logging.Discard(),
		maxBody:      maxBodySize,
		newRequestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// response is a fully read HTTP response.
type response struct {
	status      int
	contentType string
	body        []byte
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

type request struct {
	op          string
	kind        error
	method      string
	path        []string
	query       url.Values
	user        User
	contentType string
	accept      string
	body        []byte
}

// do sends req and reads the whole body before the deadline is released.
func (c *HTTPClient) do(ctx context.Context, log logging.Logger, requestID string, req request) (*response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := c.baseURL.JoinPath(req.path...)
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", req.op, err)
	}

	if req.user != nil {
		for k, vv := range req.user.AuthorizationHeaders() {
			for _, v := range vv {
				httpReq.Header.Add(k, v)
			}
		}
	}
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if req.accept != "" {
		httpReq.Header.Set("Accept", req.accept)
	}
	httpReq.Header.Set(common.RequestIDHeaderName, requestID)
	httpReq.Header.Set(common.UserAgentHeaderName, common.UserAgent)

	log.Debug(ctx, "sending request", "method", req.method, "url", u.String())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.op, mapTransportError(err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", req.op, mapTransportError(err))
	}
	if int64(len(data)) > c.maxBody {
		return nil, fmt.Errorf("%s: %w: %w: over %d bytes", req.op, req.kind, ErrResponseTooLarge, c.maxBody)
	}

	return &response{status: resp.StatusCode, contentType: resp.Header.Get("Content-Type"), body: data}, nil
}

// begin starts an operation: it checks credentials, allocates a request id
// and returns a logger scoped to both.
func (c *HTTPClient) begin(ctx context.Context, op string, user User) (logging.Logger, string, error) {
	requestID := c.newRequestID()
	log := c.log.With("op", op, "request_id", requestID)

	if user == nil || user.AuthorizationHeaders().Get(common.AuthorizationHeaderName) == "" {
		err := fmt.Errorf("%s: %w: no credentials", op, ErrUnauthorized)
		log.Error(ctx, "refusing unauthenticated request", "error", err)
		return log, requestID, err
	}

	log.Debug(ctx, op)
	return log, requestID, nil
}

func (c *HTTPClient) fail(ctx context.Context, log logging.Logger, err error) error {
	log.Error(ctx, "request failed", "error", err)
	return err
}

func validateID(op, id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, "/?#%") {
		return fmt.Errorf("%s: %w: %q", op, ErrInvalidID, id)
	}
	return nil
}

// ListFragments returns the expanded fragment metadata of user.
func (c *HTTPClient) ListFragments(ctx context.Context, user User) (*models.FragmentList, error) {
	const op = "list fragments"

	log, requestID, err := c.begin(ctx, op, user)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, log, requestID, request{
		op:     op,
		kind:   ErrRetrieval,
		method: http.MethodGet,
		path:   []string{"v1", "fragments"},
		query:  url.Values{"expand": []string{"1"}},
		user:   user,
	})
	if err != nil {
		return nil, c.fail(ctx, log, err)
	}
	if !resp.ok() {
		return nil, c.fail(ctx, log, newResponseError(op, ErrRetrieval, resp.status, resp.body))
	}

	var list models.FragmentList
	if err := json.Unmarshal(resp.body, &list); err != nil {
		return nil, c.fail(ctx, log, fmt.Errorf("%s: decode: %w", op, err))
	}
	if list.Fragments == nil {
		list.Fragments = []models.Fragment{}
	}

	if len(list.Fragments) > 0 {
		log.Info(ctx, "retrieved fragments", "count", len(list.Fragments))
	} else {
		log.Info(ctx, "no fragments found for the user")
	}
	return &list, nil
}

// ListFragmentIDs returns only the fragment ids of user.
func (c *HTTPClient) ListFragmentIDs(ctx context.Context, user User) ([]string, error) {
	const op = "list fragment ids"

	log, requestID, err := c.begin(ctx, op, user)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, log, requestID, request{
		op:     op,
		kind:   ErrRetrieval,
		method: http.MethodGet,
		path:   []string{"v1", "fragments"},
		user:   user,
	})
	if err != nil {
		return nil, c.fail(ctx, log, err)
	}
	if !resp.ok() {
		return nil, c.fail(ctx, log, newResponseError(op, ErrRetrieval, resp.status, resp.body))
	}

	var list models.FragmentIDList
	if err := json.Unmarshal(resp.body, &list); err != nil {
		return nil, c.fail(ctx, log, fmt.Errorf("%s: decode: %w", op, err))
	}
	if list.Fragments == nil {
		list.Fragments = []string{}
	}

	log.Info(ctx, "retrieved fragment ids", "count", len(list.Fragments))
	return list.Fragments, nil
}

// CreateFragment stores content as a new fragment of mediaType.
func (c *HTTPClient) CreateFragment(ctx context.Context, user User, content []byte, mediaType string) (*models.Fragment, error) {
	const op = "create fragment"

	log, requestID, err := c.begin(ctx, op, user)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, log, requestID, request{
		op:          op,
		kind:        ErrCreation,
		method:      http.MethodPost,
		path:        []string{"v1", "fragments"},
		user:        user,
		contentType: mediaType,
		body:        nonNil(content),
	})
	if err != nil {
		return nil, c.fail(ctx, log, err)
	}
	if !resp.ok() {
		return nil, c.fail(ctx, log, newResponseError(op, ErrCreation, resp.status, resp.body))
	}

	f, err := decodeFragment(resp.body)
	if err != nil {
		return nil, c.fail(ctx, log, fmt.Errorf("%s: decode: %w", op, err))
	}

	log.Info(ctx, "created new fragment", "id", f.ID, "type", f.Type, "size", f.Size)
	return f, nil
}

// GetFragment fetches the body of fragment id, decoded by its Content-Type.
func (c *HTTPClient) GetFragment(ctx context.Context, user User, id string) (*models.FragmentData, error) {
	const op = "get fragment"

	log, requestID, err := c.begin(ctx, op, user)
	if err != nil {
		return nil, err
	}
	if err := validateID(op, id); err != nil {
		return nil, c.fail(ctx, log, err)
	}

	resp, err := c.do(ctx, log, requestID, request{
		op:     op,
		kind:   ErrRetrieval,
		method: http.MethodGet,
		path:   []string{"v1", "fragments", id},
		user:   user,
	})
	if err != nil {
		return nil, c.fail(ctx, log, err)
	}
	if !resp.ok() {
		return nil, c.fail(ctx, log, newResponseError(op, ErrRetrieval, resp.status, resp.body))
	}

	content, err := c.decodeByContentType(ctx, resp.contentType, resp.body)
	if err != nil {
		return nil, c.fail(ctx, log, fmt.Errorf("%s: %w", op, err))
	}

	log.Info(ctx, "retrieved fragment data", "id", id, "type", resp.contentType, "kind", content.Kind.String())
	return &models.FragmentData{Data: content, FragmentType: resp.contentType}, nil
}

// UpdateFragment replaces the content of fragment id. The service keeps the
// id and owner.
func (c *HTTPClient) UpdateFragment(ctx context.Context, user User, content []byte, id string, mediaType string) (*models.Fragment, error) {
	const op = "update fragment"

	log, requestID, err := c.begin(ctx, op, user)
	if err != nil {
		return nil, err
	}
	if err := validateID(op, id); err != nil {
		return nil, c.fail(ctx, log, err)
	}

	resp, err := c.do(ctx, log, requestID, request{
		op:          op,
		kind:        ErrUpdate,
		method:      http.MethodPut,
		path:        []string{"v1", "fragments", id},
		user:        user,
		contentType: mediaType,
		body:        nonNil(content),
	})
	if err != nil {
		return nil, c.fail(ctx, log, err)
	}
	if !resp.ok() {
		return nil, c.fail(ctx, log, newResponseError(op, ErrUpdate, resp.status, resp.body))
	}

	f, err := decodeFragment(resp.body)
	if err != nil {
		return nil, c.fail(ctx, log, fmt.Errorf("%s: decode: %w", op, err))
	}

	log.Info(ctx, "updated fragment", "id", f.ID, "type", f.Type, "size", f.Size)
	return f, nil
}

// DeleteFragment removes fragment id and returns the service confirmation.
func (c *HTTPClient) DeleteFragment(ctx context.Context, user User, id string) (*models.DeleteResult, error) {
	const op = "delete fragment"

	log, requestID, err := c.begin(ctx, op, user)
	if err != nil {
		return nil, err
	}
	if err := validateID(op, id); err != nil {
		return nil, c.fail(ctx, log, err)
	}

	resp, err := c.do(ctx, log, requestID, request{
		op:     op,
		kind:   ErrDeletion,
		method: http.MethodDelete,
		path:   []string{"v1", "fragments", id},
		user:   user,
	})
	if err != nil {
		return nil, c.fail(ctx, log, err)
	}
	if !resp.ok() {
		return nil, c.fail(ctx, log, newResponseError(op, ErrDeletion, resp.status, resp.body))
	}

	result := &models.DeleteResult{Status: "ok"}
	if len(bytes.TrimSpace(resp.body)) > 0 {
		if err := json.Unmarshal(resp.body, result); err != nil {
			return nil, c.fail(ctx, log, fmt.Errorf("%s: decode: %w", op, err))
		}
	}

	log.Info(ctx, "deleted fragment", "id", id)
	return result, nil
}

// GetConvertedFragment fetches fragment id converted to the format named by
// extension. Unknown extensions fail before any request is sent.
func (c *HTTPClient) GetConvertedFragment(ctx context.Context, user User, id string, extension string) (*models.ConvertedFragment, error) {
	const op = "get converted fragment"

	mediaType, ok := MediaTypeForExtension(extension)
	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnsupportedExtension, extension)
		c.log.Error(ctx, "conversion rejected", "op", op, "error", err)
		return nil, err
	}

	log, requestID, err := c.begin(ctx, op, user)
	if err != nil {
		return nil, err
	}
	if err := validateID(op, id); err != nil {
		return nil, c.fail(ctx, log, err)
	}

	resp, err := c.do(ctx, log, requestID, request{
		op:     op,
		kind:   ErrRetrieval,
		method: http.MethodGet,
		path:   []string{"v1", "fragments", id + "." + extension},
		user:   user,
		accept: mediaType,
	})
	if err != nil {
		return nil, c.fail(ctx, log, err)
	}
	if !resp.ok() {
		return nil, c.fail(ctx, log, newResponseError(op, ErrRetrieval, resp.status, resp.body))
	}

	content, err := c.decodeConverted(ctx, mediaType, resp.body)
	if err != nil {
		return nil, c.fail(ctx, log, fmt.Errorf("%s: %w", op, err))
	}

	log.Info(ctx, "retrieved converted fragment", "id", id, "ext", extension, "type", mediaType)
	return &models.ConvertedFragment{Data: content}, nil
}

// Ping checks that the service answers its health check.
func (c *HTTPClient) Ping(ctx context.Context) error {
	const op = "ping"

	log := c.log.With("op", op)
	resp, err := c.do(ctx, log, c.newRequestID(), request{op: op, kind: ErrUnavailable, method: http.MethodGet})
	if err != nil {
		return err
	}
	if !resp.ok() {
		return fmt.Errorf("%s: %w (HTTP %d)", op, ErrUnavailable, resp.status)
	}
	return nil
}

// decodeFragment accepts both {"status":"ok","fragment":{...}} and a bare
// fragment object.
func decodeFragment(body []byte) (*models.Fragment, error) {
	var env models.FragmentEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	if env.Fragment.ID != "" {
		return &env.Fragment, nil
	}

	var f models.Fragment
	if err := json.Unmarshal(body, &f); err != nil {
		return nil, err
	}
	if f.ID == "" {
		return nil, fmt.Errorf("response has no fragment")
	}
	return &f, nil
}

// nonNil keeps an empty body a zero-length body instead of no body at all.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
