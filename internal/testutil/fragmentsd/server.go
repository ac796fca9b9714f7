// Package fragmentsd is an in-memory stand-in for the fragments service,
// served over httptest in client and CLI tests. It follows the service's
// wire format: JSON envelopes with "status", fragment metadata with
// ownerId/created/updated/type/size, and error objects with code/message.
package fragmentsd

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/yuin/goldmark"
)

// Recorded is one request as the server saw it.
type Recorded struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	ContentType   string
	Accept        string
	RequestID     string
	Body          []byte
}

type fragment struct {
	ID      string    `json:"id"`
	OwnerID string    `json:"ownerId"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
	Type    string    `json:"type"`
	Size    int       `json:"size"`

	data []byte
}

// Server keeps fragments per owner. Safe for concurrent use.
type Server struct {
	mu        sync.Mutex
	fragments map[string]map[string]*fragment
	requests  []Recorded
	now       func() time.Time
}

func New() *Server {
	return &Server{
		fragments: make(map[string]map[string]*fragment),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Handler returns the chi router serving the fragments API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	r.Route("/v1/fragments", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", s.list)
		r.Post("/", s.create)
		r.Get("/{id}", s.get)
		r.Put("/{id}", s.update)
		r.Delete("/{id}", s.delete)
	})
	return r
}

// Requests returns a copy of everything received so far.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// OwnerID is the owner id the server assigns to requests carrying
// authorization (the hex SHA-256 of the principal).
func OwnerID(authorization string) string {
	sum := sha256.Sum256([]byte(principal(authorization)))
	return hex.EncodeToString(sum[:])
}

func principal(authorization string) string {
	scheme, cred, _ := strings.Cut(authorization, " ")
	if strings.EqualFold(scheme, "basic") {
		if raw, err := base64.StdEncoding.DecodeString(cred); err == nil {
			user, _, _ := strings.Cut(string(raw), ":")
			return user
		}
	}
	return cred
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			Method:        r.Method,
			Path:          r.URL.Path,
			RawQuery:      r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
			Accept:        r.Header.Get("Accept"),
			RequestID:     r.Header.Get("X-Request-ID"),
			Body:          body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" || principal(auth) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) owned(r *http.Request) map[string]*fragment {
	owner := OwnerID(r.Header.Get("Authorization"))
	m, ok := s.fragments[owner]
	if !ok {
		m = make(map[string]*fragment)
		s.fragments[owner] = m
	}
	return m
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	frags := make([]*fragment, 0)
	for _, f := range s.owned(r) {
		frags = append(frags, f)
	}
	sort.Slice(frags, func(i, j int) bool { return frags[i].Created.Before(frags[j].Created) })

	if r.URL.Query().Get("expand") == "1" {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "fragments": frags})
		return
	}

	ids := make([]string, 0, len(frags))
	for _, f := range frags {
		ids = append(ids, f.ID)
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "fragments": ids})
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	mt, ok := supportedType(r.Header.Get("Content-Type"))
	if !ok {
		writeError(w, http.StatusUnsupportedMediaType, "unsupported content type")
		return
	}
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	now := s.now()
	f := &fragment{
		ID:      uuid.NewString(),
		OwnerID: OwnerID(r.Header.Get("Authorization")),
		Created: now,
		Updated: now,
		Type:    mt,
		Size:    len(body),
		data:    body,
	}
	s.owned(r)[f.ID] = f
	s.mu.Unlock()

	w.Header().Set("Location", "/v1/fragments/"+f.ID)
	writeJSON(w, http.StatusCreated, map[string]any{"status": "ok", "fragment": f})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	f, ok := s.owned(r)[id]
	ext := ""
	if !ok {
		if base, e, found := cutLast(id, "."); found {
			f, ok = s.owned(r)[base]
			ext = e
		}
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "fragment not found")
		return
	}

	if ext == "" {
		w.Header().Set("Content-Type", f.Type)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(f.data)
		return
	}

	data, mt, ok := convert(f, ext)
	if !ok {
		writeError(w, http.StatusUnsupportedMediaType, "unsupported conversion")
		return
	}
	w.Header().Set("Content-Type", mt)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	mt, _ := supportedType(r.Header.Get("Content-Type"))
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.owned(r)[id]
	if !ok {
		writeError(w, http.StatusNotFound, "fragment not found")
		return
	}
	if mt != f.Type {
		writeError(w, http.StatusBadRequest, "a fragment's type can not be changed after it is created")
		return
	}

	f.data = body
	f.Size = len(body)
	f.Updated = s.now()
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "fragment": f})
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.owned(r)
	if _, ok := m[id]; !ok {
		writeError(w, http.StatusNotFound, "fragment not found")
		return
	}
	delete(m, id)
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func supportedType(contentType string) (string, bool) {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	switch {
	case strings.HasPrefix(mt, "text/"), mt == "application/json":
		return mt, true
	case mt == "image/png", mt == "image/jpeg", mt == "image/webp", mt == "image/gif":
		return mt, true
	}
	return "", false
}

// convert supports identity conversions plus markdown to html/text and
// json to text.
func convert(f *fragment, ext string) ([]byte, string, bool) {
	target := map[string]string{
		"txt": "text/plain", "md": "text/markdown", "html": "text/html", "json": "application/json",
		"png": "image/png", "jpg": "image/jpeg", "webp": "image/webp", "gif": "image/gif",
	}[ext]

	switch {
	case target == "":
		return nil, "", false
	case target == f.Type:
		return f.data, target, true
	case f.Type == "text/markdown" && target == "text/html":
		var buf bytes.Buffer
		if err := goldmark.Convert(f.data, &buf); err != nil {
			return nil, "", false
		}
		return buf.Bytes(), target, true
	case strings.HasPrefix(f.Type, "text/") && target == "text/plain":
		return f.data, target, true
	case f.Type == "application/json" && target == "text/plain":
		return f.data, target, true
	}
	return nil, "", false
}

func cutLast(s, sep string) (string, string, bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"status": "error",
		"error":  map[string]any{"code": status, "message": message},
	})
}
