package models

import (
	"encoding/base64"
	"net/http"
	"time"
)

// Session is the persisted form of an authenticated user.
type Session struct {
	Provider string
	Username string
	Email    string

	IDToken      string
	AccessToken  string
	RefreshToken string

	// BasicCredentials is base64("user:password") for Basic sessions.
	BasicCredentials string

	// ExpiresAt is zero for sessions that do not expire.
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer usable at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// User is the authenticated principal handed to the API client.
type User struct {
	Username string
	Email    string

	authorization string
}

// NewUser derives the user and its Authorization value from a session.
// Token sessions use the ID token as a bearer; Basic sessions use the
// stored credentials.
func NewUser(s *Session) *User {
	u := &User{Username: s.Username, Email: s.Email}
	switch {
	case s.IDToken != "":
		u.authorization = "Bearer " + s.IDToken
	case s.BasicCredentials != "":
		u.authorization = "Basic " + s.BasicCredentials
	}
	return u
}

// BasicCredentials encodes a username and password for HTTP Basic auth.
func BasicCredentials(username string, password []byte) string {
	buf := make([]byte, 0, len(username)+1+len(password))
	buf = append(buf, username...)
	buf = append(buf, ':')
	buf = append(buf, password...)
	return base64.StdEncoding.EncodeToString(buf)
}

// AuthorizationHeaders returns the headers required to authorize a request.
func (u *User) AuthorizationHeaders() http.Header {
	h := http.Header{}
	if u != nil && u.authorization != "" {
		h.Set("Authorization", u.authorization)
	}
	return h
}

// DisplayName is what the prompt shows for the user.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}
