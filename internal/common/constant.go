// Package common contains shared constants and sentinel errors used across
// the fragments client components.
package common

// HTTP header names the client sets on every outbound request.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	UserAgentHeaderName     = "User-Agent"
)

// UserAgent identifies the client to the fragments service.
const UserAgent = "fragments-ui/1.0"
