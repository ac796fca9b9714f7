// Package config loads runtime configuration for the fragments CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables (API_URL, AUTH_PROVIDER, AWS_COGNITO_*, ...).
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the fragments service
//	-i int      online status check interval (seconds)
//	-t int      per-request timeout (seconds, 0 disables)
//	-p string   identity provider: cognito or basic
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Durations use timex.Duration, so they may be strings like "30s" or integer
// nanoseconds:
//
//	{
//	  "api_url": "http://localhost:8080",
//	  "request_timeout": "30s",
//	  "auth_provider": "cognito",
//	  "cognito_client_id": "..."
//	}
package config
