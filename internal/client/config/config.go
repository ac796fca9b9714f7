package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	ProviderCognito = "cognito"
	ProviderBasic   = "basic"
)

// Config holds runtime settings for the fragments CLI.
type Config struct {
	APIURL              string        `env:"API_URL"`
	RequestTimeout      time.Duration `env:"REQUEST_TIMEOUT"`
	OnlineCheckInterval time.Duration `env:"ONLINE_CHECK_INTERVAL"`

	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`

	SessionDB   string `env:"SESSION_DB"`
	DownloadDir string `env:"DOWNLOAD_DIR"`

	AuthProvider        string `env:"AUTH_PROVIDER"`
	CognitoRegion       string `env:"AWS_REGION"`
	CognitoUserPoolID   string `env:"AWS_COGNITO_POOL_ID"`
	CognitoClientID     string `env:"AWS_COGNITO_CLIENT_ID"`
	CognitoClientSecret string `env:"AWS_COGNITO_CLIENT_SECRET"`
}

// LoadDefaults populates c with defaults suitable for a local fragments
// service started on port 8080 with Basic auth.
func (c *Config) LoadDefaults() {
	c.APIURL = "http://localhost:8080"
	c.RequestTimeout = 30 * time.Second
	c.OnlineCheckInterval = 5 * time.Second
	c.LogLevel = "warn"
	c.LogFormat = "text"
	c.SessionDB = "session.db"
	c.DownloadDir = "download"
	c.AuthProvider = ProviderBasic
	c.CognitoRegion = "us-east-1"
}

// Validate reports configuration that cannot work at all.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("api url %q: must be an absolute http(s) URL", c.APIURL)
	}
	if c.RequestTimeout < 0 {
		return errors.New("request timeout must not be negative")
	}

	switch c.AuthProvider {
	case ProviderBasic:
	case ProviderCognito:
		if c.CognitoClientID == "" {
			return errors.New("cognito provider requires a client id")
		}
		if c.CognitoRegion == "" {
			return errors.New("cognito provider requires a region")
		}
		if c.CognitoUserPoolID != "" {
			region, _, ok := strings.Cut(c.CognitoUserPoolID, "_")
			if !ok || region != c.CognitoRegion {
				return fmt.Errorf("cognito user pool %q is not in region %q", c.CognitoUserPoolID, c.CognitoRegion)
			}
		}
	default:
		return fmt.Errorf("unknown auth provider %q", c.AuthProvider)
	}
	return nil
}

// CognitoIssuer is the "iss" claim of ID tokens from the configured user pool,
// or "" when no pool is configured.
func (c *Config) CognitoIssuer() string {
	if c.CognitoUserPoolID == "" {
		return ""
	}
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", c.CognitoRegion, c.CognitoUserPoolID)
}

// LoadConfig builds a Config from defaults, then JSON, environment and flags.
// Later sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseEnv(cfg); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}
	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
