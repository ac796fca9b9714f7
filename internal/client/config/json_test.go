package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"api_url":           "https://api.example:9000",
		"request_timeout":   "10s",
		"auth_provider":     "cognito",
		"cognito_client_id": "abc123",
	})

	t.Run("loads from flags", func(t *testing.T) {
		withArgs(t, "-config", path)

		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg))

		assert.Equal(t, "https://api.example:9000", cfg.APIURL)
		assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
		assert.Equal(t, ProviderCognito, cfg.AuthProvider)
		assert.Equal(t, "abc123", cfg.CognitoClientID)
		// untouched fields keep their defaults
		assert.Equal(t, 5*time.Second, cfg.OnlineCheckInterval)
		assert.Equal(t, "session.db", cfg.SessionDB)
	})

	t.Run("no config flag leaves values alone", func(t *testing.T) {
		withArgs(t)

		cfg := &Config{APIURL: "http://defaults:1234"}
		require.NoError(t, parseJson(cfg))
		assert.Equal(t, "http://defaults:1234", cfg.APIURL)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		withArgs(t, "-c", bad)

		require.Error(t, parseJson(&Config{}))
	})

	t.Run("missing file", func(t *testing.T) {
		withArgs(t, "-c", filepath.Join(t.TempDir(), "absent.json"))

		require.Error(t, parseJson(&Config{}))
	})
}
