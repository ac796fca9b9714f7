package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/fragments-ui/internal/flagx"
	"github.com/dmitrijs2005/fragments-ui/internal/timex"
)

// JsonConfig is the on-disk form of Config. Empty fields do not override.
type JsonConfig struct {
	APIURL              string          `json:"api_url"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	LogLevel            string          `json:"log_level"`
	LogFormat           string          `json:"log_format"`
	SessionDB           string          `json:"session_db"`
	DownloadDir         string          `json:"download_dir"`
	AuthProvider        string          `json:"auth_provider"`
	CognitoRegion       string          `json:"cognito_region"`
	CognitoUserPoolID   string          `json:"cognito_user_pool_id"`
	CognitoClientID     string          `json:"cognito_client_id"`
	CognitoClientSecret string          `json:"cognito_client_secret"`
}

// parseJson overlays cfg with the file named by -c/-config, if any.
func parseJson(cfg *Config) error {
	path := flagx.ConfigPath()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	jc.applyTo(cfg)
	return nil
}

func (jc *JsonConfig) applyTo(cfg *Config) {
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	setString(&cfg.APIURL, jc.APIURL)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.SessionDB, jc.SessionDB)
	setString(&cfg.DownloadDir, jc.DownloadDir)
	setString(&cfg.AuthProvider, jc.AuthProvider)
	setString(&cfg.CognitoRegion, jc.CognitoRegion)
	setString(&cfg.CognitoUserPoolID, jc.CognitoUserPoolID)
	setString(&cfg.CognitoClientID, jc.CognitoClientID)
	setString(&cfg.CognitoClientSecret, jc.CognitoClientSecret)

	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
}
