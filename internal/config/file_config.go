package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/pharmalink/go-pharmacy-client/internal/utils"
)

// FileConfig is a YAML-backed Config. Unset fields fall back to the
// environment-variable defaults, so a partial file is valid.
type FileConfig struct {
	AppName string `yaml:"app_name"`
	Env     string `yaml:"env"`

	API struct {
		BaseURL     string        `yaml:"base_url"`
		Timeout     time.Duration `yaml:"timeout"`
		RefreshPath string        `yaml:"refresh_path"`
	} `yaml:"api"`

	Session struct {
		CookieName   string        `yaml:"cookie_name"`
		CookieExpiry time.Duration `yaml:"cookie_expiry"`
	} `yaml:"session"`

	env EnvVars
}

var _ Config = (*FileConfig)(nil)

// LoadFromFile loads configuration from a YAML file. A .env file, if
// present, is loaded first so env fallbacks see it.
func LoadFromFile(path string) (*FileConfig, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "[LoadFromFile] read config file")
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "[LoadFromFile] parse config file")
	}
	return &cfg, nil
}

func (c *FileConfig) GetAppName() string {
	return utils.FirstNonEmpty(c.AppName, c.env.GetAppName())
}

func (c *FileConfig) GetEnv() string {
	return utils.FirstNonEmpty(c.Env, c.env.GetEnv())
}

func (c *FileConfig) GetBaseURL() string {
	return utils.FirstNonEmpty(c.API.BaseURL, Client{}.GetBaseURL())
}

func (c *FileConfig) GetRequestTimeout() time.Duration {
	if c.API.Timeout > 0 {
		return c.API.Timeout
	}
	return Client{}.GetRequestTimeout()
}

func (c *FileConfig) GetRefreshPath() string {
	return utils.FirstNonEmpty(c.API.RefreshPath, Client{}.GetRefreshPath())
}

func (c *FileConfig) GetSessionCookieName() string {
	return utils.FirstNonEmpty(c.Session.CookieName, Session{}.GetSessionCookieName())
}

func (c *FileConfig) GetSessionCookieExpiry() time.Duration {
	if c.Session.CookieExpiry > 0 {
		return c.Session.CookieExpiry
	}
	return Session{}.GetSessionCookieExpiry()
}
