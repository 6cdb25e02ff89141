package config

import "time"

type ClientConfig interface {
	GetBaseURL() string
	GetRequestTimeout() time.Duration
	GetRefreshPath() string
}

type Client struct{}

var _ ClientConfig = Client{}

// GetBaseURL returns the base URL of the marketplace REST API
// (e.g. "https://api.pharmalink.example"). All endpoint paths are
// resolved relative to it.
func (Client) GetBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:8080")
}

func (Client) GetRequestTimeout() time.Duration {
	return 30 * time.Second
}

func (Client) GetRefreshPath() string {
	return "/user/refresh"
}
