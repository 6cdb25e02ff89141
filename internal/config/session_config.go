package config

import "time"

type SessionConfig interface {
	GetSessionCookieName() string
	GetSessionCookieExpiry() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetSessionCookieName() string {
	return GetEnv("SESSION_COOKIE_NAME", "pharmalink_session")
}

func (Session) GetSessionCookieExpiry() time.Duration {
	return 30 * 24 * time.Hour // 30 days
}
