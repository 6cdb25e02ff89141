package config

type Config interface {
	EnvConfig
	SessionConfig
	ClientConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Session
	Client
}

func New() Config {
	return mainConfig{}
}
