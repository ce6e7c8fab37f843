package config

import (
	"os"
	"strings"
	"time"
)

const (
	portEnvVar           = "PORT"
	appNameVar           = "APP_NAME"
	baseURLVar           = "BASE_URL"
	logLevelVar          = "LOG_LEVEL"
	httpClientTimeoutVar = "HTTP_CLIENT_TIMEOUT"

	// DevEnv is the value of ENV used for local development.
	DevEnv = "DEV"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Content Studio")
}

func (EnvVars) GetEnv() string {
	return GetEnv("ENV", DevEnv)
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, "info")
}

// GetBaseURL returns the public base URL of the service (e.g., "https://studio.example.com").
// OAuth callback URLs are built from it, so it must match what is registered with each provider.
func (EnvVars) GetBaseURL() string {
	return strings.TrimRight(GetEnv(baseURLVar, "http://localhost:8080"), "/")
}

// GetHTTPClientTimeout bounds every outbound provider call. Zero means no timeout.
func (EnvVars) GetHTTPClientTimeout() time.Duration {
	d, err := time.ParseDuration(GetEnv(httpClientTimeoutVar, "30s"))
	if err != nil || d < 0 {
		return 30 * time.Second
	}
	return d
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
