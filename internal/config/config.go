package config

import (
	"fmt"
	"strings"
	"time"
)

type Config interface {
	EnvConfig
	CorsConfig
	ProviderConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetBaseURL() string
	GetHTTPClientTimeout() time.Duration
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Providers
	Security
}

func New() Config {
	return mainConfig{}
}

// Validate reports the required variables that are not set. The generative
// content key is checked first so its absence always leads the message.
func Validate(c Config) error {
	if c.GetGeminiAPIKey() == "" {
		return fmt.Errorf("[config Validate] missing required environment variable %s", geminiAPIKeyVar)
	}

	required := map[string]string{
		newsAPIKeyVar:           c.GetNewsAPIKey(),
		twitterAPIKeyVar:        c.GetTwitterAPIKey(),
		twitterAPISecretVar:     c.GetTwitterAPISecret(),
		linkedInClientIDVar:     c.GetLinkedInClientID(),
		linkedInClientSecretVar: c.GetLinkedInClientSecret(),
	}
	var missing []string
	for _, name := range requiredOrder {
		if required[name] == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("[config Validate] missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if err := validateBaseURL(c.GetBaseURL()); err != nil {
		return fmt.Errorf("[config Validate] %w", err)
	}
	return nil
}

// validateBaseURL checks the URL OAuth callback URLs are built from.
func validateBaseURL(uri string) error {
	// Must start with http:// or https://
	if !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://") {
		return fmt.Errorf("BASE_URL must use http or https scheme")
	}
	// Should not contain fragments or a query, the callback path is appended to it
	if strings.ContainsAny(uri, "#?") {
		return fmt.Errorf("BASE_URL must not contain a query or fragment")
	}
	return nil
}

var requiredOrder = []string{
	newsAPIKeyVar,
	twitterAPIKeyVar,
	twitterAPISecretVar,
	linkedInClientIDVar,
	linkedInClientSecretVar,
}
