package config

import "time"

type SecurityConfig interface {
	GetSessionSecret() string
	GetSessionMaxAge() time.Duration
	GetTwitterSecretMaxAge() time.Duration
	GetLinkedInStateMaxAge() time.Duration
	GetMaxRequestBodySize() int64
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetSessionSecret returns the key used to sign the session cookie.
// When empty the cookie is written as plain JSON.
func (Security) GetSessionSecret() string {
	return GetEnv("SESSION_SECRET", "")
}

func (Security) GetSessionMaxAge() time.Duration {
	return 30 * 24 * time.Hour
}

func (Security) GetTwitterSecretMaxAge() time.Duration {
	return 5 * time.Minute
}

func (Security) GetLinkedInStateMaxAge() time.Duration {
	return 10 * time.Minute
}

// GetMaxRequestBodySize limits request bodies; media uploads dominate the size.
func (Security) GetMaxRequestBodySize() int64 {
	return 16 << 20
}
