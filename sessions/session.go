package sessions

import (
	"time"

	"github.com/jrsteele09/go-social-publisher/internal/errors"
)

// Platform identifies the social network a Session is allowed to publish to.
type Platform string

const (
	PlatformTwitter  Platform = "twitter"
	PlatformLinkedIn Platform = "linkedin"
)

// Valid reports whether p is one of the supported publishing platforms.
func (p Platform) Valid() bool {
	switch p {
	case PlatformTwitter, PlatformLinkedIn:
		return true
	}
	return false
}

// Session is an authenticated, platform-scoped capability to publish on behalf of a user.
// It is created at the end of a successful OAuth callback and travels in the auth cookie.
type Session struct {
	AccessToken  string   `json:"accessToken"`            // Opaque provider credential
	AccessSecret string   `json:"accessSecret,omitempty"` // OAuth1 token secret, Twitter only
	RefreshToken string   `json:"refreshToken,omitempty"` // Reserved for providers issuing one
	Platform     Platform `json:"platform"`               // Fixes which publish codepath applies
	UserID       string   `json:"userId,omitempty"`       // Provider member id, required for LinkedIn publish
	ExpiresAt    *int64   `json:"expiresAt,omitempty"`    // Milliseconds since epoch, LinkedIn only
}

// Validate checks the fields required for the session's declared platform.
func (s Session) Validate() error {
	if !s.Platform.Valid() {
		return errors.Wrapf(errors.ErrInvalidSession, "unknown platform %q", s.Platform)
	}
	if s.AccessToken == "" {
		return errors.Wrap(errors.ErrInvalidSession, "access token is required")
	}
	return nil
}

// Expiry returns the expiry time when the provider supplied one.
func (s Session) Expiry() (time.Time, bool) {
	if s.ExpiresAt == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*s.ExpiresAt), true
}

// ExpireAt records t as the session expiry with millisecond precision.
func (s *Session) ExpireAt(t time.Time) {
	ms := t.UnixMilli()
	s.ExpiresAt = &ms
}

// Expired reports whether the session has a known expiry at or before now.
// Sessions without an expiry are treated as non-expiring for the cookie's lifetime.
func (s Session) Expired(now time.Time) bool {
	expiry, ok := s.Expiry()
	return ok && !now.Before(expiry)
}
