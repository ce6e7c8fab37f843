package sessions

import (
	"crypto/sha256"
	"encoding/json"
	"io"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-social-publisher/internal/errors"
	"golang.org/x/crypto/hkdf"
)

const signingKeyInfo = "auth_session cookie v1"

type sessionClaims struct {
	Session Session `json:"session"`
	jwt.RegisteredClaims
}

// Codec converts a Session to and from a cookie value.
//
// Without a secret the value is URL-escaped JSON, the same shape the browser
// front end has always read. With a secret the value is an HS256 JWT carrying
// the session in its "session" claim, so a modified cookie fails to decode.
type Codec struct {
	key     []byte
	maxAge  time.Duration
	nowTime func() time.Time
}

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// WithMaxAge bounds the lifetime of signed values. It should match the cookie max-age.
func WithMaxAge(d time.Duration) CodecOption {
	return func(c *Codec) {
		c.maxAge = d
	}
}

// WithNowTime sets the clock (primarily for testing)
func WithNowTime(nowFunc func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowTime = nowFunc
	}
}

// NewCodec creates a Codec. A non-empty secret enables signing; the signing key
// is derived from the secret with HKDF-SHA256.
func NewCodec(secret string, opts ...CodecOption) (*Codec, error) {
	c := &Codec{nowTime: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	if secret == "" {
		return c, nil
	}

	c.key = make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(signingKeyInfo)), c.key); err != nil {
		return nil, errors.Wrap(err, "[sessions NewCodec] derive signing key")
	}
	return c, nil
}

// Signed reports whether encoded values carry an integrity tag.
func (c *Codec) Signed() bool {
	return len(c.key) > 0
}

// Encode serialises s into a cookie-safe string.
func (c *Codec) Encode(s Session) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	if !c.Signed() {
		data, err := json.Marshal(s)
		if err != nil {
			return "", errors.Wrap(err, "[sessions Encode] marshal session")
		}
		return url.QueryEscape(string(data)), nil
	}

	now := c.nowTime()
	claims := sessionClaims{
		Session: s,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if c.maxAge > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.maxAge))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", errors.Wrap(err, "[sessions Encode] sign session")
	}
	return signed, nil
}

// Decode parses a cookie value back into a Session. Every failure, including an
// empty value, is reported as ErrInvalidSession.
func (c *Codec) Decode(value string) (Session, error) {
	if value == "" {
		return Session{}, errors.Wrap(errors.ErrInvalidSession, "empty session value")
	}

	var s Session
	if c.Signed() {
		var claims sessionClaims
		_, err := jwt.ParseWithClaims(value, &claims, func(*jwt.Token) (interface{}, error) {
			return c.key, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.nowTime))
		if err != nil {
			return Session{}, errors.Wrapf(errors.ErrInvalidSession, "verify session: %v", err)
		}
		s = claims.Session
	} else {
		raw, err := url.QueryUnescape(value)
		if err != nil {
			return Session{}, errors.Wrapf(errors.ErrInvalidSession, "unescape session: %v", err)
		}
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return Session{}, errors.Wrapf(errors.ErrInvalidSession, "malformed session: %v", err)
		}
	}

	if err := s.Validate(); err != nil {
		return Session{}, err
	}
	return s, nil
}
