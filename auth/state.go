package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"

	"github.com/jrsteele09/go-social-publisher/internal/errors"
)

// stateLength is the number of random bytes in an anti-forgery state value.
const stateLength = 32

// generateState creates an unguessable, URL-safe anti-forgery state value.
func generateState() (string, error) {
	b := make([]byte, stateLength)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "[generateState] read random bytes")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// statesMatch compares states in constant time. An empty stored state never matches.
func statesMatch(received, stored string) bool {
	if received == "" || stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(received), []byte(stored)) == 1
}
