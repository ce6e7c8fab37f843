package server

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/go-social-publisher/internal/config"
	"github.com/jrsteele09/go-social-publisher/internal/errors"
	"github.com/jrsteele09/go-social-publisher/sessions"
	"github.com/rs/zerolog/log"
)

const (
	// sessionCookieName holds the encoded Session for the authenticated platform
	sessionCookieName = "auth_session"
	// twitterSecretCookieName holds the OAuth 1.0a request token secret between start and callback
	twitterSecretCookieName = "twitter_oauth_token_secret"
	// linkedInStateCookieName holds the anti-forgery state between start and callback
	linkedInStateCookieName = "linkedin_oauth_state"

	contentTypeJSON = "application/json; charset=utf-8"
)

var validate = validator.New()

// isSecure reports whether cookies must carry the Secure flag.
func (s *Server) isSecure(r *http.Request) bool {
	return s.env != config.DevEnv || getScheme(r) == "https"
}

func (s *Server) setCookie(w http.ResponseWriter, r *http.Request, name, value string, maxAge time.Duration, sameSite http.SameSite) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isSecure(r),
		SameSite: sameSite,
		MaxAge:   int(maxAge.Seconds()),
	})
}

func (s *Server) clearCookie(w http.ResponseWriter, r *http.Request, name string, sameSite http.SameSite) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isSecure(r),
		SameSite: sameSite,
		MaxAge:   -1,
	})
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func (s *Server) SetSessionCookie(w http.ResponseWriter, r *http.Request, session sessions.Session) error {
	value, err := s.codec.Encode(session)
	if err != nil {
		return err
	}
	s.setCookie(w, r, sessionCookieName, value, s.config.GetSessionMaxAge(), http.SameSiteLaxMode)
	return nil
}

// readSession decodes the session cookie. A missing or expired session is
// ErrNotAuthenticated; an undecodable one is ErrInvalidSession.
func (s *Server) readSession(r *http.Request) (sessions.Session, error) {
	value := cookieValue(r, sessionCookieName)
	if value == "" {
		return sessions.Session{}, errors.ErrNotAuthenticated
	}
	session, err := s.codec.Decode(value)
	if err != nil {
		return sessions.Session{}, err
	}
	if session.Expired(s.nowFunc()) {
		return sessions.Session{}, errors.Wrapf(errors.ErrNotAuthenticated, "%s session expired", session.Platform)
	}
	return session, nil
}

// bearerSession authorises the Twitter proxy routes: the bearer token must be
// the access token of the Twitter session held in the session cookie.
func (s *Server) bearerSession(r *http.Request) (sessions.Session, error) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		return sessions.Session{}, errors.Wrap(errors.ErrNotAuthenticated, "bearer token required")
	}
	session, err := s.readSession(r)
	if err != nil {
		return sessions.Session{}, err
	}
	if session.Platform != sessions.PlatformTwitter {
		return sessions.Session{}, errors.Wrap(errors.ErrNotAuthenticated, "not authenticated with twitter")
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(session.AccessToken)) != 1 {
		return sessions.Session{}, errors.Wrap(errors.ErrNotAuthenticated, "bearer token does not match session")
	}
	return session, nil
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrapf(errors.ErrInvalidRequest, "invalid JSON body: %v", err)
	}
	if err := validate.Struct(v); err != nil {
		return errors.Wrap(errors.ErrInvalidRequest, err.Error())
	}
	return nil
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             errorCode,
		"error_description": description,
	})
}

// writeError converts err into a structured error response. Browser
// navigations that fail for lack of a session are sent into the OAuth flow
// of the platform named by the "platform" query parameter.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errors.StatusCode(err)

	logger := log.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("code", code).Msg("request failed")
	} else {
		logger.Warn().Err(err).Str("code", code).Msg("request rejected")
	}

	if status == http.StatusUnauthorized && acceptsHTML(r) {
		if route, ok := authStartRoutes[r.URL.Query().Get("platform")]; ok {
			http.Redirect(w, r, route, http.StatusSeeOther)
			return
		}
	}

	description := err.Error()
	if status >= http.StatusInternalServerError {
		// Upstream details stay in the log.
		description = publicDescription(err)
	}
	writeJSONError(w, code, description, status)
}

var publicDescriptions = []struct {
	err         error
	description string
}{
	{errors.ErrAuthInit, "failed to initialize authentication"},
	{errors.ErrAuthExchangeFailed, "failed to complete authentication"},
	{errors.ErrTokenExchangeFailed, "failed to exchange authorization code"},
	{errors.ErrMediaUploadFailed, "failed to upload media"},
	{errors.ErrPublishFailed, "failed to publish post"},
	{errors.ErrGenerationFailed, "failed to generate content"},
	{errors.ErrNewsUnavailable, "news feed unavailable"},
}

func publicDescription(err error) string {
	for _, d := range publicDescriptions {
		if errors.Is(err, d.err) {
			return d.description
		}
	}
	return "internal server error"
}

func acceptsHTML(r *http.Request) bool {
	return r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html")
}
