package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

type authURLResponse struct {
	URL string `json:"url"`
}

// TwitterStartHandler obtains a request token and keeps its secret in a short
// lived cookie. Browser navigations are redirected straight to Twitter.
func (s *Server) TwitterStartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, err := s.services.TwitterAuth.Start(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.setCookie(w, r, twitterSecretCookieName, start.RequestSecret, s.config.GetTwitterSecretMaxAge(), http.SameSiteStrictMode)

		if acceptsHTML(r) {
			http.Redirect(w, r, start.AuthorizationURL, http.StatusFound)
			return
		}
		writeJSON(w, http.StatusOK, authURLResponse{URL: start.AuthorizationURL})
	}
}

type twitterCallbackRequest struct {
	OAuthToken       string `json:"oauth_token"`
	OAuthTokenSecret string `json:"oauth_token_secret"`
	OAuthVerifier    string `json:"oauth_verifier"`
}

type twitterCallbackResponse struct {
	AccessToken string `json:"accessToken"`
	UserID      string `json:"userId,omitempty"`
}

// TwitterCallbackHandler completes the OAuth 1.0a exchange. The token secret is
// only ever taken from the cookie set by TwitterStartHandler.
func (s *Server) TwitterCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req twitterCallbackRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}

		secret := cookieValue(r, twitterSecretCookieName)
		if req.OAuthTokenSecret != "" && req.OAuthTokenSecret != secret {
			log.Ctx(r.Context()).Warn().Msg("ignoring oauth_token_secret supplied in the request body")
		}

		session, err := s.services.TwitterAuth.Complete(r.Context(), req.OAuthToken, secret, req.OAuthVerifier)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := s.SetSessionCookie(w, r, session); err != nil {
			s.writeError(w, r, err)
			return
		}
		s.clearCookie(w, r, twitterSecretCookieName, http.SameSiteStrictMode)

		writeJSON(w, http.StatusOK, twitterCallbackResponse{AccessToken: session.AccessToken, UserID: session.UserID})
	}
}

// LinkedInStartHandler generates a fresh anti-forgery state for this attempt.
func (s *Server) LinkedInStartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, err := s.services.LinkedInAuth.Start()
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.setCookie(w, r, linkedInStateCookieName, start.State, s.config.GetLinkedInStateMaxAge(), http.SameSiteLaxMode)

		if acceptsHTML(r) {
			http.Redirect(w, r, start.AuthorizationURL, http.StatusFound)
			return
		}
		writeJSON(w, http.StatusOK, authURLResponse{URL: start.AuthorizationURL})
	}
}

// LinkedInCallbackHandler handles the provider redirect. The stored state is
// consumed whatever the outcome so it cannot be replayed.
func (s *Server) LinkedInCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		storedState := cookieValue(r, linkedInStateCookieName)
		s.clearCookie(w, r, linkedInStateCookieName, http.SameSiteLaxMode)

		if providerErr := query.Get("error"); providerErr != "" {
			log.Ctx(r.Context()).Warn().Str("error", providerErr).Msg("linkedin authorization denied")
			writeJSONError(w, providerErr, query.Get("error_description"), http.StatusBadRequest)
			return
		}

		session, err := s.services.LinkedInAuth.Complete(r.Context(), query.Get("code"), query.Get("state"), storedState)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := s.SetSessionCookie(w, r, session); err != nil {
			s.writeError(w, r, err)
			return
		}
		http.Redirect(w, r, RouteIndex, http.StatusSeeOther)
	}
}

type sessionResponse struct {
	Platform  string `json:"platform"`
	UserID    string `json:"userId,omitempty"`
	ExpiresAt *int64 `json:"expiresAt,omitempty"`
}

// SessionHandler describes the current session without exposing credentials.
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.readSession(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sessionResponse{
			Platform:  string(session.Platform),
			UserID:    session.UserID,
			ExpiresAt: session.ExpiresAt,
		})
	}
}

// LogoutHandler clears the session cookie. It succeeds whether or not a session exists.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if session, err := s.readSession(r); err == nil {
			log.Ctx(r.Context()).Info().Str("platform", string(session.Platform)).Str("user_id", session.UserID).Msg("logout")
		}
		s.clearCookie(w, r, sessionCookieName, http.SameSiteLaxMode)
		w.WriteHeader(http.StatusNoContent)
	}
}
