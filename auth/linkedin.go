package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/go-social-publisher/internal/errors"
	"github.com/jrsteele09/go-social-publisher/sessions"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// LinkedIn OAuth 2.0 / OpenID Connect endpoints
const (
	LinkedInAuthURL     = "https://www.linkedin.com/oauth/v2/authorization"
	LinkedInTokenURL    = "https://www.linkedin.com/oauth/v2/accessToken"
	LinkedInUserInfoURL = "https://api.linkedin.com/v2/userinfo"
	LinkedInIssuer      = "https://www.linkedin.com/oauth"
	LinkedInJWKSURL     = "https://www.linkedin.com/oauth/openid/jwks"
)

// LinkedInScopes are requested on every authorization: identity for the member
// id and w_member_social for publishing.
var LinkedInScopes = []string{oidc.ScopeOpenID, "profile", "w_member_social"}

// LinkedInAuthStart is the result of initiating the authorization-code flow.
// State must be stored by the caller and compared on callback.
type LinkedInAuthStart struct {
	AuthorizationURL string
	State            string
}

// LinkedInEndpoints groups the provider URLs so tests can point them at a fake server.
type LinkedInEndpoints struct {
	AuthURL     string
	TokenURL    string
	UserInfoURL string
}

// DefaultLinkedInEndpoints are the production LinkedIn URLs.
var DefaultLinkedInEndpoints = LinkedInEndpoints{
	AuthURL:     LinkedInAuthURL,
	TokenURL:    LinkedInTokenURL,
	UserInfoURL: LinkedInUserInfoURL,
}

// LinkedInAuthenticator runs the LinkedIn OAuth 2.0 authorization-code exchange.
type LinkedInAuthenticator struct {
	oauth2Config *oauth2.Config
	endpoints    LinkedInEndpoints
	httpClient   *http.Client
	nowTime      func() time.Time
}

// LinkedInOption configures a LinkedInAuthenticator.
type LinkedInOption func(*LinkedInAuthenticator)

// WithLinkedInEndpoints overrides the provider URLs.
func WithLinkedInEndpoints(e LinkedInEndpoints) LinkedInOption {
	return func(l *LinkedInAuthenticator) {
		l.endpoints = e
	}
}

// WithLinkedInHTTPClient sets the client used for the token and userinfo calls.
func WithLinkedInHTTPClient(c *http.Client) LinkedInOption {
	return func(l *LinkedInAuthenticator) {
		l.httpClient = c
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) LinkedInOption {
	return func(l *LinkedInAuthenticator) {
		l.nowTime = nowFunc
	}
}

// NewLinkedInAuthenticator creates an authenticator for the registered redirectURL.
func NewLinkedInAuthenticator(clientID, clientSecret, redirectURL string, opts ...LinkedInOption) *LinkedInAuthenticator {
	l := &LinkedInAuthenticator{
		endpoints:  DefaultLinkedInEndpoints,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		nowTime:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	l.oauth2Config = &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       LinkedInScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  l.endpoints.AuthURL,
			TokenURL: l.endpoints.TokenURL,
			// LinkedIn expects client_id and client_secret in the form body.
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	return l
}

// Start builds the provider authorization URL around a freshly generated state.
// Each call yields a new state; a state is valid for exactly one attempt.
func (l *LinkedInAuthenticator) Start() (LinkedInAuthStart, error) {
	state, err := generateState()
	if err != nil {
		return LinkedInAuthStart{}, errors.Wrap(errors.ErrAuthInit, err.Error())
	}
	return LinkedInAuthStart{
		AuthorizationURL: l.oauth2Config.AuthCodeURL(state),
		State:            state,
	}, nil
}

// Complete validates the returned state against storedState and exchanges code
// for an access token. A state mismatch is rejected before any network call.
func (l *LinkedInAuthenticator) Complete(ctx context.Context, code, state, storedState string) (sessions.Session, error) {
	if code == "" || state == "" {
		return sessions.Session{}, errors.Wrap(errors.ErrMissingParameters, "code and state are required")
	}
	if !statesMatch(state, storedState) {
		return sessions.Session{}, errors.Wrap(errors.ErrInvalidState, "state does not match the authorization request")
	}

	now := l.nowTime()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, l.httpClient)
	token, err := l.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return sessions.Session{}, errors.Wrapf(errors.ErrTokenExchangeFailed, "[LinkedInAuthenticator Complete] %v", err)
	}

	session := sessions.Session{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Platform:     sessions.PlatformLinkedIn,
	}
	if expiresIn, ok := expiresInSeconds(token); ok {
		session.ExpireAt(now.Add(time.Duration(expiresIn) * time.Second))
	} else if !token.Expiry.IsZero() {
		session.ExpireAt(token.Expiry)
	}

	userID, err := l.lookupMemberID(ctx, token)
	if err != nil {
		log.Warn().Err(err).Msg("linkedin userinfo lookup failed")
	}
	session.UserID = userID

	return session, nil
}

// lookupMemberID resolves the member id used in the urn:li:person author URN.
func (l *LinkedInAuthenticator) lookupMemberID(ctx context.Context, token *oauth2.Token) (string, error) {
	if l.endpoints.UserInfoURL == "" {
		return "", nil
	}
	provider := (&oidc.ProviderConfig{
		IssuerURL:   LinkedInIssuer,
		AuthURL:     l.endpoints.AuthURL,
		TokenURL:    l.endpoints.TokenURL,
		UserInfoURL: l.endpoints.UserInfoURL,
		JWKSURL:     LinkedInJWKSURL,
		Algorithms:  []string{oidc.RS256},
	}).NewProvider(ctx)

	info, err := provider.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return "", errors.Wrap(err, "[LinkedInAuthenticator lookupMemberID] userinfo")
	}
	return info.Subject, nil
}

// expiresInSeconds reads expires_in from the raw token response.
func expiresInSeconds(token *oauth2.Token) (int64, bool) {
	switch v := token.Extra("expires_in").(type) {
	case float64:
		return int64(v), v > 0
	case json.Number:
		n, err := v.Int64()
		return n, err == nil && n > 0
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil && n > 0
	}
	return 0, false
}
