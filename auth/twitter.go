package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dghubble/oauth1"
	twitteroauth "github.com/dghubble/oauth1/twitter"
	"github.com/jrsteele09/go-social-publisher/internal/errors"
	"github.com/jrsteele09/go-social-publisher/sessions"
	"github.com/rs/zerolog/log"
)

const twitterUsersMeURL = "https://api.twitter.com/2/users/me"

// TwitterAuthStart is the result of initiating the three-legged OAuth 1.0a flow.
// RequestSecret must be stashed server side and handed back to Complete.
type TwitterAuthStart struct {
	AuthorizationURL string
	RequestToken     string
	RequestSecret    string
}

// TwitterAuthenticator runs the Twitter OAuth 1.0a handshake with the app's consumer credentials.
type TwitterAuthenticator struct {
	config     *oauth1.Config
	usersMeURL string
	httpClient *http.Client
}

// TwitterOption configures a TwitterAuthenticator.
type TwitterOption func(*TwitterAuthenticator)

// WithTwitterEndpoint overrides the request-token, authorize and access-token URLs.
func WithTwitterEndpoint(endpoint oauth1.Endpoint) TwitterOption {
	return func(t *TwitterAuthenticator) {
		t.config.Endpoint = endpoint
	}
}

// WithTwitterUsersMeURL overrides the URL used to resolve the authenticated user's id.
func WithTwitterUsersMeURL(u string) TwitterOption {
	return func(t *TwitterAuthenticator) {
		t.usersMeURL = u
	}
}

// WithTwitterHTTPClient sets the client used for the token exchanges and signed API calls.
func WithTwitterHTTPClient(c *http.Client) TwitterOption {
	return func(t *TwitterAuthenticator) {
		t.httpClient = c
	}
}

// NewTwitterAuthenticator creates an authenticator whose provider redirects back to callbackURL.
func NewTwitterAuthenticator(consumerKey, consumerSecret, callbackURL string, opts ...TwitterOption) *TwitterAuthenticator {
	t := &TwitterAuthenticator{
		config: &oauth1.Config{
			ConsumerKey:    consumerKey,
			ConsumerSecret: consumerSecret,
			CallbackURL:    callbackURL,
			Endpoint:       twitteroauth.AuthorizeEndpoint,
		},
		usersMeURL: twitterUsersMeURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(t)
	}
	t.config.HTTPClient = t.httpClient
	return t
}

// Config exposes the OAuth1 consumer configuration so API clients can sign requests
// with the same credentials.
func (t *TwitterAuthenticator) Config() *oauth1.Config {
	return t.config
}

// Start obtains a request token and builds the provider authorization URL.
// Any provider or network failure is reported as ErrAuthInit; there is no retry.
func (t *TwitterAuthenticator) Start(ctx context.Context) (TwitterAuthStart, error) {
	if err := ctx.Err(); err != nil {
		return TwitterAuthStart{}, errors.Wrap(errors.ErrAuthInit, err.Error())
	}

	requestToken, requestSecret, err := t.config.RequestToken()
	if err != nil {
		return TwitterAuthStart{}, errors.Wrapf(errors.ErrAuthInit, "[TwitterAuthenticator Start] request token: %v", err)
	}

	authURL, err := t.config.AuthorizationURL(requestToken)
	if err != nil {
		return TwitterAuthStart{}, errors.Wrapf(errors.ErrAuthInit, "[TwitterAuthenticator Start] authorization url: %v", err)
	}

	return TwitterAuthStart{
		AuthorizationURL: authURL.String(),
		RequestToken:     requestToken,
		RequestSecret:    requestSecret,
	}, nil
}

// Complete exchanges the request token, its stashed secret and the user supplied
// verifier for an access credential and wraps it in a Twitter session.
// All three inputs are required; nothing is sent to the provider otherwise.
func (t *TwitterAuthenticator) Complete(ctx context.Context, requestToken, requestSecret, verifier string) (sessions.Session, error) {
	if requestToken == "" || requestSecret == "" || verifier == "" {
		return sessions.Session{}, errors.Wrap(errors.ErrMissingParameters, "oauth_token, oauth_token_secret and oauth_verifier are required")
	}
	if err := ctx.Err(); err != nil {
		return sessions.Session{}, errors.Wrap(errors.ErrAuthExchangeFailed, err.Error())
	}

	accessToken, accessSecret, err := t.config.AccessToken(requestToken, requestSecret, verifier)
	if err != nil {
		return sessions.Session{}, errors.Wrapf(errors.ErrAuthExchangeFailed, "[TwitterAuthenticator Complete] access token: %v", err)
	}

	session := sessions.Session{
		AccessToken:  accessToken,
		AccessSecret: accessSecret,
		Platform:     sessions.PlatformTwitter,
	}

	userID, err := t.lookupUserID(ctx, accessToken, accessSecret)
	if err != nil {
		// The credential is still good for publishing, so the session is kept.
		log.Warn().Err(err).Msg("twitter user lookup failed")
	}
	session.UserID = userID

	return session, nil
}

// Client returns an HTTP client that signs requests with the session's user credentials.
func (t *TwitterAuthenticator) Client(ctx context.Context, accessToken, accessSecret string) *http.Client {
	ctx = context.WithValue(ctx, oauth1.HTTPClient, t.httpClient)
	return t.config.Client(ctx, oauth1.NewToken(accessToken, accessSecret))
}

func (t *TwitterAuthenticator) lookupUserID(ctx context.Context, accessToken, accessSecret string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.usersMeURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := t.Client(ctx, accessToken, accessSecret).Do(req)
	if err != nil {
		return "", errors.Wrap(err, "[TwitterAuthenticator lookupUserID] request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("[TwitterAuthenticator lookupUserID] %s: %s", resp.Status, data)
	}

	var me struct {
		Data struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		return "", errors.Wrap(err, "[TwitterAuthenticator lookupUserID] decode")
	}
	return me.Data.ID, nil
}
