package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-social-publisher/auth"
	"github.com/jrsteele09/go-social-publisher/internal/errors"
	"github.com/jrsteele09/go-social-publisher/sessions"
	"github.com/stretchr/testify/require"
)

const (
	testLinkedInClientID     = "li-client"
	testLinkedInClientSecret = "li-secret"
	testLinkedInRedirect     = "http://localhost:8080/auth/linkedin/callback"
)

// fakeLinkedIn is an in-process LinkedIn token and userinfo server.
type fakeLinkedIn struct {
	server        *httptest.Server
	tokenCalls    atomic.Int32
	userInfoCalls atomic.Int32
	tokenStatus   int
	lastForm      url.Values
}

func newFakeLinkedIn(t *testing.T) *fakeLinkedIn {
	t.Helper()
	f := &fakeLinkedIn{tokenStatus: http.StatusOK}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/v2/accessToken", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		_ = r.ParseForm()
		f.lastForm = r.PostForm
		if f.tokenStatus != http.StatusOK {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.tokenStatus)
			_, _ = w.Write([]byte(`{"error":"invalid_request","error_description":"bad code"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
	})
	mux.HandleFunc("GET /v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		f.userInfoCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sub":"member-42","name":"Ada Lovelace"}`))
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeLinkedIn) endpoints() auth.LinkedInEndpoints {
	return auth.LinkedInEndpoints{
		AuthURL:     auth.LinkedInAuthURL,
		TokenURL:    f.server.URL + "/oauth/v2/accessToken",
		UserInfoURL: f.server.URL + "/v2/userinfo",
	}
}

func newTestLinkedInAuthenticator(f *fakeLinkedIn, now time.Time) *auth.LinkedInAuthenticator {
	return auth.NewLinkedInAuthenticator(testLinkedInClientID, testLinkedInClientSecret, testLinkedInRedirect,
		auth.WithLinkedInEndpoints(f.endpoints()),
		auth.WithLinkedInHTTPClient(f.server.Client()),
		auth.WithNowTime(func() time.Time { return now }),
	)
}

func TestLinkedInStartBuildsAuthorizationURL(t *testing.T) {
	f := newFakeLinkedIn(t)
	a := newTestLinkedInAuthenticator(f, time.Now())

	start, err := a.Start()
	require.NoError(t, err)
	require.NotEmpty(t, start.State)

	u, err := url.Parse(start.AuthorizationURL)
	require.NoError(t, err)
	require.Equal(t, "www.linkedin.com", u.Host)
	require.Equal(t, "/oauth/v2/authorization", u.Path)

	q := u.Query()
	require.Equal(t, "code", q.Get("response_type"))
	require.Equal(t, testLinkedInClientID, q.Get("client_id"))
	require.Equal(t, testLinkedInRedirect, q.Get("redirect_uri"))
	require.Equal(t, start.State, q.Get("state"))
	require.Equal(t, "openid profile w_member_social", q.Get("scope"))

	// A new attempt never reuses the previous state.
	next, err := a.Start()
	require.NoError(t, err)
	require.NotEqual(t, start.State, next.State)
	require.GreaterOrEqual(t, len(start.State), 43)
}

func TestLinkedInCompleteRejectsStateMismatchWithoutNetworkCall(t *testing.T) {
	f := newFakeLinkedIn(t)
	a := newTestLinkedInAuthenticator(f, time.Now())

	tests := []struct {
		name        string
		state       string
		storedState string
	}{
		{"different state", "attacker-state", "stored-state"},
		{"nothing stored", "some-state", ""},
		{"prefix of stored", "stored", "stored-state"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Complete(context.Background(), "C", tt.state, tt.storedState)
			require.ErrorIs(t, err, errors.ErrInvalidState)
		})
	}
	require.Zero(t, f.tokenCalls.Load())
	require.Zero(t, f.userInfoCalls.Load())
}

func TestLinkedInCompleteMissingParameters(t *testing.T) {
	f := newFakeLinkedIn(t)
	a := newTestLinkedInAuthenticator(f, time.Now())

	_, err := a.Complete(context.Background(), "", "S", "S")
	require.ErrorIs(t, err, errors.ErrMissingParameters)
	_, err = a.Complete(context.Background(), "C", "", "")
	require.ErrorIs(t, err, errors.ErrMissingParameters)
	require.Zero(t, f.tokenCalls.Load())
}

func TestLinkedInEndToEnd(t *testing.T) {
	f := newFakeLinkedIn(t)
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	a := newTestLinkedInAuthenticator(f, now)

	start, err := a.Start()
	require.NoError(t, err)
	u, err := url.Parse(start.AuthorizationURL)
	require.NoError(t, err)
	state := u.Query().Get("state")

	session, err := a.Complete(context.Background(), "C", state, start.State)
	require.NoError(t, err)

	require.Equal(t, "tok", session.AccessToken)
	require.Equal(t, sessions.PlatformLinkedIn, session.Platform)
	require.Equal(t, "member-42", session.UserID)
	require.NotNil(t, session.ExpiresAt)
	require.Equal(t, now.UnixMilli()+3600000, *session.ExpiresAt)

	require.Equal(t, int32(1), f.tokenCalls.Load())
	require.Equal(t, "authorization_code", f.lastForm.Get("grant_type"))
	require.Equal(t, "C", f.lastForm.Get("code"))
	require.Equal(t, testLinkedInRedirect, f.lastForm.Get("redirect_uri"))
	require.Equal(t, testLinkedInClientID, f.lastForm.Get("client_id"))
	require.Equal(t, testLinkedInClientSecret, f.lastForm.Get("client_secret"))
}

func TestLinkedInTokenExchangeFailure(t *testing.T) {
	f := newFakeLinkedIn(t)
	f.tokenStatus = http.StatusBadRequest
	a := newTestLinkedInAuthenticator(f, time.Now())

	_, err := a.Complete(context.Background(), "C", "S", "S")
	require.ErrorIs(t, err, errors.ErrTokenExchangeFailed)
	require.Equal(t, int32(1), f.tokenCalls.Load())
	require.Zero(t, f.userInfoCalls.Load())
}

func TestLinkedInUserInfoFailureKeepsSession(t *testing.T) {
	f := newFakeLinkedIn(t)
	endpoints := f.endpoints()
	endpoints.UserInfoURL = f.server.URL + "/missing"
	a := auth.NewLinkedInAuthenticator(testLinkedInClientID, testLinkedInClientSecret, testLinkedInRedirect,
		auth.WithLinkedInEndpoints(endpoints),
		auth.WithLinkedInHTTPClient(f.server.Client()),
	)

	session, err := a.Complete(context.Background(), "C", "S", "S")
	require.NoError(t, err)
	require.Equal(t, "tok", session.AccessToken)
	require.Empty(t, session.UserID)
}
