package server_test

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-social-publisher/auth"
	"github.com/jrsteele09/go-social-publisher/content"
	"github.com/jrsteele09/go-social-publisher/internal/errors"
	"github.com/jrsteele09/go-social-publisher/news"
	"github.com/jrsteele09/go-social-publisher/sessions"
	"github.com/jrsteele09/go-social-publisher/social"
)

type fakeTwitterAuth struct {
	startErr    error
	completeErr error
	gotToken    string
	gotSecret   string
	gotVerifier string
	calls       int
}

func (f *fakeTwitterAuth) Start(context.Context) (auth.TwitterAuthStart, error) {
	if f.startErr != nil {
		return auth.TwitterAuthStart{}, f.startErr
	}
	return auth.TwitterAuthStart{
		AuthorizationURL: "https://api.twitter.com/oauth/authorize?oauth_token=req-token",
		RequestToken:     "req-token",
		RequestSecret:    "req-secret",
	}, nil
}

func (f *fakeTwitterAuth) Complete(_ context.Context, token, secret, verifier string) (sessions.Session, error) {
	f.gotToken, f.gotSecret, f.gotVerifier = token, secret, verifier
	if token == "" || secret == "" || verifier == "" {
		return sessions.Session{}, errors.ErrMissingParameters
	}
	f.calls++
	if f.completeErr != nil {
		return sessions.Session{}, f.completeErr
	}
	return sessions.Session{
		AccessToken:  "tw-access",
		AccessSecret: "tw-access-secret",
		Platform:     sessions.PlatformTwitter,
		UserID:       "783214",
	}, nil
}

type fakeLinkedInAuth struct {
	gotCode        string
	gotState       string
	gotStoredState string
	calls          int
}

func (f *fakeLinkedInAuth) Start() (auth.LinkedInAuthStart, error) {
	return auth.LinkedInAuthStart{
		AuthorizationURL: "https://www.linkedin.com/oauth/v2/authorization?state=S",
		State:            "S",
	}, nil
}

func (f *fakeLinkedInAuth) Complete(_ context.Context, code, state, storedState string) (sessions.Session, error) {
	f.calls++
	f.gotCode, f.gotState, f.gotStoredState = code, state, storedState
	if code == "" || state == "" {
		return sessions.Session{}, errors.ErrMissingParameters
	}
	if state != storedState {
		return sessions.Session{}, errors.ErrInvalidState
	}
	expiresAt := int64(1893456000000)
	return sessions.Session{
		AccessToken: "li-access",
		Platform:    sessions.PlatformLinkedIn,
		UserID:      "member-1",
		ExpiresAt:   &expiresAt,
	}, nil
}

type fakePublisher struct {
	mu          sync.Mutex
	posts       []social.Post
	uploads     []social.Image
	tweets      [][]string
	publishErr  error
	panicOnPost bool
}

func (f *fakePublisher) Publish(_ context.Context, session sessions.Session, post social.Post) (social.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicOnPost {
		panic("publisher exploded")
	}
	if session.Platform != post.Platform {
		return social.Result{}, errors.ErrPlatformMismatch
	}
	f.posts = append(f.posts, post)
	if f.publishErr != nil {
		return social.Result{}, f.publishErr
	}
	return social.Result{Platform: post.Platform, ID: "post-1"}, nil
}

func (f *fakePublisher) UploadTwitterMedia(_ context.Context, _ sessions.Session, image social.Image) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, image)
	return "1100", nil
}

func (f *fakePublisher) Tweet(_ context.Context, _ sessions.Session, text string, mediaIDs []string) (social.Tweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tweets = append(f.tweets, mediaIDs)
	return social.Tweet{ID: "2200", Text: text}, nil
}

type fakeGenerator struct {
	err    error
	params []content.Params
}

func (f *fakeGenerator) Generate(_ context.Context, params content.Params) (string, error) {
	f.params = append(f.params, params)
	if f.err != nil {
		return "", f.err
	}
	return "generated: " + params.Topic, nil
}

func (f *fakeGenerator) Optimize(_ context.Context, text, platform string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return text + " #" + platform, nil
}

func (f *fakeGenerator) AnalyzeSentiment(context.Context, string) (content.Sentiment, error) {
	if f.err != nil {
		return content.Sentiment{}, f.err
	}
	return content.Sentiment{Sentiment: content.Positive, Score: 0.7}, nil
}

type fakeNews struct {
	err     error
	queries []news.Query
}

func (f *fakeNews) TopHeadlines(_ context.Context, query news.Query) (news.Page, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return news.Page{}, f.err
	}
	return news.Page{
		Articles:     []news.Article{{Title: "Go 1.24 released", URL: "https://go.dev/blog"}},
		TotalResults: 1,
		Page:         1,
		PageSize:     20,
	}, nil
}
