package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-social-publisher/auth"
	"github.com/jrsteele09/go-social-publisher/content"
	"github.com/jrsteele09/go-social-publisher/internal/config"
	"github.com/jrsteele09/go-social-publisher/news"
	"github.com/jrsteele09/go-social-publisher/sessions"
	"github.com/jrsteele09/go-social-publisher/social"
	"github.com/rs/zerolog/log"
)

// TwitterAuth runs the OAuth 1.0a three-legged flow.
type TwitterAuth interface {
	Start(ctx context.Context) (auth.TwitterAuthStart, error)
	Complete(ctx context.Context, requestToken, requestSecret, verifier string) (sessions.Session, error)
}

// LinkedInAuth runs the OAuth 2.0 authorization code flow.
type LinkedInAuth interface {
	Start() (auth.LinkedInAuthStart, error)
	Complete(ctx context.Context, code, state, storedState string) (sessions.Session, error)
}

// Publisher sends posts with a session's credentials.
type Publisher interface {
	Publish(ctx context.Context, session sessions.Session, post social.Post) (social.Result, error)
	UploadTwitterMedia(ctx context.Context, session sessions.Session, image social.Image) (string, error)
	Tweet(ctx context.Context, session sessions.Session, text string, mediaIDs []string) (social.Tweet, error)
}

// Services are the collaborators the HTTP handlers delegate to.
type Services struct {
	TwitterAuth  TwitterAuth
	LinkedInAuth LinkedInAuth
	Publisher    Publisher
	Content      content.Generator
	News         news.Provider
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithNowTime overrides the clock used for session expiry checks.
func WithNowTime(nowFunc func() time.Time) ServerOption {
	return func(s *Server) {
		s.nowFunc = nowFunc
	}
}

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	codec    *sessions.Codec
	services Services
	nowFunc  func() time.Time
}

// New builds a Server with every route registered against services.
func New(cfg config.Config, services Services, opts ...ServerOption) (*Server, error) {
	s := &Server{
		env:      cfg.GetEnv(),
		mux:      http.NewServeMux(),
		config:   cfg,
		services: services,
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	codec, err := sessions.NewCodec(cfg.GetSessionSecret(),
		sessions.WithMaxAge(cfg.GetSessionMaxAge()),
		sessions.WithNowTime(s.nowFunc),
	)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create session codec: %w", err)
	}
	s.codec = codec
	if !codec.Signed() {
		log.Warn().Msg("SESSION_SECRET not set, session cookies are unsigned")
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != config.DevEnv {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	color, ok := methodColors[method]
	if !ok {
		color = Gray
	}
	log.Debug().Msgf("[%-19s] %s", color+paddedMethod+ResetColor, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
