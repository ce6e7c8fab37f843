package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/jrsteele09/go-social-publisher/auth"
	"github.com/jrsteele09/go-social-publisher/content"
	"github.com/jrsteele09/go-social-publisher/internal/config"
	"github.com/jrsteele09/go-social-publisher/news"
	"github.com/jrsteele09/go-social-publisher/server"
	"github.com/jrsteele09/go-social-publisher/social"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	c := config.New()
	setupLogger(c)

	if err := config.Validate(c); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if err := run(c); err != nil {
		log.Fatal().Err(err).Msg("error running server")
	}
	log.Info().Msg("server stopped")
}

func run(c config.Config) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("panic", fmt.Sprint(r)).Bytes("stack", debug.Stack()).Msg("recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	displayAppname(c.GetAppName())

	handler, err := server.New(c, newServices(c))
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- listenAndServe(srv)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(srv)
}

// newServices wires the provider clients. All outbound calls share one client
// so HTTP_CLIENT_TIMEOUT applies everywhere.
func newServices(c config.Config) server.Services {
	httpClient := &http.Client{Timeout: c.GetHTTPClientTimeout()}
	baseURL := c.GetBaseURL()

	twitterAuth := auth.NewTwitterAuthenticator(
		c.GetTwitterAPIKey(),
		c.GetTwitterAPISecret(),
		baseURL+server.RouteTwitterCallback,
		auth.WithTwitterHTTPClient(httpClient),
	)
	linkedInAuth := auth.NewLinkedInAuthenticator(
		c.GetLinkedInClientID(),
		c.GetLinkedInClientSecret(),
		baseURL+server.RouteLinkedInCallback,
		auth.WithLinkedInHTTPClient(httpClient),
	)

	return server.Services{
		TwitterAuth:  twitterAuth,
		LinkedInAuth: linkedInAuth,
		Publisher: social.NewPublisher(
			social.NewTwitterClient(twitterAuth),
			social.NewLinkedInClient("", httpClient),
		),
		Content: content.NewGeminiClient(
			content.WithAPIKey(c.GetGeminiAPIKey()),
			content.WithModel(c.GetGeminiModel()),
			content.WithHTTPClient(httpClient),
		),
		News: news.NewNewsAPIClient(c.GetNewsAPIKey(), "", httpClient),
	}
}

func setupLogger(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if c.GetEnv() == config.DevEnv {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	zerolog.DefaultContextLogger = &log.Logger
}

func listenAndServe(srv *http.Server) error {
	log.Info().Str("addr", srv.Addr).Msg("server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
