package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteIndex = "/"

	// Auth Routes - Twitter (OAuth 1.0a)
	RouteTwitterStart    = "/auth/twitter/start"
	RouteTwitterCallback = "/auth/twitter/callback"

	// Auth Routes - LinkedIn (OAuth 2.0)
	RouteLinkedInStart    = "/auth/linkedin/start"
	RouteLinkedInCallback = "/auth/linkedin/callback"

	// Auth Routes - Session
	RouteSession = "/auth/session"
	RouteLogout  = "/auth/logout"

	// Social Routes
	RouteTwitterTweet = "/social/twitter/tweet"
	RouteTwitterMedia = "/social/twitter/media"
	RoutePublish      = "/social/publish"

	// Content Routes
	RouteContentGenerate  = "/content/generate"
	RouteContentOptimize  = "/content/optimize"
	RouteContentSentiment = "/content/sentiment"

	// News Routes
	RouteNews = "/news"

	RouteHealth = "/healthz"
)

// authStartRoutes maps a platform to the route that starts its OAuth flow.
var authStartRoutes = map[string]string{
	"twitter":  RouteTwitterStart,
	"linkedin": RouteLinkedInStart,
}
