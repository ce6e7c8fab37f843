package server

func (s *Server) initRoutes() {
	// AUTH
	s.RegisterRouteHandler("GET "+RouteTwitterStart, ChainMiddleware(s.TwitterStartHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteTwitterCallback, ChainMiddleware(s.TwitterCallbackHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteLinkedInStart, ChainMiddleware(s.LinkedInStartHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteLinkedInCallback, ChainMiddleware(s.LinkedInCallbackHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteSession, ChainMiddleware(s.SessionHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))

	// SOCIAL
	s.RegisterRouteHandler("POST "+RouteTwitterTweet, ChainMiddleware(s.TweetHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteTwitterMedia, ChainMiddleware(s.MediaUploadHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RoutePublish, ChainMiddleware(s.PublishHandler(), s.APIMiddleware()...))

	// CONTENT
	s.RegisterRouteHandler("POST "+RouteContentGenerate, ChainMiddleware(s.GenerateHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteContentOptimize, ChainMiddleware(s.OptimizeHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteContentSentiment, ChainMiddleware(s.SentimentHandler(), s.APIMiddleware()...))

	// NEWS
	s.RegisterRouteHandler("GET "+RouteNews, ChainMiddleware(s.NewsHandler(), s.APIMiddleware()...))

	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())

	// Preflight requests for every API route
	s.RegisterRouteHandler("OPTIONS /", ChainMiddleware(s.PreflightHandler(), s.APIMiddleware()...))
}
