package server

import (
	"net/http"

	"github.com/jrsteele09/go-social-publisher/content"
)

type contentResponse struct {
	Content string `json:"content"`
}

func (s *Server) GenerateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params content.Params
		if err := decodeJSON(r, &params); err != nil {
			s.writeError(w, r, err)
			return
		}
		text, err := s.services.Content.Generate(r.Context(), params)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, contentResponse{Content: text})
	}
}

type optimizeRequest struct {
	Content  string `json:"content" validate:"required"`
	Platform string `json:"platform" validate:"required"`
}

func (s *Server) OptimizeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req optimizeRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		text, err := s.services.Content.Optimize(r.Context(), req.Content, req.Platform)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, contentResponse{Content: text})
	}
}

type sentimentRequest struct {
	Content string `json:"content" validate:"required"`
}

func (s *Server) SentimentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sentimentRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		sentiment, err := s.services.Content.AnalyzeSentiment(r.Context(), req.Content)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sentiment)
	}
}
