package server

import (
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-social-publisher/internal/errors"
	"github.com/jrsteele09/go-social-publisher/sessions"
	"github.com/jrsteele09/go-social-publisher/social"
)

// Twitter accepts at most four media items per tweet.
type tweetRequest struct {
	Text     string   `json:"text" validate:"required"`
	MediaIDs []string `json:"media_ids" validate:"max=4,dive,required,numeric"`
}

type tweetResponse struct {
	Data social.Tweet `json:"data"`
}

// TweetHandler posts a tweet with media ids obtained from MediaUploadHandler.
func (s *Server) TweetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.bearerSession(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		var req tweetRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}

		tweet, err := s.services.Publisher.Tweet(r.Context(), session, req.Text, req.MediaIDs)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, tweetResponse{Data: tweet})
	}
}

type mediaUploadResponse struct {
	MediaIDString string `json:"media_id_string"`
}

// MediaUploadHandler uploads the multipart "media" file to Twitter.
func (s *Server) MediaUploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.bearerSession(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		file, header, err := r.FormFile("media")
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrInvalidRequest, "no media file provided"))
			return
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			s.writeError(w, r, errors.Wrapf(errors.ErrInvalidRequest, "read media: %v", err))
			return
		}

		id, err := s.services.Publisher.UploadTwitterMedia(r.Context(), session, social.Image{
			Data:     data,
			MimeType: header.Header.Get("Content-Type"),
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, mediaUploadResponse{MediaIDString: id})
	}
}

type publishRequest struct {
	Content  string   `json:"content" validate:"required"`
	Platform string   `json:"platform" validate:"required,oneof=twitter linkedin"`
	Images   []string `json:"images" validate:"max=4,dive,required"`
}

// PublishHandler publishes with the session held in the session cookie.
func (s *Server) PublishHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.readSession(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		var req publishRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}

		images := make([]social.Image, 0, len(req.Images))
		for _, raw := range req.Images {
			image, err := parseImage(raw)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			images = append(images, image)
		}

		result, err := s.services.Publisher.Publish(r.Context(), session, social.Post{
			Content:  req.Content,
			Platform: sessions.Platform(req.Platform),
			Images:   images,
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, result)
	}
}

// parseImage accepts a base64 data URL or a LinkedIn asset URN.
func parseImage(raw string) (social.Image, error) {
	if strings.HasPrefix(raw, "urn:li:") {
		return social.Image{Reference: raw}, nil
	}

	rest, ok := strings.CutPrefix(raw, "data:")
	if !ok {
		return social.Image{}, errors.Wrap(errors.ErrInvalidRequest, "images must be data URLs or LinkedIn asset URNs")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return social.Image{}, errors.Wrap(errors.ErrInvalidRequest, "malformed data URL")
	}
	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return social.Image{}, errors.Wrap(errors.ErrInvalidRequest, "data URL must be base64 encoded")
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return social.Image{}, errors.Wrapf(errors.ErrInvalidRequest, "unsupported media type %q", mimeType)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return social.Image{}, errors.Wrapf(errors.ErrInvalidRequest, "decode image: %v", err)
	}
	return social.Image{Data: data, MimeType: mimeType}, nil
}
