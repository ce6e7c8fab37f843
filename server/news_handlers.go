package server

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/jrsteele09/go-social-publisher/internal/errors"
	"github.com/jrsteele09/go-social-publisher/news"
)

// NewsHandler serves a page of headlines for content ideas.
func (s *Server) NewsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := newsQuery(r.URL.Query())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		page, err := s.services.News.TopHeadlines(r.Context(), query)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func newsQuery(values url.Values) (news.Query, error) {
	query := news.Query{
		Country:  values.Get("country"),
		Category: values.Get("category"),
		Domain:   values.Get("domain"),
	}
	var err error
	if query.Page, err = optionalInt(values, "page"); err != nil {
		return news.Query{}, err
	}
	if query.PageSize, err = optionalInt(values, "pageSize"); err != nil {
		return news.Query{}, err
	}
	return query, nil
}

func optionalInt(values url.Values, name string) (int, error) {
	raw := values.Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInvalidRequest, "%s must be an integer", name)
	}
	return n, nil
}
