package news

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/go-social-publisher/internal/errors"
)

// Query defaults
const (
	DefaultCountry  = "us"
	DefaultCategory = "technology"
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Domain keyword filters
const (
	DomainAll     = "all"
	DomainTech    = "tech"
	DomainFintech = "fintech"
	DomainAI      = "ai"
	DomainAgri    = "agri"
)

var domainKeywords = map[string][]string{
	DomainTech:    {"technology", "software", "digital"},
	DomainFintech: {"fintech", "finance", "banking"},
	DomainAI:      {"ai", "artificial intelligence", "machine learning"},
	DomainAgri:    {"agriculture", "farming", "crop"},
}

// Provider supplies headline pages used as content ideas.
type Provider interface {
	TopHeadlines(ctx context.Context, query Query) (Page, error)
}

type Query struct {
	Country  string `validate:"len=2,alpha"`
	Category string `validate:"oneof=business entertainment general health science sports technology"`
	Domain   string `validate:"oneof=all tech fintech ai agri"`
	Page     int    `validate:"min=1"`
	PageSize int    `validate:"min=1,max=100"`
}

var validate = validator.New()

// Normalize fills defaults and validates the result.
func (q Query) Normalize() (Query, error) {
	q.Country = strings.ToLower(strings.TrimSpace(q.Country))
	if q.Country == "" {
		q.Country = DefaultCountry
	}
	q.Category = strings.ToLower(strings.TrimSpace(q.Category))
	if q.Category == "" {
		q.Category = DefaultCategory
	}
	q.Domain = strings.ToLower(strings.TrimSpace(q.Domain))
	if q.Domain == "" {
		q.Domain = DomainAll
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	if err := validate.Struct(q); err != nil {
		return Query{}, errors.Wrap(errors.ErrInvalidRequest, err.Error())
	}
	return q, nil
}

type Source struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type Article struct {
	Source      Source `json:"source"`
	Author      string `json:"author,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage,omitempty"`
	PublishedAt string `json:"publishedAt"`
}

// Page is one page of headlines. TotalResults is the provider's count before
// any domain filtering.
type Page struct {
	Articles     []Article `json:"articles"`
	TotalResults int       `json:"totalResults"`
	Page         int       `json:"page"`
	PageSize     int       `json:"pageSize"`
}

// FilterByDomain keeps articles whose title or description mentions one of
// domain's keywords. Unknown domains and "all" keep everything.
func FilterByDomain(articles []Article, domain string) []Article {
	keywords, ok := domainKeywords[domain]
	if !ok {
		return articles
	}
	filtered := make([]Article, 0, len(articles))
	for _, a := range articles {
		text := strings.ToLower(a.Title + " " + a.Description)
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				filtered = append(filtered, a)
				break
			}
		}
	}
	return filtered
}
