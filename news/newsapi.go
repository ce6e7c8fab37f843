package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jrsteele09/go-social-publisher/internal/errors"
)

const DefaultNewsAPIBaseURL = "https://newsapi.org/v2"

// NewsAPIClient reads top headlines from newsapi.org.
type NewsAPIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ Provider = (*NewsAPIClient)(nil)

// NewNewsAPIClient creates a client. An empty baseURL selects production and a
// nil httpClient a client with a 30 second timeout.
func NewNewsAPIClient(apiKey, baseURL string, httpClient *http.Client) *NewsAPIClient {
	if baseURL == "" {
		baseURL = DefaultNewsAPIBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &NewsAPIClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

type newsAPIResponse struct {
	Status       string    `json:"status"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

// TopHeadlines fetches one page of headlines and applies the domain filter.
func (c *NewsAPIClient) TopHeadlines(ctx context.Context, query Query) (Page, error) {
	query, err := query.Normalize()
	if err != nil {
		return Page{}, err
	}

	params := url.Values{}
	params.Set("country", query.Country)
	params.Set("category", query.Category)
	params.Set("page", strconv.Itoa(query.Page))
	params.Set("pageSize", strconv.Itoa(query.PageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/top-headlines?"+params.Encode(), nil)
	if err != nil {
		return Page{}, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Page{}, errors.Wrapf(errors.ErrNewsUnavailable, "newsapi: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Page{}, errors.Wrap(errors.ErrNewsUnavailable, fmt.Sprintf("newsapi: %s: %s", resp.Status, data))
	}

	var out newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Page{}, errors.Wrapf(errors.ErrNewsUnavailable, "decode newsapi response: %v", err)
	}
	if out.Status != "ok" {
		return Page{}, errors.Wrapf(errors.ErrNewsUnavailable, "newsapi: %s: %s", out.Code, out.Message)
	}

	articles := FilterByDomain(out.Articles, query.Domain)
	if articles == nil {
		articles = []Article{}
	}
	return Page{
		Articles:     articles,
		TotalResults: out.TotalResults,
		Page:         query.Page,
		PageSize:     query.PageSize,
	}, nil
}
