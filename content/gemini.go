package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/go-social-publisher/internal/errors"
	"github.com/rs/zerolog/log"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel   = "gemini-2.0-flash"
)

type GeminiOption func(*GeminiClient)

func WithAPIKey(key string) GeminiOption {
	return func(c *GeminiClient) { c.apiKey = key }
}

func WithModel(model string) GeminiOption {
	return func(c *GeminiClient) {
		if model != "" {
			c.model = model
		}
	}
}

func WithBaseURL(baseURL string) GeminiOption {
	return func(c *GeminiClient) { c.baseURL = baseURL }
}

func WithHTTPClient(client *http.Client) GeminiOption {
	return func(c *GeminiClient) { c.httpClient = client }
}

// GeminiClient implements Generator against the Gemini generateContent REST endpoint.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

var _ Generator = (*GeminiClient)(nil)

func NewGeminiClient(opts ...GeminiOption) *GeminiClient {
	c := &GeminiClient{
		model:      DefaultGeminiModel,
		baseURL:    DefaultGeminiBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

func (r geminiResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String()
}

// Generate writes a new post for params.
func (c *GeminiClient) Generate(ctx context.Context, params Params) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}
	return c.generate(ctx, generatePrompt(params), "")
}

// Optimize rewrites text for platform.
func (c *GeminiClient) Optimize(ctx context.Context, text, platform string) (string, error) {
	if strings.TrimSpace(text) == "" || strings.TrimSpace(platform) == "" {
		return "", errors.Wrap(errors.ErrInvalidRequest, "content and platform are required")
	}
	return c.generate(ctx, optimizePrompt(text, platform), "")
}

// AnalyzeSentiment scores text in [-1, 1]. A reply without a usable score is a generation failure.
func (c *GeminiClient) AnalyzeSentiment(ctx context.Context, text string) (Sentiment, error) {
	if strings.TrimSpace(text) == "" {
		return Sentiment{}, errors.Wrap(errors.ErrInvalidRequest, "content is required")
	}
	reply, err := c.generate(ctx, sentimentPrompt(text), "application/json")
	if err != nil {
		return Sentiment{}, err
	}
	score, err := parseScore(reply)
	if err != nil {
		log.Warn().Err(err).Msg("unusable sentiment response")
		return Sentiment{}, errors.Wrap(errors.ErrGenerationFailed, err.Error())
	}
	return Sentiment{Sentiment: LabelFor(score), Score: score}, nil
}

func parseScore(reply string) (float64, error) {
	var analysis struct {
		Score *float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(stripFences(reply)), &analysis); err != nil {
		return 0, fmt.Errorf("invalid sentiment analysis response format: %w", err)
	}
	if analysis.Score == nil {
		return 0, fmt.Errorf("sentiment response has no score")
	}
	if *analysis.Score < -1 || *analysis.Score > 1 {
		return 0, fmt.Errorf("sentiment score %v out of range", *analysis.Score)
	}
	return *analysis.Score, nil
}

// stripFences removes a surrounding markdown code block, as models often add one.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

func (c *GeminiClient) generate(ctx context.Context, prompt, responseMimeType string) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	}
	if responseMimeType != "" {
		payload.GenerationConfig = &geminiGenerationConfig{ResponseMimeType: responseMimeType}
	}
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return "", err
	}

	fullURL := strings.TrimRight(c.baseURL, "/") + "/models/" + url.PathEscape(c.model) + ":generateContent"
	if c.apiKey != "" {
		fullURL += "?key=" + url.QueryEscape(c.apiKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error carries the request URL, which holds the key.
		return "", errors.Wrap(errors.ErrGenerationFailed, "gemini: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", errors.Wrap(errors.ErrGenerationFailed, fmt.Sprintf("gemini: %s: %s", resp.Status, data))
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errors.Wrapf(errors.ErrGenerationFailed, "decode gemini response: %v", err)
	}
	text := out.text()
	if text == "" {
		return "", errors.Wrap(errors.ErrGenerationFailed, "gemini: empty response")
	}
	return text, nil
}
