package content

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/go-social-publisher/internal/errors"
)

// Generator produces and evaluates post text.
type Generator interface {
	Generate(ctx context.Context, params Params) (string, error)
	Optimize(ctx context.Context, text, platform string) (string, error)
	AnalyzeSentiment(ctx context.Context, text string) (Sentiment, error)
}

// Params describes the post to generate.
type Params struct {
	Topic           string   `json:"topic" validate:"required"`
	Platform        string   `json:"platform" validate:"required,oneof=blog twitter linkedin facebook"`
	Tone            string   `json:"tone" validate:"required,oneof=professional casual friendly formal"`
	Length          string   `json:"length" validate:"required,oneof=short medium long"`
	Keywords        []string `json:"keywords,omitempty" validate:"omitempty,dive,required"`
	BrandGuidelines string   `json:"brandGuidelines,omitempty"`
}

var validate = validator.New()

// Validate checks params against the supported platforms, tones and lengths.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return errors.Wrap(errors.ErrInvalidRequest, err.Error())
	}
	return nil
}

// SentimentLabel is the coarse classification of a sentiment score.
type SentimentLabel string

const (
	Positive SentimentLabel = "positive"
	Neutral  SentimentLabel = "neutral"
	Negative SentimentLabel = "negative"
)

// Sentiment thresholds; scores between them are neutral.
const (
	positiveThreshold = 0.2
	negativeThreshold = -0.2
)

// Sentiment is a score in [-1, 1] and its label.
type Sentiment struct {
	Sentiment SentimentLabel `json:"sentiment"`
	Score     float64        `json:"score"`
}

// LabelFor classifies score.
func LabelFor(score float64) SentimentLabel {
	switch {
	case score > positiveThreshold:
		return Positive
	case score < negativeThreshold:
		return Negative
	default:
		return Neutral
	}
}
