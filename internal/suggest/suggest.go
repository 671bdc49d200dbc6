// Package suggest asks a multimodal model for ad copy matching an image.
package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"

	"draperads/internal/config"
	"draperads/internal/models"
	"draperads/internal/utils/logger"
)

const prompt = `You are an expert social media advertiser. Look at this image and write ad copy for it.
Respond with JSON only, using exactly these keys:
{
  "suggestedHeadline": "a headline of at most 40 characters",
  "suggestedPrimaryText": "primary text of at most 125 characters",
  "suggestedDescription": "a description of at most 30 characters",
  "suggestedCta": "one of learn_more, shop_now, sign_up, book_now, contact_us, download, get_offer, subscribe, apply_now, watch_more"
}`

var (
	ErrNoJSON     = errors.New("response contains no JSON object")
	ErrNoContent  = errors.New("response has no content")
	jsonObjectExp = regexp.MustCompile(`\{[\s\S]*\}`)
)

var log = logger.New("AI")

// Suggestions is ad copy proposed for an image. Available is false when
// the values are the fixed fallback rather than model output.
type Suggestions struct {
	Headline    string `json:"suggestedHeadline"`
	PrimaryText string `json:"suggestedPrimaryText"`
	Description string `json:"suggestedDescription"`
	CTA         string `json:"suggestedCta"`
	Available   bool   `json:"-"`
}

// Fallback is returned whenever analysis fails.
func Fallback() Suggestions {
	return Suggestions{
		Headline:    "Discover Something New",
		PrimaryText: "Check out what we have to offer and find something you'll love.",
		Description: "Learn more today",
		CTA:         models.CTALearnMore,
	}
}

// Generator is the part of an llms.Model the analyzer needs.
type Generator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

type Analyzer struct {
	gen     Generator
	timeout time.Duration
}

func New(gen Generator) *Analyzer {
	return &Analyzer{gen: gen, timeout: 30 * time.Second}
}

// NewAnthropic builds an analyzer on the Anthropic messages API. Without
// an API key the analyzer always falls back.
func NewAnthropic(cfg config.AIConfig) (*Analyzer, error) {
	if cfg.APIKey == "" {
		log.Warn("ANTHROPIC_API_KEY is not set, copy suggestions are disabled")
		return New(nil), nil
	}
	llm, err := anthropic.New(anthropic.WithToken(cfg.APIKey), anthropic.WithModel(cfg.Model))
	if err != nil {
		return nil, log.Error("Failed to create anthropic client", err)
	}
	return New(llm), nil
}

// Enabled reports whether a model is configured.
func (a *Analyzer) Enabled() bool {
	return a != nil && a.gen != nil
}

// AnalyzeImage never fails; errors are logged and yield Fallback().
func (a *Analyzer) AnalyzeImage(ctx context.Context, image []byte, mimeType string) Suggestions {
	if !a.Enabled() {
		return Fallback()
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.gen.GenerateContent(ctx, []llms.MessageContent{{
		Role: llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{
			llms.BinaryPart(mimeType, image),
			llms.TextPart(prompt),
		},
	}}, llms.WithMaxTokens(1024))
	if err != nil {
		log.Error("Image analysis request failed", err)
		return Fallback()
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		log.Error("Image analysis returned nothing", ErrNoContent)
		return Fallback()
	}

	s, err := Parse(resp.Choices[0].Content)
	if err != nil {
		log.Error("Failed to parse image analysis", err)
		return Fallback()
	}
	return s
}

// Parse extracts suggestions from free-form model text.
func Parse(text string) (Suggestions, error) {
	match := jsonObjectExp.FindString(text)
	if match == "" {
		return Suggestions{}, ErrNoJSON
	}

	var raw struct {
		Headline    string `json:"suggestedHeadline"`
		PrimaryText string `json:"suggestedPrimaryText"`
		Description string `json:"suggestedDescription"`
		CTA         string `json:"suggestedCta"`
	}
	if err := json.Unmarshal([]byte(match), &raw); err != nil {
		return Suggestions{}, err
	}

	cta := strings.ToLower(strings.TrimSpace(raw.CTA))
	if !models.IsValidCTA(cta) {
		cta = models.CTALearnMore
	}

	return Suggestions{
		Headline:    strings.TrimSpace(raw.Headline),
		PrimaryText: strings.TrimSpace(raw.PrimaryText),
		Description: strings.TrimSpace(raw.Description),
		CTA:         cta,
		Available:   true,
	}, nil
}
