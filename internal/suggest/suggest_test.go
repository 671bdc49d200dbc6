package suggest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeGenerator struct {
	text     string
	err      error
	messages []llms.MessageContent
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.text}}}, nil
}

func TestAnalyzeImage(t *testing.T) {
	gen := &fakeGenerator{text: "Here you go:\n```json\n{\"suggestedHeadline\":\"Summer Sale\",\"suggestedPrimaryText\":\"Up to 50% off\",\"suggestedDescription\":\"Ends Sunday\",\"suggestedCta\":\"shop_now\"}\n```"}
	s := New(gen).AnalyzeImage(context.Background(), []byte{0x89, 'P', 'N', 'G'}, "image/png")

	assert.True(t, s.Available)
	assert.Equal(t, "Summer Sale", s.Headline)
	assert.Equal(t, "Up to 50% off", s.PrimaryText)
	assert.Equal(t, "Ends Sunday", s.Description)
	assert.Equal(t, "shop_now", s.CTA)

	require.Len(t, gen.messages, 1)
	require.Len(t, gen.messages[0].Parts, 2)
	image, ok := gen.messages[0].Parts[0].(llms.BinaryContent)
	require.True(t, ok)
	assert.Equal(t, "image/png", image.MIMEType)
}

func TestAnalyzeImageWithoutJSON(t *testing.T) {
	s := New(&fakeGenerator{text: "I cannot help with that image."}).
		AnalyzeImage(context.Background(), []byte("x"), "image/jpeg")

	assert.Equal(t, Fallback(), s)
	assert.False(t, s.Available)
}

func TestAnalyzeImageRequestError(t *testing.T) {
	s := New(&fakeGenerator{err: errors.New("boom")}).
		AnalyzeImage(context.Background(), []byte("x"), "image/jpeg")
	assert.Equal(t, Fallback(), s)
}

func TestAnalyzeImageEmptyContent(t *testing.T) {
	s := New(&fakeGenerator{text: ""}).AnalyzeImage(context.Background(), []byte("x"), "image/jpeg")
	assert.Equal(t, Fallback(), s)
}

func TestDisabledAnalyzer(t *testing.T) {
	a := New(nil)
	assert.False(t, a.Enabled())
	assert.Equal(t, Fallback(), a.AnalyzeImage(context.Background(), []byte("x"), "image/png"))
}

func TestParseDefaults(t *testing.T) {
	s, err := Parse(`{"suggestedHeadline":"Only a headline"}`)
	require.NoError(t, err)
	assert.Equal(t, "Only a headline", s.Headline)
	assert.Equal(t, "", s.PrimaryText)
	assert.Equal(t, "", s.Description)
	assert.Equal(t, "learn_more", s.CTA)
	assert.True(t, s.Available)
}

func TestParseUnknownCTA(t *testing.T) {
	s, err := Parse(`{"suggestedCta":"Buy It"}`)
	require.NoError(t, err)
	assert.Equal(t, "learn_more", s.CTA)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("no braces here")
	assert.ErrorIs(t, err, ErrNoJSON)

	_, err = Parse("{not json}")
	assert.Error(t, err)
}
