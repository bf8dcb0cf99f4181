package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnswerer struct {
	answer string
	name   string
	err    error
}

func (s *stubAnswerer) AnswerProductQuery(ctx context.Context, query string) (string, error) {
	return s.answer, s.err
}

func (s *stubAnswerer) ExtractProductName(ctx context.Context, query string) (string, error) {
	return s.name, s.err
}

func TestFallbackPrefersGemini(t *testing.T) {
	f := NewFallbackService(&stubAnswerer{answer: "gemini answer", name: "Kindle"}, nil)

	answer, err := f.AnswerProductQuery(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "gemini answer", answer)

	name, err := f.ExtractProductName(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "Kindle", name)
}

func TestFallbackErrorsWithNoProvider(t *testing.T) {
	f := NewFallbackService(&stubAnswerer{err: errors.New("429 quota exceeded")}, nil)

	_, err := f.AnswerProductQuery(context.Background(), "q")
	assert.Error(t, err)
}

func TestIsQuotaError(t *testing.T) {
	assert.True(t, isQuotaError(errors.New("googleapi: Error 429: Quota exceeded")))
	assert.True(t, isQuotaError(errors.New("RESOURCE EXHAUSTED")))
	assert.False(t, isQuotaError(errors.New("invalid request body")))
	assert.False(t, isQuotaError(nil))
}

func TestIsConnectionError(t *testing.T) {
	assert.True(t, isConnectionError(errors.New("dial tcp 127.0.0.1:11434: connection refused")))
	assert.True(t, isConnectionError(errors.New("request timeout")))
	assert.False(t, isConnectionError(errors.New("model not found")))
	assert.False(t, isConnectionError(nil))
}
