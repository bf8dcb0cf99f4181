package ai

import (
	"context"
	"fmt"
	"log"
	"net"
	"strings"
)

// FallbackService implements AI provider routing with fallback:
// Gemini first (better quality for both answering and extraction), Ollama
// when Gemini is unreachable or out of quota.
type FallbackService struct {
	gemini AnswerService
	ollama *OllamaService
}

// NewFallbackService creates a new fallback service with both providers
func NewFallbackService(gemini AnswerService, ollama *OllamaService) *FallbackService {
	return &FallbackService{
		gemini: gemini,
		ollama: ollama,
	}
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	if _, ok := err.(net.Error); ok {
		return true
	}

	errStr := strings.ToLower(err.Error())
	connectionIndicators := []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	}

	for _, indicator := range connectionIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	quotaIndicators := []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
	}

	for _, indicator := range quotaIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}

// AnswerProductQuery tries Gemini first, falls back to Ollama on quota or
// connection errors.
func (f *FallbackService) AnswerProductQuery(ctx context.Context, query string) (string, error) {
	if f.gemini != nil {
		log.Println("[AI] Trying Gemini for product answer...")
		result, err := f.gemini.AnswerProductQuery(ctx, query)
		if err == nil {
			return result, nil
		}

		if isQuotaError(err) {
			log.Printf("[AI] Gemini quota exhausted: %v, falling back to Ollama", err)
		} else {
			log.Printf("[AI] Gemini error: %v, falling back to Ollama", err)
		}
	}

	if f.ollama != nil {
		log.Println("[AI] Using Ollama for product answer...")
		result, err := f.ollama.AnswerProductQuery(ctx, query)
		if err == nil {
			return result, nil
		}

		if isConnectionError(err) && f.gemini != nil {
			log.Printf("[AI] Ollama connection failed: %v, retrying Gemini", err)
			return f.gemini.AnswerProductQuery(ctx, query)
		}

		return "", fmt.Errorf("ollama answer failed: %w", err)
	}

	return "", fmt.Errorf("no AI provider available")
}

// ExtractProductName tries Gemini first, falls back to Ollama.
func (f *FallbackService) ExtractProductName(ctx context.Context, query string) (string, error) {
	if f.gemini != nil {
		result, err := f.gemini.ExtractProductName(ctx, query)
		if err == nil {
			return result, nil
		}

		if isQuotaError(err) {
			log.Printf("[AI] Gemini quota exhausted for extraction: %v, falling back to Ollama", err)
		} else {
			log.Printf("[AI] Gemini error for extraction: %v, falling back to Ollama", err)
		}
	}

	if f.ollama != nil {
		result, err := f.ollama.ExtractProductName(ctx, query)
		if err == nil {
			return result, nil
		}

		if isConnectionError(err) && f.gemini != nil {
			log.Printf("[AI] Ollama connection failed for extraction: %v, retrying Gemini", err)
			return f.gemini.ExtractProductName(ctx, query)
		}

		return "", fmt.Errorf("ollama extraction failed: %w", err)
	}

	return "", fmt.Errorf("no AI provider available")
}
