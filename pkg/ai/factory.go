package ai

import (
	"fmt"

	"proview-backend/pkg/gemini"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType // "gemini", "ollama" or "auto"

	// Gemini config
	GeminiAPIKey string

	// Ollama config
	OllamaBaseURL string // e.g., "http://localhost:11434"
	OllamaModel   string // e.g., "llama3", "mistral"
}

// NewAnswerService creates an AnswerService based on the config
// This is the factory function - switch AI provider by changing config.Provider
func NewAnswerService(cfg Config) (AnswerService, error) {
	switch cfg.Provider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return gemini.NewGeminiService(cfg.GeminiAPIKey), nil

	case ProviderOllama:
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel), nil

	default:
		// "auto": both providers with fallback routing when a Gemini key is
		// available, Ollama alone otherwise.
		if cfg.GeminiAPIKey != "" {
			g := gemini.NewGeminiService(cfg.GeminiAPIKey)
			o := NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel)
			return NewFallbackService(g, o), nil
		}
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel), nil
	}
}
