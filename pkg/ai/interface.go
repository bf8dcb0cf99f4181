package ai

import "context"

// AnswerService is the interface for AI product-query answering.
// Implement this interface to add new AI providers (Gemini, Ollama, OpenAI, etc.)
type AnswerService interface {
	// AnswerProductQuery returns a consumer-facing summary for a free-text
	// product question.
	AnswerProductQuery(ctx context.Context, query string) (string, error)
	// ExtractProductName returns the canonical product name mentioned in the
	// query, or "" when none can be identified.
	ExtractProductName(ctx context.Context, query string) (string, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)
