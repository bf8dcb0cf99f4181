package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// OllamaService implements AnswerService using an Ollama local LLM
type OllamaService struct {
	baseURL string
	model   string
}

// NewOllamaService creates a new Ollama service
func NewOllamaService(baseURL, model string) *OllamaService {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3"
	}
	return &OllamaService{baseURL: baseURL, model: model}
}

// AnswerProductQuery implements AnswerService
func (o *OllamaService) AnswerProductQuery(ctx context.Context, query string) (string, error) {
	// Same prompt shape as the Gemini provider for consistency across providers
	prompt := fmt.Sprintf(`You are a product research assistant. A user wants to know whether a consumer product is worth buying.

GUIDELINES:
- Summarize what the product is and what it is known for in 2-3 short paragraphs
- Mention the most commonly praised strengths and the most commonly reported weaknesses
- Do not invent prices or availability
- Plain text only, no markdown headings

QUESTION:
%s

SUMMARY:`, query)

	return o.generate(ctx, prompt, 400)
}

// ExtractProductName implements AnswerService
func (o *OllamaService) ExtractProductName(ctx context.Context, query string) (string, error) {
	prompt := fmt.Sprintf(`Identify the single consumer product named in the question below.

Reply with ONLY the canonical product name (brand + model), nothing else.
If no specific product is named, reply with exactly: NONE

QUESTION:
%s`, query)

	out, err := o.generate(ctx, prompt, 30)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" || strings.EqualFold(out, "NONE") {
		return "", nil
	}
	return strings.Trim(out, `"'`), nil
}

func (o *OllamaService) generate(ctx context.Context, prompt string, numPredict int) (string, error) {
	url := o.baseURL + "/api/generate"

	payload := map[string]interface{}{
		"model":  o.model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]interface{}{
			"temperature": 0.3,
			"num_predict": numPredict,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Ollama API error: %s", string(respBody))
	}

	var result struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}

	if result.Response == "" {
		return "", fmt.Errorf("no text returned")
	}
	return strings.TrimSpace(result.Response), nil
}
