package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type GeminiService struct {
	ApiKey string
}

func NewGeminiService(apiKey string) *GeminiService {
	return &GeminiService{ApiKey: apiKey}
}

// AnswerProductQuery asks gemini-2.5-flash for a buying-decision summary.
func (g *GeminiService) AnswerProductQuery(ctx context.Context, query string) (string, error) {
	prompt := fmt.Sprintf(`You are a product research assistant. A user wants to know whether a consumer product is worth buying.

GUIDELINES:
- Summarize what the product is and what it is known for in 2-3 short paragraphs
- Mention the most commonly praised strengths and the most commonly reported weaknesses
- Do not invent prices or availability
- Plain text only, no markdown headings

QUESTION:
%s

SUMMARY:`, query)

	return g.generate(ctx, prompt)
}

// ExtractProductName asks the model for the canonical product name in the
// query. Returns "" when the model reports none.
func (g *GeminiService) ExtractProductName(ctx context.Context, query string) (string, error) {
	prompt := fmt.Sprintf(`Identify the single consumer product named in the question below.

Reply with ONLY the canonical product name (brand + model), nothing else.
If no specific product is named, reply with exactly: NONE

QUESTION:
%s`, query)

	out, err := g.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" || strings.EqualFold(out, "NONE") {
		return "", nil
	}
	// Models occasionally quote the answer.
	return strings.Trim(out, `"'`), nil
}

func (g *GeminiService) generate(ctx context.Context, prompt string) (string, error) {
	// Use gemini-2.5-flash for fast generation
	url := "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent?key=" + g.ApiKey

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}

	body, _ := json.Marshal(payload)
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

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Gemini API error: %s", string(respBody))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}

	// Parse text from response
	if c, ok := result["candidates"].([]interface{}); ok && len(c) > 0 {
		if cand, ok := c[0].(map[string]interface{}); ok {
			if content, ok := cand["content"].(map[string]interface{}); ok {
				if parts, ok := content["parts"].([]interface{}); ok && len(parts) > 0 {
					if part, ok := parts[0].(map[string]interface{}); ok {
						if text, ok := part["text"].(string); ok {
							return text, nil
						}
					}
				}
			}
		}
	}
	return "", fmt.Errorf("no text returned")
}
