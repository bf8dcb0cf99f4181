package search

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// Source is a single web citation attached to an AI answer.
type Source struct {
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Title   string `json:"title"`
}

// SourceSearcher finds web citations for a product query.
type SourceSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]Source, error)
}

// GoogleSearcher implements SourceSearcher on the Google Custom Search API.
type GoogleSearcher struct {
	service  *customsearch.Service
	engineID string
}

func NewGoogleSearcher(apiKey, engineID string) (*GoogleSearcher, error) {
	if apiKey == "" || engineID == "" {
		return nil, fmt.Errorf("SEARCH_API_KEY and SEARCH_ENGINE_ID are required")
	}

	svc, err := customsearch.NewService(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create search service: %w", err)
	}

	return &GoogleSearcher{service: svc, engineID: engineID}, nil
}

func (g *GoogleSearcher) Search(ctx context.Context, query string, limit int) ([]Source, error) {
	if limit <= 0 || limit > 10 {
		limit = 5
	}

	resp, err := g.service.Cse.List().
		Q(query).
		Cx(g.engineID).
		Num(int64(limit)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	sources := make([]Source, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Link == "" {
			continue
		}
		sources = append(sources, Source{
			Link:    item.Link,
			Snippet: item.Snippet,
			Title:   item.Title,
		})
	}

	log.Printf("[Search] %d sources for query %q", len(sources), query)
	return sources, nil
}
