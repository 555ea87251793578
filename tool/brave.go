package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// BraveSearch is a tool that queries the Brave Search API.
type BraveSearch struct {
	APIKey  string
	BaseURL string
	Count   int
	Country string
	Lang    string

	client *http.Client
}

// BraveOption configures a BraveSearch tool.
type BraveOption func(*BraveSearch)

// WithBraveBaseURL sets the base URL for the Brave Search API.
func WithBraveBaseURL(baseURL string) BraveOption {
	return func(b *BraveSearch) {
		b.BaseURL = baseURL
	}
}

// WithBraveCount sets the number of results to return (1-20).
func WithBraveCount(count int) BraveOption {
	return func(b *BraveSearch) {
		if count < 1 {
			count = 1
		}
		if count > 20 {
			count = 20
		}
		b.Count = count
	}
}

// WithBraveCountry sets the country code for search results (e.g., "US").
func WithBraveCountry(country string) BraveOption {
	return func(b *BraveSearch) {
		b.Country = country
	}
}

// WithBraveLang sets the language code for search results (e.g., "en").
func WithBraveLang(lang string) BraveOption {
	return func(b *BraveSearch) {
		b.Lang = lang
	}
}

// NewBraveSearch creates a new BraveSearch tool. If apiKey is empty it
// falls back to the BRAVE_API_KEY environment variable.
func NewBraveSearch(apiKey string, opts ...BraveOption) (*BraveSearch, error) {
	if apiKey == "" {
		apiKey = os.Getenv("BRAVE_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("BRAVE_API_KEY not set")
	}

	b := &BraveSearch{
		APIKey:  apiKey,
		BaseURL: "https://api.search.brave.com/res/v1/web/search",
		Count:   10,
		Country: "US",
		Lang:    "en",
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Name returns the name of the tool.
func (b *BraveSearch) Name() string {
	return "Search"
}

// Description returns the description of the tool.
func (b *BraveSearch) Description() string {
	return "A web search engine. Useful for finding current information. " +
		"Input should be a search query."
}

// Call executes the search.
func (b *BraveSearch) Call(ctx context.Context, input string) (string, error) {
	params := url.Values{}
	params.Set("q", input)
	params.Set("count", fmt.Sprintf("%d", b.Count))
	if b.Country != "" {
		params.Set("country", b.Country)
	}
	if b.Lang != "" {
		params.Set("search_lang", b.Lang)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.APIKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("brave api returned status: %d", resp.StatusCode)
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	var sb strings.Builder
	if web, ok := result["web"].(map[string]any); ok {
		if results, ok := web["results"].([]any); ok {
			for i, r := range results {
				item, ok := r.(map[string]any)
				if !ok {
					continue
				}
				title, _ := item["title"].(string)
				link, _ := item["url"].(string)
				description, _ := item["description"].(string)
				sb.WriteString(fmt.Sprintf("%d. Title: %s\nURL: %s\nDescription: %s\n\n",
					i+1, title, link, description))
			}
		}
	}

	if sb.Len() == 0 {
		return "No results found", nil
	}
	return sb.String(), nil
}
