package loader

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
)

// Web loads one web page as a plain-text document.
type Web struct {
	URL    string
	Client *http.Client
}

var _ documentloaders.Loader = Web{}

// NewWeb creates a web page loader for the given URL.
func NewWeb(url string) Web {
	return Web{URL: url, Client: http.DefaultClient}
}

// Load fetches the page, drops script/style subtrees, and extracts the
// visible text. The page URL and title end up in the document metadata.
func (w Web) Load(ctx context.Context) ([]schema.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.URL, nil)
	if err != nil {
		return nil, err
	}

	client := w.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", w.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", w.URL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", w.URL, err)
	}

	doc.Find("script, style, noscript").Remove()
	title := strings.TrimSpace(doc.Find("title").First().Text())

	body := doc.Find("body")
	text := body.Text()
	if body.Length() == 0 {
		text = doc.Text()
	}

	return []schema.Document{
		{
			PageContent: collapseBlankLines(text),
			Metadata: map[string]any{
				"source": w.URL,
				"title":  title,
			},
		},
	}, nil
}

// LoadAndSplit loads the page and splits it with the given splitter.
func (w Web) LoadAndSplit(ctx context.Context, splitter textsplitter.TextSplitter) ([]schema.Document, error) {
	docs, err := w.Load(ctx)
	if err != nil {
		return nil, err
	}
	return textsplitter.SplitDocuments(splitter, docs)
}
