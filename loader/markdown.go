package loader

import (
	"context"
	"html"
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/microcosm-cc/bluemonday"
	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
)

// Markdown loads markdown text as one plain-text document: the source is
// rendered to HTML and then stripped of all markup.
type Markdown struct {
	r io.Reader
}

var _ documentloaders.Loader = Markdown{}

// NewMarkdown creates a markdown loader from a reader.
func NewMarkdown(r io.Reader) Markdown {
	return Markdown{r: r}
}

// Load implements documentloaders.Loader.
func (m Markdown) Load(_ context.Context) ([]schema.Document, error) {
	data, err := io.ReadAll(m.r)
	if err != nil {
		return nil, err
	}

	rendered := markdown.ToHTML(data, nil, nil)
	text := bluemonday.StrictPolicy().Sanitize(string(rendered))
	text = html.UnescapeString(text)
	text = collapseBlankLines(text)

	return []schema.Document{
		{
			PageContent: text,
			Metadata:    map[string]any{"format": "markdown"},
		},
	}, nil
}

// LoadAndSplit loads the document and splits it with the given splitter.
func (m Markdown) LoadAndSplit(ctx context.Context, splitter textsplitter.TextSplitter) ([]schema.Document, error) {
	docs, err := m.Load(ctx)
	if err != nil {
		return nil, err
	}
	return textsplitter.SplitDocuments(splitter, docs)
}

// collapseBlankLines trims every line and squeezes runs of blank lines
// into one.
func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := true
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
