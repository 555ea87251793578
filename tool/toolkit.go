package tool

import (
	"github.com/tmc/langchaingo/tools"
)

// SearchToolkit bundles the web search tool with a calculator. When the
// engine constructs a toolkit, it unpacks the toolkit into its tools, so
// downstream nodes receive the tool sequence rather than the toolkit
// object.
type SearchToolkit struct {
	search *BraveSearch
}

// NewSearchToolkit creates the toolkit. The api key configures the search
// tool, falling back to the environment as NewBraveSearch does.
func NewSearchToolkit(apiKey string, opts ...BraveOption) (*SearchToolkit, error) {
	search, err := NewBraveSearch(apiKey, opts...)
	if err != nil {
		return nil, err
	}
	return &SearchToolkit{search: search}, nil
}

// GetTools returns the toolkit's tools in a stable order.
func (k *SearchToolkit) GetTools() []tools.Tool {
	return []tools.Tool{k.search, tools.Calculator{}}
}
