package registry

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/prompts"
	"github.com/tmc/langchaingo/tools"

	"github.com/flowsmith/flowsmith/flow"
	"github.com/flowsmith/flowsmith/tool"
)

func TestDefaultCatalogCoverage(t *testing.T) {
	r := Default()

	lookups := []struct {
		category flow.Category
		typeName string
	}{
		{flow.CategoryPrompt, "PromptTemplate"},
		{flow.CategoryPrompt, "ZeroShotPrompt"},
		{flow.CategoryLLM, "OpenAI"},
		{flow.CategoryTool, "Calculator"},
		{flow.CategoryTool, "BraveSearch"},
		{flow.CategoryTool, "JsonSpec"},
		{flow.CategoryTool, "PythonFunctionTool"},
		{flow.CategoryToolkit, "SearchToolkit"},
		{flow.CategoryEmbedding, "OpenAIEmbeddings"},
		{flow.CategoryVectorStore, "MemoryVectorStore"},
		{flow.CategoryVectorStore, "PGVector"},
		{flow.CategoryDocumentLoader, "TextLoader"},
		{flow.CategoryDocumentLoader, "WebBaseLoader"},
		{flow.CategoryTextSplitter, "RecursiveCharacterTextSplitter"},
		{flow.CategoryTextSplitter, "TokenTextSplitter"},
		{flow.CategoryUtility, "SQLDatabase"},
		{flow.CategoryChain, "LLMChain"},
		{flow.CategoryChain, "RetrievalQA"},
		{flow.CategoryAgent, "ZeroShotAgent"},
		{flow.CategoryMemory, "ConversationBufferMemory"},
	}
	for _, l := range lookups {
		_, err := r.Lookup(l.category, l.typeName)
		assert.NoError(t, err, "%s/%s", l.category, l.typeName)
	}
}

func TestPromptTemplateConstruction(t *testing.T) {
	r := Default()
	entry, err := r.Lookup(flow.CategoryPrompt, "PromptTemplate")
	require.NoError(t, err)

	instance, err := entry.New(context.Background(), map[string]any{
		"template":        "Answer {input}",
		"input_variables": []any{"input"},
	})
	require.NoError(t, err)

	pt, ok := instance.(prompts.PromptTemplate)
	require.True(t, ok)
	assert.Equal(t, prompts.TemplateFormatFString, pt.TemplateFormat)

	out, err := pt.Format(map[string]any{"input": "why"})
	require.NoError(t, err)
	assert.Equal(t, "Answer why", out)
}

func TestPromptTemplateRequiresTemplate(t *testing.T) {
	r := Default()
	entry, err := r.Lookup(flow.CategoryPrompt, "PromptTemplate")
	require.NoError(t, err)

	_, err = entry.New(context.Background(), map[string]any{})
	assert.ErrorContains(t, err, "template")
}

func TestZeroShotPromptListsTools(t *testing.T) {
	r := Default()
	entry, err := r.Lookup(flow.CategoryPrompt, "ZeroShotPrompt")
	require.NoError(t, err)

	instance, err := entry.New(context.Background(), map[string]any{
		"tools": []tools.Tool{tools.Calculator{}},
	})
	require.NoError(t, err)

	pt, ok := instance.(prompts.PromptTemplate)
	require.True(t, ok)
	assert.Contains(t, pt.Template, "Calculator")
	assert.Contains(t, pt.InputVariables, "agent_scratchpad")
}

func TestCalculatorConstruction(t *testing.T) {
	r := Default()
	entry, err := r.Lookup(flow.CategoryTool, "Calculator")
	require.NoError(t, err)

	instance, err := entry.New(context.Background(), nil)
	require.NoError(t, err)
	_, ok := instance.(tools.Tool)
	assert.True(t, ok)
}

func TestJSONSpecConstruction(t *testing.T) {
	r := Default()
	entry, err := r.Lookup(flow.CategoryTool, "JsonSpec")
	require.NoError(t, err)

	instance, err := entry.New(context.Background(), map[string]any{
		"dict_": map[string]any{"servers": []any{"alpha"}},
	})
	require.NoError(t, err)

	spec, ok := instance.(*tool.JSONSpec)
	require.True(t, ok)

	out, err := spec.Call(context.Background(), "value servers.0")
	require.NoError(t, err)
	assert.Equal(t, "alpha", out)
}

func TestJSONSpecRequiresDict(t *testing.T) {
	r := Default()
	entry, err := r.Lookup(flow.CategoryTool, "JsonSpec")
	require.NoError(t, err)

	_, err = entry.New(context.Background(), map[string]any{})
	assert.ErrorContains(t, err, "dict_")
}

func TestPythonFunctionRejectsPlainConstruction(t *testing.T) {
	r := Default()
	entry, err := r.Lookup(flow.CategoryTool, "PythonFunction")
	require.NoError(t, err)

	_, err = entry.New(context.Background(), map[string]any{"code": "def run(x): return x"})
	assert.ErrorContains(t, err, "compiled")
}

func TestSplitterConstruction(t *testing.T) {
	r := Default()
	entry, err := r.Lookup(flow.CategoryTextSplitter, "RecursiveCharacterTextSplitter")
	require.NoError(t, err)

	instance, err := entry.New(context.Background(), map[string]any{
		"chunk_size":    float64(20),
		"chunk_overlap": float64(0),
	})
	require.NoError(t, err)

	splitter, ok := instance.(interface {
		SplitText(string) ([]string, error)
	})
	require.True(t, ok)

	chunks, err := splitter.SplitText(strings.Repeat("word ", 20))
	require.NoError(t, err)
	assert.Greater(t, len(chunks), 1)
}

func TestChainEntriesFromMethods(t *testing.T) {
	r := Default()
	for _, name := range []string{"RetrievalQA", "VectorDBQA"} {
		entry, err := r.Lookup(flow.CategoryChain, name)
		require.NoError(t, err)
		assert.Nil(t, entry.New)
		assert.Contains(t, entry.Methods, MethodFromLLM)
	}
	assert.Equal(t, MethodFromLLM, DefaultFromMethods()["RetrievalQA"])
}

func TestAgentEntryHasNewAgent(t *testing.T) {
	r := Default()
	entry, err := r.Lookup(flow.CategoryAgent, "ZeroShotAgent")
	require.NoError(t, err)
	assert.NotNil(t, entry.NewAgent)
	assert.Nil(t, entry.New)
}

func TestMemoryEntryConstruction(t *testing.T) {
	r := Default()
	entry, err := r.Lookup(flow.CategoryMemory, "ConversationBufferMemory")
	require.NoError(t, err)

	instance, err := entry.New(context.Background(), map[string]any{
		"memory_key": "history",
	})
	require.NoError(t, err)
	assert.NotNil(t, instance)
}
