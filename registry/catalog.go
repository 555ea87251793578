package registry

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/memory"
	"github.com/tmc/langchaingo/prompts"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
	"github.com/tmc/langchaingo/tools"
	"github.com/tmc/langchaingo/vectorstores/pgvector"

	"github.com/flowsmith/flowsmith/agent"
	"github.com/flowsmith/flowsmith/flow"
	"github.com/flowsmith/flowsmith/loader"
	"github.com/flowsmith/flowsmith/script"
	"github.com/flowsmith/flowsmith/tool"
	"github.com/flowsmith/flowsmith/utility"
	"github.com/flowsmith/flowsmith/vectorstore"
)

// Factory method names components expose through Entry.Methods.
const (
	MethodFromLLM       = "from_llm"
	MethodFromURI       = "from_uri"
	MethodFromDocuments = "from_documents"
)

// DefaultFromMethods lists the chain types that are built through a named
// factory method instead of plain construction.
func DefaultFromMethods() map[string]string {
	return map[string]string{
		"RetrievalQA": MethodFromLLM,
		"VectorDBQA":  MethodFromLLM,
	}
}

// Default builds the standard catalog.
func Default() *Registry {
	r := New()
	r.Register(promptEntries()...)
	r.Register(llmEntries()...)
	r.Register(toolEntries()...)
	r.Register(toolkitEntries()...)
	r.Register(embeddingEntries()...)
	r.Register(vectorStoreEntries()...)
	r.Register(documentLoaderEntries()...)
	r.Register(textSplitterEntries()...)
	r.Register(utilityEntries()...)
	r.Register(chainEntries()...)
	r.Register(agentEntries()...)
	r.Register(memoryEntries()...)
	return r
}

func promptEntries() []*Entry {
	return []*Entry{
		{
			Name:     "PromptTemplate",
			Category: flow.CategoryPrompt,
			Fields:   []string{"template", "input_variables", "template_format", "validate_template", "output_parser"},
			New: func(_ context.Context, params map[string]any) (any, error) {
				template, err := StringParam(params, "template", "")
				if err != nil {
					return nil, err
				}
				if template == "" {
					return nil, fmt.Errorf("PromptTemplate requires a template")
				}
				inputVariables, err := StringSliceParam(params, "input_variables")
				if err != nil {
					return nil, err
				}
				format, err := templateFormat(params)
				if err != nil {
					return nil, err
				}
				return prompts.PromptTemplate{
					Template:       template,
					InputVariables: inputVariables,
					TemplateFormat: format,
				}, nil
			},
		},
		{
			// Kept for flows the rewriter did not touch: builds the MRKL
			// prompt directly from the wired tools.
			Name:     "ZeroShotPrompt",
			Category: flow.CategoryPrompt,
			Fields:   []string{"prefix", "suffix", "format_instructions", "tools", "input_variables"},
			New: func(_ context.Context, params map[string]any) (any, error) {
				ts, err := ToolsParam(params, "tools")
				if err != nil {
					return nil, err
				}
				prefix, err := StringParam(params, "prefix", agent.DefaultPrefix)
				if err != nil {
					return nil, err
				}
				suffix, err := StringParam(params, "suffix", agent.DefaultSuffix)
				if err != nil {
					return nil, err
				}
				instructions, err := StringParam(params, "format_instructions", agent.DefaultFormatInstructions)
				if err != nil {
					return nil, err
				}
				return agent.CreateZeroShotPrompt(ts, prefix, suffix, instructions), nil
			},
		},
	}
}

func llmEntries() []*Entry {
	return []*Entry{
		{
			Name:     "OpenAI",
			Category: flow.CategoryLLM,
			Fields:   []string{"openai_api_key", "model_name", "openai_api_base"},
			New: func(_ context.Context, params map[string]any) (any, error) {
				var opts []openai.Option
				if key, err := StringParam(params, "openai_api_key", ""); err != nil {
					return nil, err
				} else if key != "" {
					opts = append(opts, openai.WithToken(key))
				}
				if model, err := StringParam(params, "model_name", ""); err != nil {
					return nil, err
				} else if model != "" {
					opts = append(opts, openai.WithModel(model))
				}
				if base, err := StringParam(params, "openai_api_base", ""); err != nil {
					return nil, err
				} else if base != "" {
					opts = append(opts, openai.WithBaseURL(base))
				}
				return openai.New(opts...)
			},
		},
	}
}

func toolEntries() []*Entry {
	return []*Entry{
		{
			Name:     "Calculator",
			Category: flow.CategoryTool,
			Fields:   []string{},
			New: func(_ context.Context, _ map[string]any) (any, error) {
				return tools.Calculator{}, nil
			},
		},
		{
			Name:     "BraveSearch",
			Category: flow.CategoryTool,
			Fields:   []string{"api_key", "count", "country", "search_lang", "base_url"},
			New: func(_ context.Context, params map[string]any) (any, error) {
				apiKey, err := StringParam(params, "api_key", "")
				if err != nil {
					return nil, err
				}
				opts, err := braveOptions(params)
				if err != nil {
					return nil, err
				}
				return tool.NewBraveSearch(apiKey, opts...)
			},
		},
		{
			Name:     "JsonSpec",
			Category: flow.CategoryTool,
			Fields:   []string{"dict_", "max_value_length"},
			New: func(_ context.Context, params map[string]any) (any, error) {
				dict, _ := params["dict_"].(map[string]any)
				if dict == nil {
					return nil, fmt.Errorf("JsonSpec requires a loaded dict_")
				}
				maxLen, err := IntParam(params, "max_value_length", 0)
				if err != nil {
					return nil, err
				}
				return tool.NewJSONSpec(dict, maxLen), nil
			},
		},
		{
			Name:     "PythonFunctionTool",
			Category: flow.CategoryTool,
			Fields:   []string{"name", "description", "code", "func"},
			New: func(_ context.Context, params map[string]any) (any, error) {
				fn, _ := params["func"].(script.Callable)
				if fn == nil {
					return nil, fmt.Errorf("PythonFunctionTool requires a compiled func")
				}
				name, err := StringParam(params, "name", "PythonFunction")
				if err != nil {
					return nil, err
				}
				description, err := StringParam(params, "description", "")
				if err != nil {
					return nil, err
				}
				return tool.NewFunctionTool(name, description, fn), nil
			},
		},
		{
			// The function body arrives as source code and is compiled before
			// construction, so plain construction is never the right path.
			Name:     "PythonFunction",
			Category: flow.CategoryTool,
			Fields:   []string{"code"},
			New: func(_ context.Context, _ map[string]any) (any, error) {
				return nil, fmt.Errorf("PythonFunction source must be compiled before use")
			},
		},
	}
}

func toolkitEntries() []*Entry {
	return []*Entry{
		{
			Name:     "SearchToolkit",
			Category: flow.CategoryToolkit,
			Fields:   []string{"api_key", "count", "country", "search_lang"},
			New: func(_ context.Context, params map[string]any) (any, error) {
				apiKey, err := StringParam(params, "api_key", "")
				if err != nil {
					return nil, err
				}
				opts, err := braveOptions(params)
				if err != nil {
					return nil, err
				}
				return tool.NewSearchToolkit(apiKey, opts...)
			},
		},
	}
}

func embeddingEntries() []*Entry {
	return []*Entry{
		{
			Name:     "OpenAIEmbeddings",
			Category: flow.CategoryEmbedding,
			Fields: []string{
				"openai_api_key", "openai_api_base", "model", "batch_size",
				"strip_new_lines", "allowed_special", "disallowed_special",
			},
			New: func(_ context.Context, params map[string]any) (any, error) {
				var clientOpts []openai.Option
				if key, err := StringParam(params, "openai_api_key", ""); err != nil {
					return nil, err
				} else if key != "" {
					clientOpts = append(clientOpts, openai.WithToken(key))
				}
				if base, err := StringParam(params, "openai_api_base", ""); err != nil {
					return nil, err
				} else if base != "" {
					clientOpts = append(clientOpts, openai.WithBaseURL(base))
				}
				if model, err := StringParam(params, "model", ""); err != nil {
					return nil, err
				} else if model != "" {
					clientOpts = append(clientOpts, openai.WithEmbeddingModel(model))
				}
				client, err := openai.New(clientOpts...)
				if err != nil {
					return nil, err
				}
				var embOpts []embeddings.Option
				if batch, err := IntParam(params, "batch_size", 0); err != nil {
					return nil, err
				} else if batch > 0 {
					embOpts = append(embOpts, embeddings.WithBatchSize(batch))
				}
				if strip, err := BoolParam(params, "strip_new_lines", true); err != nil {
					return nil, err
				} else {
					embOpts = append(embOpts, embeddings.WithStripNewLines(strip))
				}
				return embeddings.NewEmbedder(client, embOpts...)
			},
		},
	}
}

func vectorStoreEntries() []*Entry {
	memoryEntry := &Entry{
		Name:     "MemoryVectorStore",
		Category: flow.CategoryVectorStore,
		Fields:   []string{"embedding", "documents"},
		New: func(_ context.Context, params map[string]any) (any, error) {
			embedder, err := embedderParam(params, "embedding")
			if err != nil {
				return nil, err
			}
			return vectorstore.NewMemory(embedder), nil
		},
	}
	memoryEntry.Methods = map[string]Constructor{
		MethodFromDocuments: func(ctx context.Context, params map[string]any) (any, error) {
			embedder, err := embedderParam(params, "embedding")
			if err != nil {
				return nil, err
			}
			docs, err := DocumentsParam(params, "documents")
			if err != nil {
				return nil, err
			}
			return vectorstore.NewMemoryFromDocuments(ctx, docs, embedder)
		},
	}

	pgEntry := &Entry{
		Name:     "PGVector",
		Category: flow.CategoryVectorStore,
		Fields:   []string{"connection_string", "collection_name", "embedding", "documents"},
	}
	newPGVector := func(ctx context.Context, params map[string]any) (any, error) {
		embedder, err := embedderParam(params, "embedding")
		if err != nil {
			return nil, err
		}
		opts := []pgvector.Option{pgvector.WithEmbedder(embedder)}
		if conn, err := StringParam(params, "connection_string", ""); err != nil {
			return nil, err
		} else if conn != "" {
			opts = append(opts, pgvector.WithConnectionURL(conn))
		}
		if collection, err := StringParam(params, "collection_name", ""); err != nil {
			return nil, err
		} else if collection != "" {
			opts = append(opts, pgvector.WithCollectionName(collection))
		}
		return pgvector.New(ctx, opts...)
	}
	pgEntry.New = newPGVector
	pgEntry.Methods = map[string]Constructor{
		MethodFromDocuments: func(ctx context.Context, params map[string]any) (any, error) {
			instance, err := newPGVector(ctx, params)
			if err != nil {
				return nil, err
			}
			store := instance.(pgvector.Store)
			docs, err := DocumentsParam(params, "documents")
			if err != nil {
				return nil, err
			}
			if _, err := store.AddDocuments(ctx, docs); err != nil {
				return nil, fmt.Errorf("index documents: %w", err)
			}
			return store, nil
		},
	}

	return []*Entry{memoryEntry, pgEntry}
}

func documentLoaderEntries() []*Entry {
	return []*Entry{
		{
			Name:     "TextLoader",
			Category: flow.CategoryDocumentLoader,
			Fields:   []string{"file_path", "metadata"},
			New: func(_ context.Context, params map[string]any) (any, error) {
				data, err := readFileParam(params)
				if err != nil {
					return nil, err
				}
				return documentloaders.NewText(bytes.NewReader(data)), nil
			},
		},
		{
			Name:     "CSVLoader",
			Category: flow.CategoryDocumentLoader,
			Fields:   []string{"file_path", "metadata"},
			New: func(_ context.Context, params map[string]any) (any, error) {
				data, err := readFileParam(params)
				if err != nil {
					return nil, err
				}
				return documentloaders.NewCSV(bytes.NewReader(data)), nil
			},
		},
		{
			Name:     "UnstructuredHTMLLoader",
			Category: flow.CategoryDocumentLoader,
			Fields:   []string{"file_path", "metadata"},
			New: func(_ context.Context, params map[string]any) (any, error) {
				data, err := readFileParam(params)
				if err != nil {
					return nil, err
				}
				return documentloaders.NewHTML(bytes.NewReader(data)), nil
			},
		},
		{
			Name:     "UnstructuredMarkdownLoader",
			Category: flow.CategoryDocumentLoader,
			Fields:   []string{"file_path", "metadata"},
			New: func(_ context.Context, params map[string]any) (any, error) {
				data, err := readFileParam(params)
				if err != nil {
					return nil, err
				}
				return loader.NewMarkdown(bytes.NewReader(data)), nil
			},
		},
		{
			Name:     "DirectoryLoader",
			Category: flow.CategoryDocumentLoader,
			Fields:   []string{"path", "file_filter", "recursive", "metadata"},
			New: func(_ context.Context, params map[string]any) (any, error) {
				path, err := StringParam(params, "path", "")
				if err != nil {
					return nil, err
				}
				if path == "" {
					return nil, fmt.Errorf("DirectoryLoader requires a path")
				}
				var opts []loader.DirectoryOption
				if filter, ok := params["file_filter"].(func(string) bool); ok && filter != nil {
					opts = append(opts, loader.WithFileFilter(filter))
				}
				recursive, err := BoolParam(params, "recursive", true)
				if err != nil {
					return nil, err
				}
				opts = append(opts, loader.WithRecursive(recursive))
				return loader.NewDirectory(path, opts...), nil
			},
		},
		{
			Name:     "WebBaseLoader",
			Category: flow.CategoryDocumentLoader,
			Fields:   []string{"web_path", "metadata"},
			New: func(_ context.Context, params map[string]any) (any, error) {
				url, err := StringParam(params, "web_path", "")
				if err != nil {
					return nil, err
				}
				if url == "" {
					return nil, fmt.Errorf("WebBaseLoader requires a web_path")
				}
				return loader.NewWeb(url), nil
			},
		},
	}
}

func textSplitterEntries() []*Entry {
	return []*Entry{
		{
			Name:     "RecursiveCharacterTextSplitter",
			Category: flow.CategoryTextSplitter,
			Fields:   []string{"chunk_size", "chunk_overlap", "separators"},
			New: func(_ context.Context, params map[string]any) (any, error) {
				opts, err := splitterOptions(params)
				if err != nil {
					return nil, err
				}
				separators, err := StringSliceParam(params, "separators")
				if err != nil {
					return nil, err
				}
				if len(separators) > 0 {
					opts = append(opts, textsplitter.WithSeparators(separators))
				}
				return textsplitter.NewRecursiveCharacter(opts...), nil
			},
		},
		{
			Name:     "CharacterTextSplitter",
			Category: flow.CategoryTextSplitter,
			Fields:   []string{"chunk_size", "chunk_overlap", "separator"},
			New: func(_ context.Context, params map[string]any) (any, error) {
				opts, err := splitterOptions(params)
				if err != nil {
					return nil, err
				}
				separator, err := StringParam(params, "separator", "")
				if err != nil {
					return nil, err
				}
				if separator != "" {
					opts = append(opts, textsplitter.WithSeparators([]string{separator}))
				}
				return textsplitter.NewRecursiveCharacter(opts...), nil
			},
		},
		{
			Name:     "TokenTextSplitter",
			Category: flow.CategoryTextSplitter,
			Fields:   []string{"chunk_size", "chunk_overlap", "model_name", "encoding_name"},
			New: func(_ context.Context, params map[string]any) (any, error) {
				opts, err := splitterOptions(params)
				if err != nil {
					return nil, err
				}
				if model, err := StringParam(params, "model_name", ""); err != nil {
					return nil, err
				} else if model != "" {
					opts = append(opts, textsplitter.WithModelName(model))
				}
				if encoding, err := StringParam(params, "encoding_name", ""); err != nil {
					return nil, err
				} else if encoding != "" {
					opts = append(opts, textsplitter.WithEncodingName(encoding))
				}
				return textsplitter.NewTokenSplitter(opts...), nil
			},
		},
		{
			Name:     "MarkdownTextSplitter",
			Category: flow.CategoryTextSplitter,
			Fields:   []string{"chunk_size", "chunk_overlap"},
			New: func(_ context.Context, params map[string]any) (any, error) {
				opts, err := splitterOptions(params)
				if err != nil {
					return nil, err
				}
				return textsplitter.NewMarkdownTextSplitter(opts...), nil
			},
		},
	}
}

func utilityEntries() []*Entry {
	fromURI := func(_ context.Context, params map[string]any) (any, error) {
		uri, err := StringParam(params, "uri", "")
		if err != nil {
			return nil, err
		}
		if uri == "" {
			return nil, fmt.Errorf("SQLDatabase requires a uri")
		}
		return utility.NewSQLDatabaseFromURI(uri)
	}
	return []*Entry{
		{
			Name:     "SQLDatabase",
			Category: flow.CategoryUtility,
			Fields:   []string{"uri"},
			New:      fromURI,
			Methods:  map[string]Constructor{MethodFromURI: fromURI},
		},
	}
}

func chainEntries() []*Entry {
	fromLLM := func(_ context.Context, params map[string]any) (any, error) {
		model, err := modelParam(params, "llm")
		if err != nil {
			return nil, err
		}
		retriever, err := retrieverParam(params, "retriever")
		if err != nil {
			return nil, err
		}
		return chains.NewRetrievalQAFromLLM(model, retriever), nil
	}
	return []*Entry{
		{
			Name:     "LLMChain",
			Category: flow.CategoryChain,
			Fields:   []string{"llm", "prompt", "memory"},
			New: func(_ context.Context, params map[string]any) (any, error) {
				model, err := modelParam(params, "llm")
				if err != nil {
					return nil, err
				}
				prompt, err := prompterParam(params, "prompt")
				if err != nil {
					return nil, err
				}
				chain := chains.NewLLMChain(model, prompt)
				if mem, ok := params["memory"].(schema.Memory); ok && mem != nil {
					chain.Memory = mem
				}
				return chain, nil
			},
		},
		{
			Name:     "ConversationChain",
			Category: flow.CategoryChain,
			Fields:   []string{"llm", "memory"},
			New: func(_ context.Context, params map[string]any) (any, error) {
				model, err := modelParam(params, "llm")
				if err != nil {
					return nil, err
				}
				mem, ok := params["memory"].(schema.Memory)
				if !ok || mem == nil {
					mem = memory.NewConversationBuffer()
				}
				return chains.NewConversation(model, mem), nil
			},
		},
		{
			Name:     "RetrievalQA",
			Category: flow.CategoryChain,
			Fields:   []string{"llm", "retriever", "vectorstore"},
			Methods:  map[string]Constructor{MethodFromLLM: fromLLM},
		},
		{
			Name:     "VectorDBQA",
			Category: flow.CategoryChain,
			Fields:   []string{"llm", "retriever", "vectorstore"},
			Methods:  map[string]Constructor{MethodFromLLM: fromLLM},
		},
	}
}

func agentEntries() []*Entry {
	return []*Entry{
		{
			Name:     "ZeroShotAgent",
			Category: flow.CategoryAgent,
			Fields:   []string{"llm_chain", "allowed_tools", "tools"},
			NewAgent: func(toolNames []string, llmChain chains.Chain) (agent.Agent, error) {
				return agent.NewZeroShotAgent(llmChain, toolNames)
			},
		},
	}
}

func memoryEntries() []*Entry {
	return []*Entry{
		{
			Name:     "ConversationBufferMemory",
			Category: flow.CategoryMemory,
			Fields:   []string{"memory_key", "return_messages"},
			New: func(_ context.Context, params map[string]any) (any, error) {
				var opts []memory.ConversationBufferOption
				if key, err := StringParam(params, "memory_key", ""); err != nil {
					return nil, err
				} else if key != "" {
					opts = append(opts, memory.WithMemoryKey(key))
				}
				if returnMessages, err := BoolParam(params, "return_messages", false); err != nil {
					return nil, err
				} else if returnMessages {
					opts = append(opts, memory.WithReturnMessages(true))
				}
				return memory.NewConversationBuffer(opts...), nil
			},
		},
	}
}

func templateFormat(params map[string]any) (prompts.TemplateFormat, error) {
	format, err := StringParam(params, "template_format", "f-string")
	if err != nil {
		return "", err
	}
	switch format {
	case "f-string":
		return prompts.TemplateFormatFString, nil
	case "go-template":
		return prompts.TemplateFormatGoTemplate, nil
	case "jinja2":
		return prompts.TemplateFormatJinja2, nil
	default:
		return "", fmt.Errorf("unsupported template format %q", format)
	}
}

func braveOptions(params map[string]any) ([]tool.BraveOption, error) {
	var opts []tool.BraveOption
	if count, err := IntParam(params, "count", 0); err != nil {
		return nil, err
	} else if count > 0 {
		opts = append(opts, tool.WithBraveCount(count))
	}
	if country, err := StringParam(params, "country", ""); err != nil {
		return nil, err
	} else if country != "" {
		opts = append(opts, tool.WithBraveCountry(country))
	}
	if lang, err := StringParam(params, "search_lang", ""); err != nil {
		return nil, err
	} else if lang != "" {
		opts = append(opts, tool.WithBraveLang(lang))
	}
	if base, err := StringParam(params, "base_url", ""); err != nil {
		return nil, err
	} else if base != "" {
		opts = append(opts, tool.WithBraveBaseURL(base))
	}
	return opts, nil
}

func splitterOptions(params map[string]any) ([]textsplitter.Option, error) {
	var opts []textsplitter.Option
	chunkSize, err := IntParam(params, "chunk_size", 0)
	if err != nil {
		return nil, err
	}
	if chunkSize > 0 {
		opts = append(opts, textsplitter.WithChunkSize(chunkSize))
	}
	chunkOverlap, err := IntParam(params, "chunk_overlap", 0)
	if err != nil {
		return nil, err
	}
	if chunkOverlap > 0 {
		opts = append(opts, textsplitter.WithChunkOverlap(chunkOverlap))
	}
	return opts, nil
}

func readFileParam(params map[string]any) ([]byte, error) {
	path, err := StringParam(params, "file_path", "")
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("loader requires a file_path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func modelParam(params map[string]any, key string) (llms.Model, error) {
	model, ok := params[key].(llms.Model)
	if !ok || model == nil {
		return nil, fmt.Errorf("parameter %q: expected a language model", key)
	}
	return model, nil
}

func prompterParam(params map[string]any, key string) (prompts.FormatPrompter, error) {
	prompter, ok := params[key].(prompts.FormatPrompter)
	if !ok || prompter == nil {
		return nil, fmt.Errorf("parameter %q: expected a prompt template", key)
	}
	return prompter, nil
}

func retrieverParam(params map[string]any, key string) (schema.Retriever, error) {
	retriever, ok := params[key].(schema.Retriever)
	if !ok || retriever == nil {
		return nil, fmt.Errorf("parameter %q: expected a retriever", key)
	}
	return retriever, nil
}

func embedderParam(params map[string]any, key string) (embeddings.Embedder, error) {
	embedder, ok := params[key].(embeddings.Embedder)
	if !ok || embedder == nil {
		return nil, fmt.Errorf("parameter %q: expected an embedder", key)
	}
	return embedder, nil
}
