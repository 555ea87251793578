package instantiate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/textsplitter"
	"github.com/tmc/langchaingo/tools"
	"github.com/tmc/langchaingo/vectorstores"

	"github.com/flowsmith/flowsmith/agent"
	"github.com/flowsmith/flowsmith/flow"
	"github.com/flowsmith/flowsmith/log"
	"github.com/flowsmith/flowsmith/registry"
	"github.com/flowsmith/flowsmith/script"
)

const defaultRetrieverK = 4

// Initializer builds a vector store through a type-specific path instead
// of the generic from-documents protocol.
type Initializer func(ctx context.Context, entry *registry.Entry, params map[string]any) (any, error)

// Engine instantiates flow nodes. It holds only read-only tables, so a
// single Engine may serve concurrent pipeline builds.
type Engine struct {
	registry     *registry.Registry
	overrides    registry.Overrides
	compiler     script.Compiler
	initializers map[string]Initializer
	fromMethods  map[string]string
	logger       log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithOverrides installs the custom component table. It is consulted
// before the registry for every node.
func WithOverrides(o registry.Overrides) Option {
	return func(e *Engine) { e.overrides = o }
}

// WithCompiler sets the function compiler used for function tool nodes.
func WithCompiler(c script.Compiler) Option {
	return func(e *Engine) { e.compiler = c }
}

// WithVectorStoreInitializer registers a type-specific vector store
// initializer.
func WithVectorStoreInitializer(typeName string, init Initializer) Option {
	return func(e *Engine) { e.initializers[typeName] = init }
}

// WithFromMethods replaces the chain from-method table.
func WithFromMethods(m map[string]string) Option {
	return func(e *Engine) { e.fromMethods = m }
}

// WithLogger sets the engine's logger.
func WithLogger(l log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an Engine over a registry. A nil registry selects the
// default catalog.
func New(reg *registry.Registry, opts ...Option) *Engine {
	if reg == nil {
		reg = registry.Default()
	}
	e := &Engine{
		registry:     reg,
		compiler:     script.NewStarlarkCompiler(),
		initializers: make(map[string]Initializer),
		fromMethods:  registry.DefaultFromMethods(),
		logger:       log.GetDefaultLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Instantiate builds the runtime object for one node. Loader nodes
// return []schema.Document and toolkit nodes may return []tools.Tool;
// everything else returns a single instance.
func (e *Engine) Instantiate(ctx context.Context, node *flow.Node) (any, error) {
	params, err := NormalizeParams(node.Params)
	if err != nil {
		return nil, err
	}

	if override, ok := e.overrides.Lookup(node.TypeName); ok {
		if override.Initialize != nil {
			return override.Initialize(ctx, params)
		}
		return e.dispatch(ctx, node, override.Entry, params)
	}

	entry, err := e.registry.Lookup(node.Category, node.TypeName)
	if err != nil {
		return nil, err
	}
	return e.dispatch(ctx, node, entry, params)
}

func (e *Engine) dispatch(ctx context.Context, node *flow.Node, entry *registry.Entry, params map[string]any) (any, error) {
	switch node.Category {
	case flow.CategoryAgent:
		return e.buildAgent(params, entry)
	case flow.CategoryPrompt:
		return e.buildPrompt(ctx, node.TypeName, entry, params)
	case flow.CategoryTool:
		return e.buildTool(ctx, node.TypeName, entry, params)
	case flow.CategoryToolkit:
		return e.buildToolkit(ctx, entry, params)
	case flow.CategoryEmbedding:
		return e.buildEmbedding(ctx, entry, params)
	case flow.CategoryVectorStore:
		return e.buildVectorStore(ctx, node.TypeName, entry, params)
	case flow.CategoryDocumentLoader:
		return e.buildDocumentLoader(ctx, entry, params)
	case flow.CategoryTextSplitter:
		return e.buildTextSplitter(ctx, entry, params)
	case flow.CategoryUtility:
		return e.buildUtility(ctx, node.TypeName, entry, params)
	case flow.CategoryChain:
		return e.buildChain(ctx, node.TypeName, entry, params)
	default:
		return e.construct(ctx, entry, params)
	}
}

// construct performs plain construction: validate the declared fields,
// then call the entry's constructor.
func (e *Engine) construct(ctx context.Context, entry *registry.Entry, params map[string]any) (any, error) {
	if entry.New == nil {
		return nil, &ConstructionError{TypeName: entry.Name, Err: errors.New("no constructor")}
	}
	if err := entry.CheckFields(params); err != nil {
		return nil, &ConstructionError{TypeName: entry.Name, Err: err}
	}
	instance, err := entry.New(ctx, params)
	if err != nil {
		return nil, &ConstructionError{TypeName: entry.Name, Err: err}
	}
	return instance, nil
}

func (e *Engine) buildPrompt(ctx context.Context, typeName string, entry *registry.Entry, params map[string]any) (any, error) {
	if typeName == flow.TypeZeroShotPrompt {
		if _, ok := params["tools"]; !ok {
			params = cloneParams(params)
			params["tools"] = []tools.Tool{}
		}
	}
	return e.construct(ctx, entry, params)
}

func (e *Engine) buildTool(ctx context.Context, typeName string, entry *registry.Entry, params map[string]any) (any, error) {
	switch {
	case typeName == "JsonSpec":
		if path, ok := params["path"].(string); ok {
			dict, err := LoadFileIntoDict(path)
			if err != nil {
				return nil, &ConstructionError{TypeName: typeName, Err: err}
			}
			params = cloneParams(params)
			delete(params, "path")
			params["dict_"] = dict
		}
		return e.construct(ctx, entry, params)

	case typeName == "PythonFunctionTool":
		if code, ok := params["code"].(string); ok {
			fn, err := e.compiler.Compile(code)
			if err != nil {
				return nil, &InvalidFunctionSourceError{TypeName: typeName, Err: err}
			}
			params = cloneParams(params)
			delete(params, "code")
			params["func"] = fn
		}
		return e.construct(ctx, entry, params)

	case typeName == "PythonFunction":
		// The compiled callable itself is the instance.
		code, ok := params["code"].(string)
		if !ok {
			return nil, &InvalidFunctionSourceError{
				TypeName: typeName,
				Err:      fmt.Errorf("code must be a string, got %T", params["code"]),
			}
		}
		fn, err := e.compiler.Eval(code)
		if err != nil {
			return nil, &InvalidFunctionSourceError{TypeName: typeName, Err: err}
		}
		return fn, nil

	default:
		// Covers case-insensitive "tool" and every other registered tool.
		return e.construct(ctx, entry, params)
	}
}

func (e *Engine) buildToolkit(ctx context.Context, entry *registry.Entry, params map[string]any) (any, error) {
	instance, err := e.construct(ctx, entry, params)
	if err != nil {
		return nil, err
	}
	if tk, ok := instance.(interface{ GetTools() []tools.Tool }); ok {
		return tk.GetTools(), nil
	}
	return instance, nil
}

// buildEmbedding drops non-constructor metadata, then retries once with
// only the declared fields when validation rejects the parameter set.
// The retry is the engine's single recovery path and is always logged.
func (e *Engine) buildEmbedding(ctx context.Context, entry *registry.Entry, params map[string]any) (any, error) {
	params = cloneParams(params)
	delete(params, "model")
	delete(params, "headers")

	instance, err := e.construct(ctx, entry, params)
	if err == nil {
		return instance, nil
	}
	var invalidParams *registry.InvalidParamsError
	if !errors.As(err, &invalidParams) {
		return nil, err
	}
	e.logger.Warn("%s rejected parameters %v, retrying with declared fields only",
		entry.Name, invalidParams.Unknown)
	return e.construct(ctx, entry, entry.FilterFields(params))
}

func (e *Engine) buildVectorStore(ctx context.Context, typeName string, entry *registry.Entry, params map[string]any) (any, error) {
	params = cloneParams(params)
	searchKwargs, _ := params["search_kwargs"].(map[string]any)
	delete(params, "search_kwargs")

	var instance any
	var err error
	if init, ok := e.initializers[typeName]; ok {
		instance, err = init(ctx, entry, params)
		if err != nil {
			return nil, &ConstructionError{TypeName: typeName, Err: err}
		}
	} else {
		if texts, ok := params["texts"]; ok {
			delete(params, "texts")
			params["documents"] = texts
		}
		ctor := entry.New
		if fromDocs, ok := entry.Methods[registry.MethodFromDocuments]; ok {
			if _, hasDocs := params["documents"]; hasDocs {
				ctor = fromDocs
			}
		}
		if ctor == nil {
			return nil, &ConstructionError{TypeName: typeName, Err: errors.New("no constructor")}
		}
		if err := entry.CheckFields(params); err != nil {
			return nil, &ConstructionError{TypeName: typeName, Err: err}
		}
		instance, err = ctor(ctx, params)
		if err != nil {
			return nil, &ConstructionError{TypeName: typeName, Err: err}
		}
	}

	if len(searchKwargs) > 0 {
		if store, ok := instance.(vectorstores.VectorStore); ok {
			return retrieverFromSearchKwargs(store, searchKwargs)
		}
	}
	return instance, nil
}

func retrieverFromSearchKwargs(store vectorstores.VectorStore, searchKwargs map[string]any) (any, error) {
	k, err := registry.IntParam(searchKwargs, "k", defaultRetrieverK)
	if err != nil {
		return nil, err
	}
	var opts []vectorstores.Option
	if threshold, err := registry.FloatParam(searchKwargs, "score_threshold", 0); err != nil {
		return nil, err
	} else if threshold > 0 {
		opts = append(opts, vectorstores.WithScoreThreshold(float32(threshold)))
	}
	if filters, ok := searchKwargs["filter"]; ok {
		opts = append(opts, vectorstores.WithFilters(filters))
	}
	return vectorstores.ToRetriever(store, k, opts...), nil
}

func (e *Engine) buildDocumentLoader(ctx context.Context, entry *registry.Entry, params map[string]any) (any, error) {
	params = cloneParams(params)
	if filter, ok := params["file_filter"].(string); ok {
		params["file_filter"] = fileFilterPredicate(filter)
	}
	metadata, hasMetadata := params["metadata"]
	delete(params, "metadata")

	instance, err := e.construct(ctx, entry, params)
	if err != nil {
		return nil, err
	}
	ld, ok := instance.(documentloaders.Loader)
	if !ok {
		return nil, &ConstructionError{TypeName: entry.Name, Err: fmt.Errorf("%T is not a document loader", instance)}
	}
	docs, err := ld.Load(ctx)
	if err != nil {
		return nil, &ConstructionError{TypeName: entry.Name, Err: err}
	}

	if hasMetadata && metadata != nil {
		meta, err := decodeMetadata(metadata)
		if err != nil {
			return nil, err
		}
		for i := range docs {
			docs[i].Metadata = cloneParams(meta)
		}
	}
	return docs, nil
}

// fileFilterPredicate turns a comma-separated substring list into a path
// predicate, e.g. "txt,csv" accepts any path containing txt or csv.
func fileFilterPredicate(filter string) func(string) bool {
	var patterns []string
	for _, p := range strings.Split(filter, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return func(path string) bool {
		for _, p := range patterns {
			if strings.Contains(path, p) {
				return true
			}
		}
		return false
	}
}

func decodeMetadata(metadata any) (map[string]any, error) {
	switch m := metadata.(type) {
	case map[string]any:
		return m, nil
	case string:
		var decoded map[string]any
		if err := json.Unmarshal([]byte(m), &decoded); err != nil {
			return nil, &InvalidMetadataError{Got: fmt.Sprintf("unparseable string %q", m)}
		}
		return decoded, nil
	default:
		return nil, &InvalidMetadataError{Got: fmt.Sprintf("%T", metadata)}
	}
}

func (e *Engine) buildTextSplitter(ctx context.Context, entry *registry.Entry, params map[string]any) (any, error) {
	params = cloneParams(params)
	raw, ok := params["documents"]
	delete(params, "documents")
	if !ok || raw == nil {
		return nil, &MissingDocumentsError{TypeName: entry.Name}
	}
	docs, err := registry.DocumentsParam(map[string]any{"documents": raw}, "documents")
	if err != nil {
		return nil, &ConstructionError{TypeName: entry.Name, Err: err}
	}
	if len(docs) == 0 {
		return nil, &MissingDocumentsError{TypeName: entry.Name}
	}

	instance, err := e.construct(ctx, entry, params)
	if err != nil {
		return nil, err
	}
	splitter, ok := instance.(textsplitter.TextSplitter)
	if !ok {
		return nil, &ConstructionError{TypeName: entry.Name, Err: fmt.Errorf("%T is not a text splitter", instance)}
	}
	split, err := textsplitter.SplitDocuments(splitter, docs)
	if err != nil {
		return nil, &ConstructionError{TypeName: entry.Name, Err: err}
	}
	return split, nil
}

func (e *Engine) buildUtility(ctx context.Context, typeName string, entry *registry.Entry, params map[string]any) (any, error) {
	if ctor, ok := entry.Methods[registry.MethodFromURI]; ok {
		if err := entry.CheckFields(params); err != nil {
			return nil, &ConstructionError{TypeName: typeName, Err: err}
		}
		instance, err := ctor(ctx, params)
		if err != nil {
			return nil, &ConstructionError{TypeName: typeName, Err: err}
		}
		return instance, nil
	}
	return e.construct(ctx, entry, params)
}

func (e *Engine) buildChain(ctx context.Context, typeName string, entry *registry.Entry, params map[string]any) (any, error) {
	if store, ok := params["retriever"].(vectorstores.VectorStore); ok {
		params = cloneParams(params)
		params["retriever"] = vectorstores.ToRetriever(store, defaultRetrieverK)
	}

	if method, ok := e.fromMethods[typeName]; ok {
		ctor, ok := entry.Methods[method]
		if !ok {
			return nil, &MissingFactoryMethodError{TypeName: typeName, Method: method}
		}
		if err := entry.CheckFields(params); err != nil {
			return nil, &ConstructionError{TypeName: typeName, Err: err}
		}
		instance, err := ctor(ctx, params)
		if err != nil {
			return nil, &ConstructionError{TypeName: typeName, Err: err}
		}
		return instance, nil
	}
	return e.construct(ctx, entry, params)
}

// buildAgent wires a bare agent to its tools and wraps the pair into a
// runnable executor. Only the tool names and the chain reach the bare
// agent; the executor supplies output parsing and the iteration bound.
func (e *Engine) buildAgent(params map[string]any, entry *registry.Entry) (any, error) {
	llmChain, ok := params["llm_chain"].(chains.Chain)
	if !ok || llmChain == nil {
		return nil, &MissingChainError{TypeName: entry.Name}
	}
	toolInstances, err := allowedTools(params)
	if err != nil {
		return nil, &ConstructionError{TypeName: entry.Name, Err: err}
	}
	toolNames := make([]string, len(toolInstances))
	for i, tl := range toolInstances {
		toolNames[i] = tl.Name()
	}

	if entry.NewAgent == nil {
		return nil, &ConstructionError{TypeName: entry.Name, Err: errors.New("not an agent type")}
	}
	bare, err := entry.NewAgent(toolNames, llmChain)
	if err != nil {
		return nil, &ConstructionError{TypeName: entry.Name, Err: err}
	}

	opts := []agent.Option{agent.WithLogger(e.logger)}
	if maxIterations, err := registry.IntParam(params, "max_iterations", 0); err != nil {
		return nil, &ConstructionError{TypeName: entry.Name, Err: err}
	} else if maxIterations > 0 {
		opts = append(opts, agent.WithMaxIterations(maxIterations))
	}
	return agent.FromAgentAndTools(bare, toolInstances, opts...), nil
}

// allowedTools reads the agent's tool instances, wrapping a bare single
// tool into a one-element list.
func allowedTools(params map[string]any) ([]tools.Tool, error) {
	v, ok := params["allowed_tools"]
	if !ok || v == nil {
		return nil, nil
	}
	if single, ok := v.(tools.Tool); ok {
		return []tools.Tool{single}, nil
	}
	return registry.ToolsParam(params, "allowed_tools")
}

func cloneParams(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}
