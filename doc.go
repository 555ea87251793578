// Package flowsmith turns declarative flow documents into live language
// model pipelines.
//
// A flow document describes a graph of components: prompts, LLMs, tools,
// document loaders, text splitters, embeddings, vector stores, chains,
// and agents. flowsmith parses the document, rewrites legacy prompt
// nodes, orders the graph, and instantiates each node with the outputs
// of its upstream nodes, producing runnable langchaingo objects.
//
// # Quick Start
//
//	doc, _ := flow.LoadDocument("qa_flow.json")
//
//	builder := pipeline.NewBuilder()
//	result, err := builder.Build(ctx, doc)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	executor := result.Terminal.(*agent.Executor)
//	answer, _ := executor.Run(ctx, "What is 2^10?")
//
// # Packages
//
//   - flow: flow document model, topological ordering, legacy prompt
//     rewriting
//   - registry: component catalog and override table
//   - instantiate: parameter normalization and the per-category
//     construction engine
//   - agent: zero-shot agent and tool-running executor
//   - pipeline: whole-flow builder with progress reporting
//   - store: flow persistence (memory, SQLite, Redis, PostgreSQL)
//   - script: sandboxed compiler for function tool sources
//   - tool, loader, utility, vectorstore: components registered by the
//     default catalog
package flowsmith
