// Package instantiate turns flow nodes into live components. The Engine
// normalizes node parameters, resolves the node's type against the
// override table and the registry, and dispatches on the node's category
// to the matching construction protocol: prompts collect their tools,
// loaders attach metadata and split, vector stores index documents,
// chains route through class factories, and agents come back as runnable
// executors.
package instantiate
