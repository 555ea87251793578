// Package vectorstore provides the in-memory vector store the catalog
// registers for flows that index documents without an external database.
// It implements langchaingo's vectorstores.VectorStore, so the engine can
// wrap it into a retriever like any other store.
package vectorstore
