// Package registry resolves (category, type name) pairs from flow
// documents to constructible entries. The lookup is two-level: a
// process-wide, read-only override table is consulted first, then the
// registered class library. Default() builds the standard catalog on top
// of langchaingo plus the components in the tool, loader, vectorstore,
// and utility packages.
package registry
