// Package flow defines the visual-flow document boundary: node records as
// they arrive from a flow document, the category tags that drive component
// construction, dependency ordering over node edges, and the one legacy
// rewrite that turns a ZeroShotPrompt node into a synthesized
// PromptTemplate node.
//
// The package owns no behavior beyond the document shapes themselves; the
// conversion of a resolved Node into a live instance lives in package
// instantiate.
package flow
