// Package pipeline assembles whole flows. The Builder rewrites legacy
// prompt nodes, orders the graph topologically, instantiates each node
// with the results of its upstream nodes injected as parameters, and
// reports per-node progress. The terminal node's instance is the flow's
// product, typically a chain or a runnable agent executor.
package pipeline
