package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/flowsmith/flowsmith/flow"
	"github.com/flowsmith/flowsmith/instantiate"
	"github.com/flowsmith/flowsmith/log"
	"github.com/flowsmith/flowsmith/store"
)

// Event reports the outcome of building one node.
type Event struct {
	NodeID   string
	TypeName string
	Index    int
	Total    int
	Err      error
}

// Progress receives an Event after each node build attempt.
type Progress func(Event)

// Result is a completed flow build.
type Result struct {
	// SessionID identifies this build.
	SessionID string
	// Instances maps node IDs to their built objects.
	Instances map[string]any
	// Terminal is the last node's instance in topological order.
	Terminal any
	// Events holds the per-node build log in build order.
	Events []Event
}

// Builder builds flows node by node.
type Builder struct {
	engine   *instantiate.Engine
	flows    store.FlowStore
	progress Progress
	logger   log.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithEngine sets the instantiation engine.
func WithEngine(e *instantiate.Engine) Option {
	return func(b *Builder) { b.engine = e }
}

// WithFlowStore sets the store that records built flows.
func WithFlowStore(s store.FlowStore) Option {
	return func(b *Builder) { b.flows = s }
}

// WithProgress sets the per-node progress callback.
func WithProgress(p Progress) Option {
	return func(b *Builder) { b.progress = p }
}

// WithLogger sets the builder's logger.
func WithLogger(l log.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a Builder. Without options it uses a fresh engine
// over the default catalog and no flow store.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		engine: instantiate.New(nil),
		logger: log.GetDefaultLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build instantiates every node of the document in dependency order. A
// node failure aborts the build and names the offending node.
func (b *Builder) Build(ctx context.Context, doc *flow.Document) (*Result, error) {
	work := &flow.Document{
		ID:    doc.ID,
		Name:  doc.Name,
		Nodes: flow.ReplaceZeroShotPrompt(doc.Nodes),
		Edges: doc.Edges,
	}

	order, err := work.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	result := &Result{
		SessionID: uuid.NewString(),
		Instances: make(map[string]any, len(order)),
	}
	start := time.Now()
	b.logger.Info("building flow %q: %d nodes", doc.Name, len(order))

	for i, id := range order {
		record := work.NodeByID(id)
		node := record.ToNode()
		b.inject(work, node, result.Instances)

		instance, err := b.engine.Instantiate(ctx, node)
		event := Event{
			NodeID:   id,
			TypeName: node.TypeName,
			Index:    i + 1,
			Total:    len(order),
			Err:      err,
		}
		result.Events = append(result.Events, event)
		if b.progress != nil {
			b.progress(event)
		}
		if err != nil {
			b.logger.Error("node %s (%s) failed: %v", id, node.TypeName, err)
			return nil, fmt.Errorf("node %s (%s): %w", id, node.TypeName, err)
		}
		b.logger.Debug("built node %s (%s)", id, node.TypeName)
		result.Instances[id] = instance
	}

	if len(order) > 0 {
		result.Terminal = result.Instances[order[len(order)-1]]
	}
	b.logger.Info("flow %q built in %s", doc.Name, time.Since(start).Round(time.Millisecond))

	if err := b.markBuilt(ctx, doc); err != nil {
		b.logger.Warn("flow %q built but not recorded: %v", doc.Name, err)
	}
	return result, nil
}

// BuildJSON parses a flow document and builds it.
func (b *Builder) BuildJSON(ctx context.Context, data []byte) (*Result, error) {
	doc, err := flow.ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return b.Build(ctx, doc)
}

// inject copies the built instances of upstream nodes into the node's
// params, under the parameter named by each edge's target handle.
func (b *Builder) inject(doc *flow.Document, node *flow.Node, instances map[string]any) {
	for _, edge := range doc.Edges {
		if edge.Target != node.ID || edge.TargetHandle == "" {
			continue
		}
		instance, ok := instances[edge.Source]
		if !ok {
			continue
		}
		if existing, ok := node.Params[edge.TargetHandle]; ok {
			// Several sources may feed one list parameter, e.g. an agent's
			// tools.
			if list, ok := existing.([]any); ok {
				node.Params[edge.TargetHandle] = append(list, instance)
				continue
			}
			node.Params[edge.TargetHandle] = []any{existing, instance}
			continue
		}
		node.Params[edge.TargetHandle] = instance
	}
}

func (b *Builder) markBuilt(ctx context.Context, doc *flow.Document) error {
	if b.flows == nil || doc.ID == "" {
		return nil
	}
	return b.flows.Save(ctx, doc.ID, &store.Record{Flow: doc, Built: true})
}
