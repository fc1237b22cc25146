package graph

import (
	"context"
	"fmt"

	"github.com/vk/rescomp/internal/ctxlog"
	"github.com/vk/rescomp/internal/diag"
	"github.com/vk/rescomp/internal/record"
)

// BuilderOptions configure the graph fold.
type BuilderOptions struct {
	// DuplicatesAreFatal promotes DuplicateKey warnings to errors.
	DuplicatesAreFatal bool
	// IncludeTest admits test-scoped records into the graph.
	IncludeTest bool
}

// Builder folds normalized records into a Graph. Records must be fed in
// sorted-file order, and in declaration order within each file, so that
// duplicate precedence is deterministic. The builder owns the graph
// exclusively until Finish.
type Builder struct {
	opts  BuilderOptions
	graph *Graph
	diags diag.Diagnostics
}

// NewBuilder returns a builder producing an empty graph.
func NewBuilder(opts BuilderOptions) *Builder {
	return &Builder{opts: opts, graph: New()}
}

// Add normalizes one parsed record and inserts the candidate node. The
// namespace path arrives on the record itself; no ambient nesting state is
// consulted. Malformed records are dropped with a warning; duplicate keys
// keep the first-seen winner.
func (b *Builder) Add(ctx context.Context, rec *record.ParsedRecord) {
	logger := ctxlog.FromContext(ctx)

	if rec.Origin.IsTest && !b.opts.IncludeTest {
		logger.Debug("Skipping test-scoped record.", "name", rec.Name, "file", rec.Origin.File)
		return
	}

	cand, d := record.Normalize(rec)
	if d != nil {
		logger.Debug("Dropped malformed record.", "name", rec.Name, "detail", d.Detail)
		b.diags = b.diags.Append(d)
		return
	}

	node := &Node{
		Key: Key{
			Namespace: rec.Namespace,
			Name:      rec.Name,
			Kind:      cand.Kind,
			Profile:   rec.Origin.Profile,
		},
		Kind:   cand.Kind,
		Value:  cand.Value,
		Origin: rec.Origin,
	}

	if b.graph.Insert(node) {
		winner := b.graph.Winner(node.Key)
		severity := diag.Warning
		kind := diag.DuplicateKey
		if b.opts.DuplicatesAreFatal {
			severity = diag.Error
		}
		origin := winner.Origin
		b.diags = b.diags.Append(&diag.Diagnostic{
			Severity: severity,
			Kind:     kind,
			Pass:     "graph",
			Summary:  fmt.Sprintf("duplicate definition of %s", node.Key),
			Detail: fmt.Sprintf("first defined at %s; the definition at %s is ignored",
				winner.Origin, node.Origin),
			Subject: &origin,
			Related: []diag.Origin{node.Origin},
		})
		logger.Warn("Duplicate resource key.", "key", node.Key.ID(),
			"winner", winner.Origin.String(), "loser", node.Origin.String())
	}
}

// AddFile folds every record of one file in declaration order.
func (b *Builder) AddFile(ctx context.Context, recs []record.ParsedRecord) {
	for i := range recs {
		b.Add(ctx, &recs[i])
	}
}

// Finish releases the graph and the diagnostics accumulated during the
// fold. After Finish, exactly one winner exists per distinct key.
func (b *Builder) Finish(ctx context.Context) (*Graph, diag.Diagnostics) {
	ctxlog.FromContext(ctx).Debug("Graph fold complete.",
		"keys", b.graph.Len(), "diagnostics", len(b.diags))
	return b.graph, b.diags
}
