// Package resolve substitutes reference tokens in string values against the
// winner graph, producing fully literal text. The traversal is an explicit
// depth-first walk with a visiting-state tag per node, so a cycle is a
// first-class detected condition rather than a stack overflow, and every
// node resolves at most once regardless of visiting order.
package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/rescomp/internal/ctxlog"
	"github.com/vk/rescomp/internal/diag"
	"github.com/vk/rescomp/internal/graph"
	"github.com/vk/rescomp/internal/record"
)

// Run resolves every winner node in the graph. It must be called after the
// graph fold is complete (all keys known). A second Run over the same graph
// is a no-op: all nodes are already Resolved or Failed and no further
// diagnostics are produced.
func Run(ctx context.Context, g *graph.Graph) diag.Diagnostics {
	r := &resolver{graph: g}
	logger := ctxlog.FromContext(ctx)

	for _, node := range g.Winners() {
		if node.Status == graph.Unresolved {
			r.resolveFrom(node)
		}
	}

	logger.Debug("Reference resolution complete.", "diagnostics", len(r.diags))
	return r.diags
}

type resolver struct {
	graph *graph.Graph
	diags diag.Diagnostics
}

// frame is one entry of the explicit DFS stack.
type frame struct {
	node *graph.Node
	refs []record.Reference
	next int
	// failed records that some referenced target could not be resolved.
	failed bool
}

// resolveFrom drives the explicit DFS rooted at the given node.
func (r *resolver) resolveFrom(root *graph.Node) {
	stack := []*frame{r.push(root)}

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if top.next >= len(top.refs) {
			r.finish(top)
			stack = stack[:len(stack)-1]
			if len(stack) > 0 && top.node.Status == graph.Failed {
				stack[len(stack)-1].failed = true
			}
			continue
		}

		ref := top.refs[top.next]
		top.next++

		target := r.lookup(top.node, ref)
		if target == nil {
			origin := top.node.Origin
			r.diags = r.diags.Append(&diag.Diagnostic{
				Severity: diag.Error,
				Kind:     diag.UnresolvedReference,
				Pass:     "resolve",
				Summary:  fmt.Sprintf("unresolved reference @%s/%s", ref.Kind, ref.Path),
				Detail:   fmt.Sprintf("referenced from %s", top.node.Key),
				Subject:  &origin,
			})
			top.failed = true
			continue
		}

		if !target.Kind.Textual() {
			origin := top.node.Origin
			r.diags = r.diags.Append(&diag.Diagnostic{
				Severity: diag.Error,
				Kind:     diag.ReferenceTypeMismatch,
				Pass:     "resolve",
				Summary: fmt.Sprintf("reference @%s/%s does not name a literal string value",
					ref.Kind, ref.Path),
				Detail:  fmt.Sprintf("%s nodes cannot be interpolated into %s", target.Kind, top.node.Key),
				Subject: &origin,
			})
			top.failed = true
			continue
		}

		switch target.Status {
		case graph.Resolved:
			// Memoized; nothing to do.
		case graph.Failed:
			// Cause already reported where the target failed.
			top.failed = true
		case graph.Resolving:
			r.reportCycle(stack, target)
			top.failed = true
		case graph.Unresolved:
			stack = append(stack, r.push(target))
		}
	}
}

// push marks a node as being on the active resolution path and builds its
// DFS frame.
func (r *resolver) push(node *graph.Node) *frame {
	node.Status = graph.Resolving
	f := &frame{node: node}
	if sv, ok := node.Value.(record.StringValue); ok {
		f.refs = sv.Expr.References()
	}
	return f
}

// finish transitions a fully visited node to its terminal status and
// memoizes the concatenated literal.
func (r *resolver) finish(f *frame) {
	node := f.node
	if f.failed {
		node.Status = graph.Failed
		return
	}

	switch v := node.Value.(type) {
	case record.StringValue:
		var sb strings.Builder
		for _, seg := range v.Expr {
			if seg.Ref == nil {
				sb.WriteString(seg.Literal)
				continue
			}
			target := r.lookup(node, *seg.Ref)
			sb.WriteString(target.Literal)
		}
		node.Literal = sb.String()
	case record.ColorValue:
		node.Literal = v.Hex
	}
	node.Status = graph.Resolved
}

// lookup finds the winner for a reference token, preferring the referencing
// node's own profile before falling back to the unqualified key.
func (r *resolver) lookup(from *graph.Node, ref record.Reference) *graph.Node {
	key := graph.KeyFromPath(ref.Kind, ref.Path)
	if from.Key.Profile != "" {
		key.Profile = from.Key.Profile
		if n := r.graph.Winner(key); n != nil {
			return n
		}
		key.Profile = ""
	}
	return r.graph.Winner(key)
}

// reportCycle emits a CyclicReference diagnostic carrying the full cycle
// path and fails every node on it.
func (r *resolver) reportCycle(stack []*frame, target *graph.Node) {
	start := 0
	for i, f := range stack {
		if f.node == target {
			start = i
			break
		}
	}

	path := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, f.node.Key.Path())
	}
	path = append(path, target.Key.Path())

	for _, f := range stack[start:] {
		f.node.Status = graph.Failed
		f.failed = true
	}

	origin := target.Origin
	r.diags = r.diags.Append(&diag.Diagnostic{
		Severity: diag.Error,
		Kind:     diag.CyclicReference,
		Pass:     "resolve",
		Summary:  fmt.Sprintf("cyclic reference: %s", strings.Join(path, " -> ")),
		Detail:   fmt.Sprintf("cycle path: [%s]", strings.Join(path, ", ")),
		Subject:  &origin,
	})
}
