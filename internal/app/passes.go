package app

import (
	"context"
	"fmt"

	"github.com/vk/rescomp/internal/ctxlog"
	"github.com/vk/rescomp/internal/diag"
	"github.com/vk/rescomp/internal/graph"
	"github.com/vk/rescomp/internal/numeric"
	"github.com/vk/rescomp/internal/record"
	"github.com/vk/rescomp/internal/resolve"
	"github.com/vk/rescomp/internal/template"
)

// Analyze runs the semantic passes over a fully folded graph: numeric
// classification, template compilation, then reference resolution. The
// resolver requires every key to be present, so Analyze must not run until
// the fold is finished.
func Analyze(ctx context.Context, g *graph.Graph) diag.Diagnostics {
	diags := classifyNumbers(ctx, g)
	diags = diags.Extend(compileTemplates(ctx, g))
	diags = diags.Extend(resolve.Run(ctx, g))
	return diags
}

// classifyNumbers decides the storage representation of every number
// winner. A literal that violates its explicit type override is fatal.
func classifyNumbers(ctx context.Context, g *graph.Graph) diag.Diagnostics {
	logger := ctxlog.FromContext(ctx)
	var diags diag.Diagnostics

	for _, node := range g.Winners() {
		nv, ok := node.Value.(record.NumberValue)
		if !ok {
			continue
		}
		val, err := numeric.Classify(nv.Raw, nv.Hint)
		if err != nil {
			origin := node.Origin
			diags = diags.Append(&diag.Diagnostic{
				Severity: diag.Error,
				Kind:     diag.NumericTypeRange,
				Pass:     "classify",
				Summary:  fmt.Sprintf("number %s is out of range", node.Key),
				Detail:   err.Error(),
				Subject:  &origin,
			})
			node.Status = graph.Failed
			continue
		}
		node.Number = val
	}

	logger.Debug("Numeric classification complete.", "diagnostics", len(diags))
	return diags
}

// compileTemplates turns every template winner into a callable definition.
func compileTemplates(ctx context.Context, g *graph.Graph) diag.Diagnostics {
	logger := ctxlog.FromContext(ctx)
	var diags diag.Diagnostics

	for _, node := range g.Winners() {
		tv, ok := node.Value.(record.TemplateValue)
		if !ok {
			continue
		}
		def, tdiags := template.Compile(node.Key.Name, tv.Spec, node.Origin)
		diags = diags.Extend(tdiags)
		if def == nil {
			node.Status = graph.Failed
			continue
		}
		node.Template = def
	}

	logger.Debug("Template compilation complete.", "diagnostics", len(diags))
	return diags
}
