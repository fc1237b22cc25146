package emit

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/rescomp/internal/diag"
	"github.com/vk/rescomp/internal/graph"
	"github.com/vk/rescomp/internal/numeric"
	"github.com/vk/rescomp/internal/record"
	"github.com/vk/rescomp/internal/resolve"
	"github.com/vk/rescomp/internal/template"
)

// resolvedGraph folds records, runs resolution, and fails the test on any
// fatal diagnostic, returning a graph ready for rendering.
func resolvedGraph(t *testing.T, recs ...record.ParsedRecord) *graph.Graph {
	t.Helper()
	ctx := context.Background()
	b := graph.NewBuilder(graph.BuilderOptions{})
	for i := range recs {
		b.Add(ctx, &recs[i])
	}
	g, diags := b.Finish(ctx)
	require.False(t, diags.HasErrors(), "fold: %s", diags.Error())

	for _, n := range g.Winners() {
		if nv, ok := n.Value.(record.NumberValue); ok {
			val, err := numeric.Classify(nv.Raw, nv.Hint)
			require.NoError(t, err)
			n.Number = val
		}
		if tv, ok := n.Value.(record.TemplateValue); ok {
			def, tdiags := template.Compile(n.Key.Name, tv.Spec, n.Origin)
			require.False(t, tdiags.HasErrors(), "template: %s", tdiags.Error())
			n.Template = def
		}
	}

	rdiags := resolve.Run(ctx, g)
	require.False(t, rdiags.HasErrors(), "resolve: %s", rdiags.Error())
	return g
}

func unitByPath(t *testing.T, units []Unit, path string) Unit {
	t.Helper()
	for _, u := range units {
		if u.Path == path {
			return u
		}
	}
	require.Failf(t, "missing unit", "no unit at %q", path)
	return Unit{}
}

func TestRenderNestedView(t *testing.T) {
	g := resolvedGraph(t,
		record.ParsedRecord{Name: "debug", KindTag: "bool", Raw: "true"},
		record.ParsedRecord{Name: "primary", KindTag: "color", Raw: "#FF5722"},
		record.ParsedRecord{Name: "max_retries", KindTag: "number", Raw: "3"},
		record.ParsedRecord{Name: "app_name", KindTag: "string", Raw: "My App"},
		record.ParsedRecord{Namespace: []string{"ui"}, Name: "title", KindTag: "string", Raw: "UI Title"},
	)

	units, diags := Render(context.Background(), g, Options{})
	require.False(t, diags.HasErrors())
	require.Len(t, units, 3)

	root := unitByPath(t, units, "res/res.go")
	assert.Equal(t, "res", root.Package)
	wantRoot := `// Code generated by rescomp. DO NOT EDIT.

package res

const (
	BoolDebug = true
	ColorPrimary = "#FF5722"
	NumberMaxRetries int64 = 3
	StringAppName = "My App"
)

var ColorPrimaryARGB = [4]uint8{0xFF, 0xFF, 0x57, 0x22}
`
	if diff := cmp.Diff(wantRoot, root.Content); diff != "" {
		t.Errorf("root unit mismatch (-want +got):\n%s", diff)
	}

	ui := unitByPath(t, units, "res/ui/ui.go")
	assert.Equal(t, "ui", ui.Package)
	wantUI := `// Code generated by rescomp. DO NOT EDIT.

package ui

const (
	StringTitle = "UI Title"
)
`
	if diff := cmp.Diff(wantUI, ui.Content); diff != "" {
		t.Errorf("ui unit mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderAliasView(t *testing.T) {
	g := resolvedGraph(t,
		record.ParsedRecord{Name: "app_name", KindTag: "string", Raw: "My App"},
		record.ParsedRecord{Namespace: []string{"ui"}, Name: "app_name", KindTag: "string", Raw: "UI App"},
		record.ParsedRecord{Name: "greeting", KindTag: "template", Template: &record.TemplateSpec{
			Text:   "Hi {name}",
			Params: []record.TemplateParam{{Name: "name", Type: "string"}},
		}},
	)

	units, diags := Render(context.Background(), g, Options{})
	require.False(t, diags.HasErrors())

	alias := unitByPath(t, units, "r/r.go")
	assert.Equal(t, "r", alias.Package)
	assert.Contains(t, alias.Content, `StringAppName = "My App"`)
	assert.Contains(t, alias.Content, `StringUiAppName = "UI App"`)
	// Templates are callables, not values; the alias view excludes them.
	assert.NotContains(t, alias.Content, "Greeting")
}

func TestRenderTemplateFunction(t *testing.T) {
	g := resolvedGraph(t,
		record.ParsedRecord{Name: "greeting", KindTag: "template", Template: &record.TemplateSpec{
			Text: "Hello {name}, you have {count} messages!",
			Params: []record.TemplateParam{
				{Name: "name", Type: "string"},
				{Name: "count", Type: "int"},
			},
		}},
	)

	units, diags := Render(context.Background(), g, Options{})
	require.False(t, diags.HasErrors())

	root := unitByPath(t, units, "res/res.go")
	assert.Contains(t, root.Content, "\t\"fmt\"\n")
	assert.Contains(t, root.Content,
		"func Greeting(name string, count int64) string {\n"+
			"\treturn fmt.Sprintf(\"Hello %[1]v, you have %[2]v messages!\", name, count)\n"+
			"}\n")
}

func TestRenderSharesBigDecimalDeclarations(t *testing.T) {
	g := resolvedGraph(t,
		record.ParsedRecord{Name: "big_a", KindTag: "number", Raw: "99999999999999999999"},
		record.ParsedRecord{Name: "big_b", KindTag: "number", Raw: "99999999999999999999"},
	)

	units, diags := Render(context.Background(), g, Options{})
	require.False(t, diags.HasErrors())

	root := unitByPath(t, units, "res/res.go")
	assert.Contains(t, root.Content, `"github.com/cockroachdb/apd/v3"`)
	assert.Contains(t, root.Content, `var NumberBigA = mustDecimal("99999999999999999999")`)
	assert.Contains(t, root.Content, "var NumberBigB = NumberBigA")
	assert.Contains(t, root.Content, "func mustDecimal(s string) *apd.Decimal {")
}

func TestRenderArrays(t *testing.T) {
	g := resolvedGraph(t,
		record.ParsedRecord{Name: "locales", KindTag: "array", ElemKind: "string", RawList: []string{"en", "de"}},
		record.ParsedRecord{Name: "ports", KindTag: "array", ElemKind: "number", RawList: []string{"80", "443"}},
		record.ParsedRecord{Name: "weights", KindTag: "array", ElemKind: "number", RawList: []string{"1", "2.5"}},
		record.ParsedRecord{Name: "flags", KindTag: "array", ElemKind: "bool", RawList: []string{"true", "false"}},
	)

	units, diags := Render(context.Background(), g, Options{})
	require.False(t, diags.HasErrors())

	root := unitByPath(t, units, "res/res.go")
	assert.Contains(t, root.Content, `var ArrayLocales = []string{"en", "de"}`)
	assert.Contains(t, root.Content, `var ArrayPorts = []int64{80, 443}`)
	assert.Contains(t, root.Content, `var ArrayWeights = []float64{1.0, 2.5}`)
	assert.Contains(t, root.Content, `var ArrayFlags = []bool{true, false}`)
}

func TestRenderProfileOverlay(t *testing.T) {
	g := resolvedGraph(t,
		record.ParsedRecord{Name: "app_name", KindTag: "string", Raw: "Base App"},
		record.ParsedRecord{
			Name: "app_name", KindTag: "string", Raw: "Debug App",
			Origin: diag.Origin{Profile: "debug"},
		},
	)

	units, diags := Render(context.Background(), g, Options{Profile: "debug"})
	require.False(t, diags.HasErrors())
	root := unitByPath(t, units, "res/res.go")
	assert.Contains(t, root.Content, `StringAppName = "Debug App"`)

	units, diags = Render(context.Background(), g, Options{})
	require.False(t, diags.HasErrors())
	root = unitByPath(t, units, "res/res.go")
	assert.Contains(t, root.Content, `StringAppName = "Base App"`)
}

func TestRenderRejectsUnsanitizableNames(t *testing.T) {
	g := resolvedGraph(t,
		record.ParsedRecord{Name: "1234", KindTag: "string", Raw: "x"},
	)

	_, diags := Render(context.Background(), g, Options{})
	require.True(t, diags.HasErrors())
	assert.Equal(t, diag.InvalidIdentifier, diags.Errs()[0].Kind)
}

func TestRenderIsIdempotent(t *testing.T) {
	g := resolvedGraph(t,
		record.ParsedRecord{Name: "app_name", KindTag: "string", Raw: "My App"},
		record.ParsedRecord{Namespace: []string{"ui"}, Name: "title", KindTag: "string", Raw: "T"},
	)

	first, diags := Render(context.Background(), g, Options{})
	require.False(t, diags.HasErrors())
	second, diags := Render(context.Background(), g, Options{})
	require.False(t, diags.HasErrors())

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("renders differ (-first +second):\n%s", diff)
	}
}
