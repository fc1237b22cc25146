package emit

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/vk/rescomp/internal/ctxlog"
	"github.com/vk/rescomp/internal/diag"
	"github.com/vk/rescomp/internal/graph"
	"github.com/vk/rescomp/internal/numeric"
	"github.com/vk/rescomp/internal/record"
	"github.com/vk/rescomp/internal/template"
)

// Unit is one rendered source file plus the qualified path it represents.
type Unit struct {
	Path    string
	Package string
	Content string
}

// Options configures rendering. Zero values select the defaults.
type Options struct {
	// RootPackage names the package at the root of the nested view.
	// Defaults to "res".
	RootPackage string
	// AliasPackage names the flattened alias package. Defaults to "r".
	AliasPackage string
	// Profile selects which profile-qualified winners override their
	// unqualified counterparts. Winners of any other profile are omitted.
	Profile string
}

// Render builds both output views from a resolved graph. It reads the
// graph without mutating it, so rendering twice yields identical units.
func Render(ctx context.Context, g *graph.Graph, opts Options) ([]Unit, diag.Diagnostics) {
	if opts.RootPackage == "" {
		opts.RootPackage = "res"
	}
	if opts.AliasPackage == "" {
		opts.AliasPackage = "r"
	}

	r := &renderer{opts: opts}
	selected := r.selectNodes(g)
	root := buildTree(selected)

	var units []Unit
	r.renderTree(root, nil, &units)

	var flat []*graph.Node
	for _, n := range selected {
		if n.Kind != record.KindTemplate {
			flat = append(flat, n)
		}
	}
	units = append(units, r.renderAliasUnit(buildAliases(flat)))

	ctxlog.FromContext(ctx).Debug("Rendered source units.",
		"units", len(units), "resources", len(selected))
	return units, r.diags
}

type renderer struct {
	opts  Options
	diags diag.Diagnostics
}

// selectNodes returns the winners that participate in emission, with
// profile-qualified definitions overriding their unqualified counterparts
// when the profile is active. Failed nodes are dropped; their diagnostics
// have already made the build fatal.
func (r *renderer) selectNodes(g *graph.Graph) []*graph.Node {
	base := make(map[string]*graph.Node)
	var order []string
	for _, n := range g.Winners() {
		if n.Status == graph.Failed {
			continue
		}
		if n.Key.Profile != "" && n.Key.Profile != r.opts.Profile {
			continue
		}
		key := n.Key
		key.Profile = ""
		id := key.ID()
		if _, ok := base[id]; !ok {
			order = append(order, id)
		} else if n.Key.Profile == "" {
			continue
		}
		base[id] = n
	}
	nodes := make([]*graph.Node, 0, len(order))
	for _, id := range order {
		nodes = append(nodes, base[id])
	}
	return nodes
}

type nsNode struct {
	children   map[string]*nsNode
	childOrder []string
	nodes      []*graph.Node
}

func newNSNode() *nsNode {
	return &nsNode{children: make(map[string]*nsNode)}
}

func buildTree(nodes []*graph.Node) *nsNode {
	root := newNSNode()
	for _, n := range nodes {
		cur := root
		for _, seg := range n.Key.Namespace {
			child, ok := cur.children[seg]
			if !ok {
				child = newNSNode()
				cur.children[seg] = child
				cur.childOrder = append(cur.childOrder, seg)
			}
			cur = child
		}
		cur.nodes = append(cur.nodes, n)
	}
	return root
}

// renderTree walks the namespace tree in pre-order, emitting one unit per
// tree node.
func (r *renderer) renderTree(node *nsNode, segments []string, units *[]Unit) {
	pkg := r.opts.RootPackage
	if len(segments) > 0 {
		name, ok := packageName(segments[len(segments)-1])
		if !ok {
			origin := firstOrigin(node)
			r.diags = r.diags.Append(&diag.Diagnostic{
				Severity: diag.Error,
				Kind:     diag.InvalidIdentifier,
				Pass:     "emit",
				Summary: fmt.Sprintf("namespace segment %q cannot form a package name",
					segments[len(segments)-1]),
				Subject: origin,
			})
			return
		}
		pkg = name
	}

	dir := []string{r.opts.RootPackage}
	for _, seg := range segments {
		name, _ := packageName(seg)
		dir = append(dir, name)
	}

	w := newUnitWriter(pkg, r)
	for _, n := range node.nodes {
		w.addNode(r.nodeIdentifier(n), n)
	}
	*units = append(*units, Unit{
		Path:    path.Join(append(dir, pkg+".go")...),
		Package: pkg,
		Content: w.render(),
	})

	for _, seg := range node.childOrder {
		r.renderTree(node.children[seg], append(segments, seg), units)
	}
}

func (r *renderer) renderAliasUnit(entries []aliasEntry) Unit {
	w := newUnitWriter(r.opts.AliasPackage, r)
	for _, e := range entries {
		name, ok := exportedName(e.Alias)
		if !ok {
			origin := e.Node.Origin
			r.diags = r.diags.Append(&diag.Diagnostic{
				Severity: diag.Error,
				Kind:     diag.InvalidIdentifier,
				Pass:     "emit",
				Summary:  fmt.Sprintf("alias %q cannot form an identifier", e.Alias),
				Subject:  &origin,
			})
			continue
		}
		w.addNode(kindPrefix(e.Node.Kind)+name, e.Node)
	}
	return Unit{
		Path:    path.Join(r.opts.AliasPackage, r.opts.AliasPackage+".go"),
		Package: r.opts.AliasPackage,
		Content: w.render(),
	}
}

// nodeIdentifier computes the in-package identifier for a node. Names are
// kind-prefixed because two kinds may legally share a name within one
// namespace.
func (r *renderer) nodeIdentifier(n *graph.Node) string {
	name, ok := exportedName(n.Key.Name)
	if !ok {
		origin := n.Origin
		r.diags = r.diags.Append(&diag.Diagnostic{
			Severity: diag.Error,
			Kind:     diag.InvalidIdentifier,
			Pass:     "emit",
			Summary:  fmt.Sprintf("resource name %q cannot form an identifier", n.Key.Name),
			Subject:  &origin,
		})
		return ""
	}
	if n.Kind == record.KindTemplate {
		return name
	}
	return kindPrefix(n.Kind) + name
}

func kindPrefix(k record.Kind) string {
	name, _ := exportedName(string(k))
	return name
}

func firstOrigin(node *nsNode) *diag.Origin {
	if len(node.nodes) > 0 {
		o := node.nodes[0].Origin
		return &o
	}
	for _, seg := range node.childOrder {
		if o := firstOrigin(node.children[seg]); o != nil {
			return o
		}
	}
	return nil
}

// unitWriter accumulates the declarations of one source unit and renders
// them as a Go file.
type unitWriter struct {
	pkg    string
	r      *renderer
	consts []string
	vars   []string
	funcs  []string

	needsFmt     bool
	needsDecimal bool
	used         map[string]diag.Origin
	bigByLiteral map[string]string
}

func newUnitWriter(pkg string, r *renderer) *unitWriter {
	return &unitWriter{
		pkg:          pkg,
		r:            r,
		used:         make(map[string]diag.Origin),
		bigByLiteral: make(map[string]string),
	}
}

// claim reserves an identifier within the unit. A second claim of the same
// name is an InvalidIdentifier error: two distinct resources sanitized
// into the same emitted name.
func (w *unitWriter) claim(name string, origin diag.Origin) bool {
	if prev, ok := w.used[name]; ok {
		o := origin
		w.r.diags = w.r.diags.Append(&diag.Diagnostic{
			Severity: diag.Error,
			Kind:     diag.InvalidIdentifier,
			Pass:     "emit",
			Summary:  fmt.Sprintf("identifier %q is produced by two distinct resources", name),
			Subject:  &o,
			Related:  []diag.Origin{prev},
		})
		return false
	}
	w.used[name] = origin
	return true
}

func (w *unitWriter) addNode(name string, n *graph.Node) {
	if name == "" || !w.claim(name, n.Origin) {
		return
	}

	switch v := n.Value.(type) {
	case record.StringValue:
		w.consts = append(w.consts, fmt.Sprintf("%s = %s", name, strconv.Quote(n.Literal)))
	case record.BoolValue:
		w.consts = append(w.consts, fmt.Sprintf("%s = %t", name, v.Value))
	case record.ColorValue:
		w.addColor(name, n)
	case record.NumberValue:
		w.addNumber(name, n)
	case record.ArrayValue:
		w.addArray(name, v)
	case record.TemplateValue:
		w.addTemplate(name, n.Template)
	}
}

func (w *unitWriter) addColor(name string, n *graph.Node) {
	w.consts = append(w.consts, fmt.Sprintf("%s = %s", name, strconv.Quote(n.Literal)))
	a, red, g, b, ok := parseHexARGB(n.Literal)
	if !ok {
		return
	}
	argbName := name + "ARGB"
	if !w.claim(argbName, n.Origin) {
		return
	}
	w.vars = append(w.vars, fmt.Sprintf("var %s = [4]uint8{0x%02X, 0x%02X, 0x%02X, 0x%02X}",
		argbName, a, red, g, b))
}

func (w *unitWriter) addNumber(name string, n *graph.Node) {
	num := n.Number
	if num == nil {
		return
	}
	if num.Repr == numeric.Big {
		w.addBig(name, num.Literal)
		return
	}
	w.consts = append(w.consts, fmt.Sprintf("%s %s = %s", name, num.GoType, num.Literal))
}

// addBig emits one declaration per distinct decimal literal; later uses of
// the same literal reference the first declaration.
func (w *unitWriter) addBig(name, literal string) {
	if first, ok := w.bigByLiteral[literal]; ok {
		w.vars = append(w.vars, fmt.Sprintf("var %s = %s", name, first))
		return
	}
	w.needsDecimal = true
	w.bigByLiteral[literal] = name
	w.vars = append(w.vars, fmt.Sprintf("var %s = mustDecimal(%s)", name, strconv.Quote(literal)))
}

func (w *unitWriter) addArray(name string, v record.ArrayValue) {
	var elems []string
	goType := "[]string"

	switch v.Elem {
	case record.KindString:
		for _, item := range v.Items {
			sv := item.(record.StringValue)
			elems = append(elems, strconv.Quote(sv.Expr.LiteralText()))
		}
	case record.KindColor:
		for _, item := range v.Items {
			elems = append(elems, strconv.Quote(item.(record.ColorValue).Hex))
		}
	case record.KindBool:
		goType = "[]bool"
		for _, item := range v.Items {
			elems = append(elems, fmt.Sprintf("%t", item.(record.BoolValue).Value))
		}
	case record.KindNumber:
		var ok bool
		goType, elems, ok = w.numberArray(v.Items)
		if !ok {
			return
		}
	}

	w.vars = append(w.vars, fmt.Sprintf("var %s = %s{%s}", name, goType, strings.Join(elems, ", ")))
}

// numberArray picks the narrowest element type that represents every
// member: int64 when all elements are integers, float64 when all fit a
// double, decimals otherwise.
func (w *unitWriter) numberArray(items []record.Value) (string, []string, bool) {
	values := make([]*numeric.Value, 0, len(items))
	widest := numeric.Int
	for _, item := range items {
		nv := item.(record.NumberValue)
		val, err := numeric.Classify(nv.Raw, nv.Hint)
		if err != nil {
			return "", nil, false
		}
		values = append(values, val)
		if val.Repr > widest {
			widest = val.Repr
		}
	}

	var elems []string
	switch widest {
	case numeric.Int:
		for _, val := range values {
			elems = append(elems, val.Literal)
		}
		return "[]int64", elems, true
	case numeric.Float:
		for _, val := range values {
			lit := val.Literal
			if val.Repr == numeric.Int {
				lit += ".0"
			}
			elems = append(elems, lit)
		}
		return "[]float64", elems, true
	default:
		w.needsDecimal = true
		for _, val := range values {
			elems = append(elems, fmt.Sprintf("mustDecimal(%s)", strconv.Quote(val.Literal)))
		}
		return "[]*apd.Decimal", elems, true
	}
}

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// addTemplate renders a template definition as a function whose signature
// follows the declared parameter order.
func (w *unitWriter) addTemplate(name string, def *template.Definition) {
	if def == nil {
		return
	}
	w.needsFmt = true

	index := make(map[string]int, len(def.Params))
	params := make([]string, 0, len(def.Params))
	args := make([]string, 0, len(def.Params))
	for i, p := range def.Params {
		index[p.Name] = i + 1
		params = append(params, fmt.Sprintf("%s %s", p.Name, p.Type.GoType()))
		args = append(args, p.Name)
	}

	format := strings.ReplaceAll(def.Text, "%", "%%")
	format = placeholderPattern.ReplaceAllStringFunc(format, func(m string) string {
		pname := m[1 : len(m)-1]
		return fmt.Sprintf("%%[%d]v", index[pname])
	})

	w.funcs = append(w.funcs, fmt.Sprintf(
		"func %s(%s) string {\n\treturn fmt.Sprintf(%s, %s)\n}",
		name, strings.Join(params, ", "), strconv.Quote(format), strings.Join(args, ", ")))
}

func (w *unitWriter) render() string {
	var sb strings.Builder
	sb.WriteString("// Code generated by rescomp. DO NOT EDIT.\n\n")
	fmt.Fprintf(&sb, "package %s\n", w.pkg)

	var imports []string
	if w.needsFmt {
		imports = append(imports, `"fmt"`)
	}
	if w.needsDecimal {
		if w.needsFmt {
			imports = append(imports, "")
		}
		imports = append(imports, `"github.com/cockroachdb/apd/v3"`)
	}
	if len(imports) > 0 {
		sb.WriteString("\nimport (\n")
		for _, imp := range imports {
			if imp == "" {
				sb.WriteString("\n")
				continue
			}
			sb.WriteString("\t" + imp + "\n")
		}
		sb.WriteString(")\n")
	}

	if len(w.consts) > 0 {
		sb.WriteString("\nconst (\n")
		for _, line := range w.consts {
			sb.WriteString("\t" + line + "\n")
		}
		sb.WriteString(")\n")
	}

	for _, line := range w.vars {
		sb.WriteString("\n" + line + "\n")
	}

	if w.needsDecimal {
		sb.WriteString("\nfunc mustDecimal(s string) *apd.Decimal {\n")
		sb.WriteString("\td, _, err := apd.NewFromString(s)\n")
		sb.WriteString("\tif err != nil {\n\t\tpanic(err)\n\t}\n")
		sb.WriteString("\treturn d\n}\n")
	}

	for _, fn := range w.funcs {
		sb.WriteString("\n" + fn + "\n")
	}

	return sb.String()
}

// parseHexARGB decodes a #RGB, #RRGGBB or #AARRGGBB literal into alpha,
// red, green and blue components. Three-digit short form expands each
// digit and carries full alpha.
func parseHexARGB(s string) (a, r, g, b uint8, ok bool) {
	hex, found := strings.CutPrefix(s, "#")
	if !found {
		return 0, 0, 0, 0, false
	}
	byteAt := func(i int) uint8 {
		v, err := strconv.ParseUint(hex[i:i+2], 16, 8)
		if err != nil {
			return 0
		}
		return uint8(v)
	}
	switch len(hex) {
	case 3:
		expand := func(i int) uint8 {
			v, err := strconv.ParseUint(hex[i:i+1], 16, 8)
			if err != nil {
				return 0
			}
			return uint8(v*16 + v)
		}
		return 0xFF, expand(0), expand(1), expand(2), true
	case 6:
		return 0xFF, byteAt(0), byteAt(2), byteAt(4), true
	case 8:
		return byteAt(0), byteAt(2), byteAt(4), byteAt(6), true
	}
	return 0, 0, 0, 0, false
}
