package input

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/rescomp/internal/ctxlog"
	"github.com/vk/rescomp/internal/diag"
	"github.com/vk/rescomp/internal/fsutil"
	"github.com/vk/rescomp/internal/record"
)

// DecodeAll decodes every file concurrently and merges the results in the
// given order, so callers passing a sorted file list get records in
// sorted-file, in-file declaration order regardless of scheduling.
func DecodeAll(ctx context.Context, files []string) ([]record.ParsedRecord, diag.Diagnostics, error) {
	type result struct {
		records []record.ParsedRecord
		diags   diag.Diagnostics
		err     error
	}
	results := make([]result, len(files))

	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(i int, file string) {
			defer wg.Done()
			recs, diags, err := DecodeFile(ctx, file)
			results[i] = result{records: recs, diags: diags, err: err}
		}(i, file)
	}
	wg.Wait()

	var records []record.ParsedRecord
	var diags diag.Diagnostics
	for i, res := range results {
		if res.err != nil {
			return nil, diags, fmt.Errorf("decoding %s: %w", files[i], res.err)
		}
		records = append(records, res.records...)
		diags = diags.Extend(res.diags)
	}

	ctxlog.FromContext(ctx).Debug("Decoded resource files.",
		"files", len(files), "records", len(records))
	return records, diags, nil
}

// DecodeFile parses one .res.hcl file. Unparseable files are infrastructure
// errors; malformed individual records inside a well-formed file are
// warnings and the records are dropped.
func DecodeFile(ctx context.Context, path string) ([]record.ParsedRecord, diag.Diagnostics, error) {
	parser := hclparse.NewParser()
	file, hclDiags := parser.ParseHCLFile(path)
	if hclDiags.HasErrors() {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, hclDiags)
	}
	return decode(ctx, path, file)
}

// DecodeSource parses in-memory source, used by tests.
func DecodeSource(ctx context.Context, filename string, src []byte) ([]record.ParsedRecord, diag.Diagnostics, error) {
	parser := hclparse.NewParser()
	file, hclDiags := parser.ParseHCL(src, filename)
	if hclDiags.HasErrors() {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", filename, hclDiags)
	}
	return decode(ctx, filename, file)
}

type decoder struct {
	path    string
	src     []byte
	profile string
	isTest  bool

	records []record.ParsedRecord
	diags   diag.Diagnostics
}

func decode(ctx context.Context, path string, file *hcl.File) ([]record.ParsedRecord, diag.Diagnostics, error) {
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, nil, fmt.Errorf("%s: not native HCL syntax", path)
	}

	d := &decoder{path: path, src: file.Bytes, isTest: fsutil.IsTestScoped(path)}

	if attr, ok := body.Attributes["profile"]; ok {
		val, hclDiags := attr.Expr.Value(nil)
		if hclDiags.HasErrors() || !val.Type().Equals(cty.String) {
			d.malformed(attr.SrcRange.Start.Line, "profile",
				"profile must be a string literal")
		} else {
			d.profile = val.AsString()
		}
	}

	d.decodeBody(nil, body)
	return d.records, d.diags, nil
}

// decodeBody walks one block body with the namespace path threaded
// explicitly, never held in decoder state.
func (d *decoder) decodeBody(namespace []string, body *hclsyntax.Body) {
	for _, block := range body.Blocks {
		line := block.TypeRange.Start.Line
		if len(block.Labels) != 1 {
			d.malformed(line, block.Type, "block needs exactly one name label")
			continue
		}
		name := block.Labels[0]

		switch block.Type {
		case "namespace":
			d.decodeBody(append(namespace, name), block.Body)
		case "array":
			d.decodeArray(namespace, name, block)
		case "template":
			d.decodeTemplate(namespace, name, block)
		default:
			d.decodeValue(namespace, name, block)
		}
	}
}

// decodeValue handles string, number, bool, color and custom kind blocks,
// which all share the { value = ..., type = ... } shape.
func (d *decoder) decodeValue(namespace []string, name string, block *hclsyntax.Block) {
	line := block.TypeRange.Start.Line

	attr, ok := block.Body.Attributes["value"]
	if !ok {
		d.malformed(line, name, "missing value attribute")
		return
	}
	raw, ok := d.rawScalar(attr.Expr, name)
	if !ok {
		return
	}

	rec := record.ParsedRecord{
		Namespace: append([]string{}, namespace...),
		Name:      name,
		KindTag:   block.Type,
		Raw:       raw,
		Origin:    d.origin(line),
	}
	if typeAttr, ok := block.Body.Attributes["type"]; ok {
		hint, ok := d.stringAttr(typeAttr, name)
		if !ok {
			return
		}
		rec.TypeHint = hint
	}
	d.records = append(d.records, rec)
}

func (d *decoder) decodeArray(namespace []string, name string, block *hclsyntax.Block) {
	line := block.TypeRange.Start.Line

	kindAttr, ok := block.Body.Attributes["kind"]
	if !ok {
		d.malformed(line, name, "missing element kind attribute")
		return
	}
	elemKind, ok := d.stringAttr(kindAttr, name)
	if !ok {
		return
	}

	valuesAttr, ok := block.Body.Attributes["values"]
	if !ok {
		d.malformed(line, name, "missing values attribute")
		return
	}
	tuple, ok := valuesAttr.Expr.(*hclsyntax.TupleConsExpr)
	if !ok {
		d.malformed(line, name, "values must be a list literal")
		return
	}

	items := make([]string, 0, len(tuple.Exprs))
	for _, expr := range tuple.Exprs {
		raw, ok := d.rawScalar(expr, name)
		if !ok {
			return
		}
		items = append(items, raw)
	}

	d.records = append(d.records, record.ParsedRecord{
		Namespace: append([]string{}, namespace...),
		Name:      name,
		KindTag:   "array",
		RawList:   items,
		ElemKind:  elemKind,
		Origin:    d.origin(line),
	})
}

func (d *decoder) decodeTemplate(namespace []string, name string, block *hclsyntax.Block) {
	line := block.TypeRange.Start.Line

	textAttr, ok := block.Body.Attributes["text"]
	if !ok {
		d.malformed(line, name, "missing text attribute")
		return
	}
	text, ok := d.stringAttr(textAttr, name)
	if !ok {
		return
	}

	spec := record.TemplateSpec{Text: text}
	for _, param := range block.Body.Blocks {
		if param.Type != "param" || len(param.Labels) != 1 {
			d.malformed(param.TypeRange.Start.Line, name,
				"template bodies may only contain param blocks with one name label")
			return
		}
		typeAttr, ok := param.Body.Attributes["type"]
		if !ok {
			d.malformed(param.TypeRange.Start.Line, name,
				fmt.Sprintf("param %q is missing its type attribute", param.Labels[0]))
			return
		}
		ptype, ok := d.stringAttr(typeAttr, name)
		if !ok {
			return
		}
		spec.Params = append(spec.Params, record.TemplateParam{
			Name: param.Labels[0],
			Type: ptype,
		})
	}

	d.records = append(d.records, record.ParsedRecord{
		Namespace: append([]string{}, namespace...),
		Name:      name,
		KindTag:   "template",
		Template:  &spec,
		Origin:    d.origin(line),
	})
}

// rawScalar extracts the raw textual payload of a scalar expression.
// Strings decode to their contents; numbers keep their exact source
// spelling since representation choice depends on the literal text, not
// the parsed value.
func (d *decoder) rawScalar(expr hclsyntax.Expression, name string) (string, bool) {
	val, hclDiags := expr.Value(nil)
	if hclDiags.HasErrors() {
		d.malformed(expr.Range().Start.Line, name, hclDiags.Error())
		return "", false
	}
	switch {
	case val.Type().Equals(cty.String):
		return val.AsString(), true
	case val.Type().Equals(cty.Number):
		return d.sourceText(expr.Range()), true
	case val.Type().Equals(cty.Bool):
		if val.True() {
			return "true", true
		}
		return "false", true
	default:
		d.malformed(expr.Range().Start.Line, name, "value must be a scalar literal")
		return "", false
	}
}

func (d *decoder) stringAttr(attr *hclsyntax.Attribute, name string) (string, bool) {
	val, hclDiags := attr.Expr.Value(nil)
	if hclDiags.HasErrors() || !val.Type().Equals(cty.String) {
		d.malformed(attr.SrcRange.Start.Line, name,
			fmt.Sprintf("%s must be a string literal", attr.Name))
		return "", false
	}
	return val.AsString(), true
}

func (d *decoder) sourceText(rng hcl.Range) string {
	if rng.Start.Byte < 0 || rng.End.Byte > len(d.src) {
		return ""
	}
	return string(d.src[rng.Start.Byte:rng.End.Byte])
}

func (d *decoder) origin(line int) diag.Origin {
	return diag.Origin{File: d.path, Line: line, Profile: d.profile, IsTest: d.isTest}
}

func (d *decoder) malformed(line int, name, detail string) {
	origin := d.origin(line)
	d.diags = d.diags.Append(&diag.Diagnostic{
		Severity: diag.Warning,
		Kind:     diag.MalformedRecord,
		Pass:     "decode",
		Summary:  fmt.Sprintf("malformed record %q dropped", name),
		Detail:   detail,
		Subject:  &origin,
	})
}
