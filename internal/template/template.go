// Package template validates parameterized string templates and lowers
// them into callable generators. A template is never resolved to a
// constant: the lowered Definition renders on demand and enforces the
// arity/type contract that generated call sites rely on.
package template

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vk/rescomp/internal/diag"
	"github.com/vk/rescomp/internal/record"
)

// ParamType is the declared type of a template parameter.
type ParamType string

const (
	String ParamType = "string"
	Int    ParamType = "int"
	Float  ParamType = "float"
	Bool   ParamType = "bool"
)

// GoType returns the Go parameter type used at generated call sites.
func (t ParamType) GoType() string {
	switch t {
	case Int:
		return "int64"
	case Float:
		return "float64"
	case Bool:
		return "bool"
	default:
		return "string"
	}
}

// Param is one validated template parameter.
type Param struct {
	Name string
	Type ParamType
}

// Definition is a lowered template: the format string plus its ordered
// parameter list. It is immutable after Compile.
type Definition struct {
	Name   string
	Text   string
	Params []Param
}

// placeholderPattern matches {name} placeholders in the format string.
var placeholderPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Compile validates a raw template spec and lowers it into a Definition.
// Fatal problems (unknown parameter type, placeholder without a matching
// parameter) abort the template; an unused parameter is only a warning and
// the definition is still produced.
func Compile(name string, spec record.TemplateSpec, origin diag.Origin) (*Definition, diag.Diagnostics) {
	var diags diag.Diagnostics

	params := make([]Param, 0, len(spec.Params))
	declared := make(map[string]ParamType, len(spec.Params))
	for _, p := range spec.Params {
		pt := ParamType(strings.ToLower(p.Type))
		switch pt {
		case String, Int, Float, Bool:
		default:
			diags = diags.Append(&diag.Diagnostic{
				Severity: diag.Error,
				Kind:     diag.TemplateTypeMismatch,
				Pass:     "template",
				Summary:  fmt.Sprintf("template %q parameter %q has unsupported type %q", name, p.Name, p.Type),
				Detail:   "parameter types must be one of string, int, float, bool",
				Subject:  &origin,
			})
			continue
		}
		if _, dup := declared[p.Name]; dup {
			diags = diags.Append(&diag.Diagnostic{
				Severity: diag.Error,
				Kind:     diag.TemplateArity,
				Pass:     "template",
				Summary:  fmt.Sprintf("template %q declares parameter %q twice", name, p.Name),
				Subject:  &origin,
			})
			continue
		}
		declared[p.Name] = pt
		params = append(params, Param{Name: p.Name, Type: pt})
	}

	used := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(spec.Text, -1) {
		ph := m[1]
		if _, ok := declared[ph]; !ok {
			diags = diags.Append(&diag.Diagnostic{
				Severity: diag.Error,
				Kind:     diag.UnresolvedReference,
				Pass:     "template",
				Summary:  fmt.Sprintf("template %q references undeclared parameter {%s}", name, ph),
				Subject:  &origin,
			})
			continue
		}
		used[ph] = true
	}
	for _, p := range params {
		if !used[p.Name] {
			diags = diags.Append(&diag.Diagnostic{
				Severity: diag.Warning,
				Kind:     diag.UnusedTemplateParam,
				Pass:     "template",
				Summary:  fmt.Sprintf("template %q parameter %q is never used", name, p.Name),
				Subject:  &origin,
			})
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return &Definition{Name: name, Text: spec.Text, Params: params}, diags
}

// ArityError reports a Render call with the wrong argument count.
type ArityError struct {
	Template string
	Want     int
	Got      int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("template %q expects %d arguments, got %d", e.Template, e.Want, e.Got)
}

// TypeError reports a Render argument whose Go type does not match the
// declared parameter type.
type TypeError struct {
	Template string
	Param    string
	Want     ParamType
	Got      any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("template %q parameter %q expects %s, got %T", e.Template, e.Param, e.Want, e.Got)
}

// Render substitutes arguments positionally, enforcing the declared arity
// and types. Integer parameters accept int and int64; float parameters
// accept float64.
func (d *Definition) Render(args ...any) (string, error) {
	if len(args) != len(d.Params) {
		return "", &ArityError{Template: d.Name, Want: len(d.Params), Got: len(args)}
	}

	values := make(map[string]string, len(d.Params))
	for i, p := range d.Params {
		s, ok := formatArg(p.Type, args[i])
		if !ok {
			return "", &TypeError{Template: d.Name, Param: p.Name, Want: p.Type, Got: args[i]}
		}
		values[p.Name] = s
	}

	out := placeholderPattern.ReplaceAllStringFunc(d.Text, func(m string) string {
		return values[m[1:len(m)-1]]
	})
	return out, nil
}

func formatArg(t ParamType, arg any) (string, bool) {
	switch t {
	case String:
		if s, ok := arg.(string); ok {
			return s, true
		}
	case Int:
		switch v := arg.(type) {
		case int:
			return fmt.Sprintf("%d", v), true
		case int64:
			return fmt.Sprintf("%d", v), true
		}
	case Float:
		if f, ok := arg.(float64); ok {
			return fmt.Sprintf("%v", f), true
		}
	case Bool:
		if b, ok := arg.(bool); ok {
			return fmt.Sprintf("%t", b), true
		}
	}
	return "", false
}
