package record

import "github.com/vk/rescomp/internal/diag"

// ParsedRecord is one declaration handed over by the parsing collaborator.
// The namespace path is supplied explicitly by the caller; the normalizer
// never tracks nesting state of its own.
type ParsedRecord struct {
	Namespace []string
	Name      string
	// KindTag is the raw kind as written in the source ("string", "number",
	// "bool", "color", "array", "template", or a registered custom tag).
	KindTag string
	// Raw is the scalar literal exactly as written in the source.
	Raw string
	// RawList carries the element literals of an array record.
	RawList []string
	// ElemKind is the declared element kind of an array record.
	ElemKind string
	// TypeHint is the optional explicit numeric type override.
	TypeHint string
	// Template is set for template records.
	Template *TemplateSpec
	Origin   diag.Origin
}

// TemplateSpec is the raw template declaration: a format string plus the
// ordered parameter list.
type TemplateSpec struct {
	Text   string
	Params []TemplateParam
}

// TemplateParam declares one template parameter.
type TemplateParam struct {
	Name string
	Type string
}
