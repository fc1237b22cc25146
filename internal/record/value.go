package record

// Value is the raw typed payload of a candidate node. The concrete variants
// below are the closed set produced by normalization; numeric classification
// and reference resolution refine them in later passes without replacing
// the original payload.
type Value interface {
	valueVariant()
}

// StringValue is a string payload, pre-split into literal fragments and
// reference tokens.
type StringValue struct {
	Expr ReferenceExpression
}

// NumberValue is a numeric payload kept as its raw spelling. Storage
// representation is decided by the numeric classifier, which needs the
// exact source text.
type NumberValue struct {
	Raw  string
	Hint string
}

// BoolValue is a parsed boolean payload.
type BoolValue struct {
	Value bool
}

// ColorValue is a validated hex color payload, normalized to upper case
// with the leading '#'.
type ColorValue struct {
	Hex string
}

// ArrayValue is a homogeneous array payload. Elements are literal values of
// the declared element kind; reference tokens inside array elements are not
// interpreted.
type ArrayValue struct {
	Elem  Kind
	Items []Value
}

// TemplateValue carries the raw template declaration through to the
// template expander.
type TemplateValue struct {
	Spec TemplateSpec
}

func (StringValue) valueVariant()   {}
func (NumberValue) valueVariant()   {}
func (BoolValue) valueVariant()     {}
func (ColorValue) valueVariant()    {}
func (ArrayValue) valueVariant()    {}
func (TemplateValue) valueVariant() {}
