package record

// Kind identifies the resource kind of a node. The built-in set is closed;
// additional tags can be registered at startup via RegisterCustomKind and
// behave as raw string resources.
type Kind string

const (
	KindString   Kind = "string"
	KindNumber   Kind = "number"
	KindBool     Kind = "bool"
	KindColor    Kind = "color"
	KindArray    Kind = "array"
	KindTemplate Kind = "template"
)

// kindTable maps a kind tag to its normalizer. Custom tags are added by
// RegisterCustomKind; lookups go through this single table so dispatch is
// data-driven rather than a growing type switch.
var kindTable map[Kind]normalizeFunc

func init() {
	kindTable = map[Kind]normalizeFunc{
		KindString:   normalizeString,
		KindNumber:   normalizeNumber,
		KindBool:     normalizeBool,
		KindColor:    normalizeColor,
		KindArray:    normalizeArray,
		KindTemplate: normalizeTemplate,
	}
}

// IsBuiltin reports whether k is one of the closed built-in kinds.
func (k Kind) IsBuiltin() bool {
	switch k {
	case KindString, KindNumber, KindBool, KindColor, KindArray, KindTemplate:
		return true
	}
	return false
}

// Textual reports whether nodes of this kind carry a literal string payload
// and may therefore be the target of a reference token.
func (k Kind) Textual() bool {
	if k == KindString || k == KindColor {
		return true
	}
	_, registered := kindTable[k]
	return registered && !k.IsBuiltin()
}

// RegisterCustomKind registers an additional kind tag. Records of a custom
// kind normalize as raw string payloads, including reference scanning.
// Registering a built-in tag is a programmer error.
func RegisterCustomKind(tag string) {
	k := Kind(tag)
	if k.IsBuiltin() {
		panic("record: cannot re-register built-in kind " + tag)
	}
	kindTable[k] = normalizeString
}
