package record

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vk/rescomp/internal/diag"
)

// Candidate is a normalized record, ready for insertion into the resource
// graph.
type Candidate struct {
	Kind  Kind
	Value Value
}

type normalizeFunc func(rec *ParsedRecord) (Value, error)

// Normalize turns one parsed record into a typed candidate node. It is a
// pure mapping: shape is validated, but nothing that requires knowledge of
// other records. A nil candidate with a non-nil diagnostic means the record
// was malformed and has been dropped (a warning, never fatal).
func Normalize(rec *ParsedRecord) (*Candidate, *diag.Diagnostic) {
	kind := Kind(rec.KindTag)
	fn, ok := kindTable[kind]
	if !ok {
		return nil, malformed(rec, fmt.Sprintf("unrecognized kind %q", rec.KindTag))
	}
	value, err := fn(rec)
	if err != nil {
		return nil, malformed(rec, err.Error())
	}
	return &Candidate{Kind: kind, Value: value}, nil
}

func malformed(rec *ParsedRecord, detail string) *diag.Diagnostic {
	origin := rec.Origin
	return &diag.Diagnostic{
		Severity: diag.Warning,
		Kind:     diag.MalformedRecord,
		Pass:     "normalize",
		Summary:  fmt.Sprintf("malformed %s record %q dropped", rec.KindTag, rec.Name),
		Detail:   detail,
		Subject:  &origin,
	}
}

func normalizeString(rec *ParsedRecord) (Value, error) {
	return StringValue{Expr: ScanString(rec.Raw)}, nil
}

// numberPattern admits decimal integers, fractions and exponent notation.
// Range and representation checks belong to the numeric classifier; the
// normalizer only rejects text that is not a number at all.
var numberPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

func normalizeNumber(rec *ParsedRecord) (Value, error) {
	raw := strings.TrimSpace(rec.Raw)
	if raw == "" {
		return nil, fmt.Errorf("number literal is empty")
	}
	if !numberPattern.MatchString(raw) {
		return nil, fmt.Errorf("%q is not a numeric literal", raw)
	}
	return NumberValue{Raw: raw, Hint: rec.TypeHint}, nil
}

func normalizeBool(rec *ParsedRecord) (Value, error) {
	v, err := strconv.ParseBool(strings.TrimSpace(rec.Raw))
	if err != nil {
		return nil, fmt.Errorf("%q is not a boolean literal", rec.Raw)
	}
	return BoolValue{Value: v}, nil
}

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

func normalizeColor(rec *ParsedRecord) (Value, error) {
	hex := strings.TrimSpace(rec.Raw)
	if !colorPattern.MatchString(hex) {
		return nil, fmt.Errorf("%q is not a #RGB, #RRGGBB or #AARRGGBB color", rec.Raw)
	}
	return ColorValue{Hex: "#" + strings.ToUpper(hex[1:])}, nil
}

func normalizeArray(rec *ParsedRecord) (Value, error) {
	elem := Kind(rec.ElemKind)
	switch elem {
	case KindString, KindNumber, KindBool, KindColor:
	default:
		return nil, fmt.Errorf("array element kind %q is not supported", rec.ElemKind)
	}

	items := make([]Value, 0, len(rec.RawList))
	for i, raw := range rec.RawList {
		elemRec := &ParsedRecord{
			Name:    fmt.Sprintf("%s[%d]", rec.Name, i),
			KindTag: string(elem),
			Raw:     raw,
			Origin:  rec.Origin,
		}
		fn := kindTable[elem]
		v, err := fn(elemRec)
		if err != nil {
			return nil, fmt.Errorf("element %d: %v", i, err)
		}
		if sv, ok := v.(StringValue); ok && !sv.Expr.IsLiteral() {
			return nil, fmt.Errorf("element %d: references are not supported inside arrays", i)
		}
		items = append(items, v)
	}
	return ArrayValue{Elem: elem, Items: items}, nil
}

func normalizeTemplate(rec *ParsedRecord) (Value, error) {
	if rec.Template == nil {
		return nil, fmt.Errorf("template record carries no template body")
	}
	if rec.Template.Text == "" {
		return nil, fmt.Errorf("template format string is empty")
	}
	return TemplateValue{Spec: *rec.Template}, nil
}
