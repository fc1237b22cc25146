// Package numeric decides the storage representation of number literals:
// fixed-width integer, floating point, or arbitrary-precision decimal.
// Classification is deterministic and origin-independent; the same literal
// and override always yield the same representation.
package numeric

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/cockroachdb/apd/v3"
)

// Repr is the chosen storage representation.
type Repr int

const (
	// Int is a 64-bit signed integer.
	Int Repr = iota
	// Float is a 64-bit IEEE floating point value.
	Float
	// Big is an arbitrary-precision decimal, interned so each distinct
	// value is stored exactly once.
	Big
)

// floatSafeDigits is the number of significant decimal digits float64 can
// round-trip; literals with more go to arbitrary precision.
const floatSafeDigits = 15

// Value is a classified numeric literal.
type Value struct {
	Repr  Repr
	Int   int64
	Float float64
	// Big points into the shared intern pool for Repr == Big.
	Big *apd.Decimal
	// Literal is the canonical emitted spelling. Float literals always
	// carry a fractional marker so the value stays float-typed at the use
	// site.
	Literal string
	// GoType is the emitted Go type name ("int64" by default, narrower or
	// wider when an explicit override was given, empty for Big).
	GoType string
}

// RangeError reports a literal that does not fit its requested type.
type RangeError struct {
	Literal string
	Type    string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("literal %q does not fit in %s", e.Literal, e.Type)
}

// Classify decides the representation for a raw numeric literal, honoring
// an optional explicit type override ("i8".."i64", "u8".."u64", "f32",
// "f64", "bigdecimal"). Without an override, integer-looking literals that
// fit int64 become Int, fractional literals within float64 precision become
// Float, and everything else becomes Big.
func Classify(raw string, hint string) (*Value, error) {
	literal := strings.TrimSpace(raw)
	if literal == "" {
		return nil, fmt.Errorf("empty numeric literal")
	}
	if hint != "" {
		return classifyExplicit(literal, hint)
	}

	if looksLikeInteger(literal) {
		if i, err := strconv.ParseInt(literal, 10, 64); err == nil {
			return &Value{Repr: Int, Int: i, Literal: strconv.FormatInt(i, 10), GoType: "int64"}, nil
		}
		return classifyBig(literal)
	}

	if significantDigits(literal) > floatSafeDigits {
		return classifyBig(literal)
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return classifyBig(literal)
	}
	return &Value{Repr: Float, Float: f, Literal: floatLiteral(f), GoType: "float64"}, nil
}

func classifyExplicit(literal, hint string) (*Value, error) {
	switch strings.ToLower(strings.TrimSpace(hint)) {
	case "i8":
		return intValue(literal, 8, "int8")
	case "i16":
		return intValue(literal, 16, "int16")
	case "i32":
		return intValue(literal, 32, "int32")
	case "i64":
		return intValue(literal, 64, "int64")
	case "u8":
		return uintValue(literal, 8, "uint8")
	case "u16":
		return uintValue(literal, 16, "uint16")
	case "u32":
		return uintValue(literal, 32, "uint32")
	case "u64":
		return uintValue(literal, 64, "uint64")
	case "f32":
		return floatValue(literal, 32, "float32")
	case "f64":
		return floatValue(literal, 64, "float64")
	case "bigdecimal":
		return classifyBig(literal)
	default:
		return nil, fmt.Errorf("unsupported numeric type override %q", hint)
	}
}

func intValue(literal string, bits int, goType string) (*Value, error) {
	i, err := strconv.ParseInt(literal, 10, bits)
	if err != nil {
		return nil, &RangeError{Literal: literal, Type: goType}
	}
	return &Value{Repr: Int, Int: i, Literal: strconv.FormatInt(i, 10), GoType: goType}, nil
}

func uintValue(literal string, bits int, goType string) (*Value, error) {
	u, err := strconv.ParseUint(literal, 10, bits)
	if err != nil {
		return nil, &RangeError{Literal: literal, Type: goType}
	}
	v := &Value{Repr: Int, Literal: strconv.FormatUint(u, 10), GoType: goType}
	if u <= 1<<63-1 {
		v.Int = int64(u)
	}
	return v, nil
}

func floatValue(literal string, bits int, goType string) (*Value, error) {
	f, err := strconv.ParseFloat(literal, bits)
	if err != nil {
		return nil, &RangeError{Literal: literal, Type: goType}
	}
	return &Value{Repr: Float, Float: f, Literal: floatLiteral(f), GoType: goType}, nil
}

func classifyBig(literal string) (*Value, error) {
	d, err := intern(literal)
	if err != nil {
		return nil, err
	}
	return &Value{Repr: Big, Big: d, Literal: d.String()}, nil
}

// pool holds the shared arbitrary-precision values, keyed by canonical
// decimal text. All nodes classifying to the same value share one Decimal.
var pool = struct {
	sync.Mutex
	byText map[string]*apd.Decimal
}{byText: make(map[string]*apd.Decimal)}

func intern(literal string) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(literal)
	if err != nil {
		return nil, fmt.Errorf("invalid decimal literal %q", literal)
	}
	key := d.String()
	pool.Lock()
	defer pool.Unlock()
	if existing, ok := pool.byText[key]; ok {
		return existing, nil
	}
	pool.byText[key] = d
	return d, nil
}

func looksLikeInteger(literal string) bool {
	return !strings.ContainsAny(literal, ".eE")
}

// significantDigits counts mantissa digits; the exponent never affects
// precision requirements.
func significantDigits(literal string) int {
	digits := 0
	for _, r := range literal {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == 'e' || r == 'E':
			return digits
		}
	}
	return digits
}

// floatLiteral renders a float with an explicit fractional marker: 3
// becomes "3.0", never bare "3".
func floatLiteral(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(s, ".eE") {
		return s
	}
	return s + ".0"
}
