package record

import "strings"

// Reference is one `@kind/path` token found inside a string value.
type Reference struct {
	// Kind is the kind tag named by the token.
	Kind Kind
	// Path is the slash-separated qualified path of the target.
	Path string
}

// Segment is either a literal fragment or a reference token; exactly one
// field is populated.
type Segment struct {
	Literal string
	Ref     *Reference
}

// ReferenceExpression is the split form of a string value: an ordered
// sequence of literal fragments and reference tokens. It is built once by
// the normalizer and never mutated afterwards.
type ReferenceExpression []Segment

// IsLiteral reports whether the expression contains no reference tokens.
func (e ReferenceExpression) IsLiteral() bool {
	for _, seg := range e {
		if seg.Ref != nil {
			return false
		}
	}
	return true
}

// LiteralText concatenates the literal fragments. Only meaningful when
// IsLiteral is true or after every reference has been substituted.
func (e ReferenceExpression) LiteralText() string {
	var sb strings.Builder
	for _, seg := range e {
		sb.WriteString(seg.Literal)
	}
	return sb.String()
}

// References returns the reference tokens in order of appearance.
func (e ReferenceExpression) References() []Reference {
	var refs []Reference
	for _, seg := range e {
		if seg.Ref != nil {
			refs = append(refs, *seg.Ref)
		}
	}
	return refs
}

// ScanString splits a raw string value into a ReferenceExpression. A token
// has the shape `@kind/path` where path characters are alphanumerics,
// underscores and slashes. A trailing slash belongs to the following
// literal text, not the path, so "@string/a/@string/b" splits into a
// reference, a "/" literal and a second reference. An `@` that is not
// followed by a kind/path pair stays literal text. Strings without any
// token become a single literal segment.
func ScanString(s string) ReferenceExpression {
	if !strings.ContainsRune(s, '@') {
		return ReferenceExpression{{Literal: s}}
	}

	var expr ReferenceExpression
	rest := s
	for {
		at := strings.IndexByte(rest, '@')
		if at < 0 {
			if rest != "" {
				expr = append(expr, Segment{Literal: rest})
			}
			break
		}
		if at > 0 {
			expr = append(expr, Segment{Literal: rest[:at]})
		}

		afterAt := rest[at+1:]
		slash := strings.IndexByte(afterAt, '/')
		if slash <= 0 || !isKindTag(afterAt[:slash]) {
			// Not a reference token; keep the '@' as literal.
			expr = append(expr, Segment{Literal: "@"})
			rest = afterAt
			continue
		}

		kind := afterAt[:slash]
		afterSlash := afterAt[slash+1:]
		end := len(afterSlash)
		for i, r := range afterSlash {
			if !isPathRune(r) {
				end = i
				break
			}
		}
		path := afterSlash[:end]
		consumed := end
		if strings.HasSuffix(path, "/") {
			// The trailing slash separates the token from what follows.
			path = path[:len(path)-1]
			consumed--
		}
		if path == "" {
			expr = append(expr, Segment{Literal: "@"})
			rest = afterAt
			continue
		}

		expr = append(expr, Segment{Ref: &Reference{Kind: Kind(kind), Path: path}})
		rest = afterSlash[consumed:]
	}

	if len(expr) == 0 {
		expr = ReferenceExpression{{Literal: ""}}
	}
	return expr
}

func isKindTag(s string) bool {
	for _, r := range s {
		if !isIdentRune(r) {
			return false
		}
	}
	return s != ""
}

func isIdentRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

func isPathRune(r rune) bool {
	return isIdentRune(r) || r == '/'
}
