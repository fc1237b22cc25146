package diag

import (
	"fmt"
	"strings"
)

// Severity distinguishes diagnostics that fail the build from those that
// merely annotate it.
type Severity int

const (
	// Warning diagnostics are reported but do not prevent emission.
	Warning Severity = iota
	// Error diagnostics abort emission entirely.
	Error
)

// String returns the lowercase name used in rendered reports.
func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Kind identifies the taxonomy entry a diagnostic belongs to.
type Kind string

const (
	MalformedRecord       Kind = "MalformedRecord"
	DuplicateKey          Kind = "DuplicateKey"
	UnresolvedReference   Kind = "UnresolvedReference"
	CyclicReference       Kind = "CyclicReference"
	ReferenceTypeMismatch Kind = "ReferenceTypeMismatch"
	NumericTypeRange      Kind = "NumericTypeRangeError"
	TemplateArity         Kind = "TemplateArityError"
	TemplateTypeMismatch  Kind = "TemplateTypeMismatchError"
	UnusedTemplateParam   Kind = "UnusedTemplateParameter"
	InvalidIdentifier     Kind = "InvalidIdentifier"
)

// Origin identifies where a record was declared. It is carried on every
// diagnostic that can be traced back to a source location.
type Origin struct {
	File    string
	Line    int
	Profile string
	IsTest  bool
}

// String renders the origin as file:line, with the profile tag when present.
func (o Origin) String() string {
	s := o.File
	if o.Line > 0 {
		s = fmt.Sprintf("%s:%d", o.File, o.Line)
	}
	if o.Profile != "" {
		s = fmt.Sprintf("%s (profile %s)", s, o.Profile)
	}
	return s
}

// Diagnostic is a single problem found during compilation.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	// Pass names the pipeline stage that produced the diagnostic.
	Pass    string
	Summary string
	Detail  string
	// Subject is the primary origin, when one exists.
	Subject *Origin
	// Related carries additional origins, e.g. the losing definitions of a
	// duplicate key.
	Related []Origin
}

// Error implements the error interface so a single fatal diagnostic can be
// returned through error-shaped plumbing.
func (d *Diagnostic) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s", d.Severity, d.Summary)
	if d.Subject != nil {
		fmt.Fprintf(&sb, " (at %s)", d.Subject)
	}
	return sb.String()
}

// Diagnostics is an ordered collection of diagnostics. Order is insertion
// order, which follows pipeline pass order.
type Diagnostics []*Diagnostic

// Append adds zero or more diagnostics, skipping nils, and returns the
// extended collection.
func (d Diagnostics) Append(in ...*Diagnostic) Diagnostics {
	for _, diag := range in {
		if diag != nil {
			d = append(d, diag)
		}
	}
	return d
}

// Extend concatenates another collection.
func (d Diagnostics) Extend(in Diagnostics) Diagnostics {
	return append(d, in...)
}

// HasErrors reports whether any diagnostic is fatal.
func (d Diagnostics) HasErrors() bool {
	for _, diag := range d {
		if diag.Severity == Error {
			return true
		}
	}
	return false
}

// Errs returns only the fatal diagnostics.
func (d Diagnostics) Errs() Diagnostics {
	var out Diagnostics
	for _, diag := range d {
		if diag.Severity == Error {
			out = append(out, diag)
		}
	}
	return out
}

// Error renders the whole collection, one diagnostic per line.
func (d Diagnostics) Error() string {
	if len(d) == 0 {
		return "no diagnostics"
	}
	lines := make([]string, 0, len(d))
	for _, diag := range d {
		lines = append(lines, diag.Error())
	}
	return strings.Join(lines, "\n")
}
