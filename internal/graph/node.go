package graph

import (
	"github.com/vk/rescomp/internal/diag"
	"github.com/vk/rescomp/internal/numeric"
	"github.com/vk/rescomp/internal/record"
	"github.com/vk/rescomp/internal/template"
)

// Status is the resolution state of a node. Each node transitions at most
// once along Unresolved → Resolving → Resolved/Failed.
type Status int

const (
	Unresolved Status = iota
	Resolving
	Resolved
	Failed
)

// String returns the state name for logging.
func (s Status) String() string {
	switch s {
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	default:
		return "unresolved"
	}
}

// Node is one definition of a resource. Everything except the resolution
// fields is immutable once the node is inserted into the graph.
type Node struct {
	Key    Key
	Kind   record.Kind
	Value  record.Value
	Origin diag.Origin

	// Status and Literal belong to the reference resolver: Literal is the
	// memoized fully-substituted text of a textual node once Status is
	// Resolved.
	Status  Status
	Literal string

	// Number is filled by the numeric classifier for number nodes.
	Number *numeric.Value

	// Template is filled by the template expander for template nodes.
	Template *template.Definition
}
