// Package emit renders the resolved resource graph into Go source units.
// It produces two views: a nested view mirroring the namespace tree, one
// package per tree node, and a flattened alias view exposing every
// non-template winner under its shortest unique name. Both views are pure
// functions of the graph and can be recomputed without side effects.
package emit
