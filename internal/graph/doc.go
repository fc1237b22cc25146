// Package graph holds the resource graph: the merged, keyed view of every
// normalized record across all input files. The builder folds candidates
// in sorted-file, in-file declaration order; duplicate keys retain every
// competing definition for reporting while queries see the deterministic
// first-seen winner.
package graph
