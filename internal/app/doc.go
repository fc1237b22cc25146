// Package app wires the compiler pipeline together: file discovery,
// concurrent decoding, the graph fold, the classification, resolution and
// template passes, emission, and the final diagnostics gate. It owns the
// application lifecycle; the passes themselves live in their own packages.
package app
