// Package diag defines the diagnostic report shared by every compiler pass.
// Each pass appends structured warnings and errors; the aggregated report
// decides whether emission proceeds. The shape follows hcl.Diagnostics:
// severity plus summary/detail plus a subject location, extended with the
// taxonomy kind and the originating pass.
package diag
