// Package input decodes .res.hcl resource description files into parsed
// records. It is the parsing collaborator in front of the compiler core:
// it understands HCL syntax and block structure but performs no semantic
// validation beyond shape, handing every record to the normalizer as raw
// text plus origin.
package input
