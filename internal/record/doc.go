// Package record defines the parsed-record contract between the input
// front end and the compiler core, and the normalizer that turns raw
// records into typed candidate nodes. Normalization is a pure per-record
// mapping with no cross-record knowledge; anything it cannot shape is
// reported as a MalformedRecord warning and dropped.
package record
