// Package metadata defines the column-level dataset profile that compliance
// checks are evaluated against.
//
// A [Dataset] is produced by an upstream profiler and is never modified by
// evaluation. Column order is significant: it is the document order of the
// input, and checks that pick a representative column use the first match.
package metadata

//go:generate go run ../../internal/schemagen -kind metadata -o dataset.json
