// Package rule evaluates declarative compliance checks over dataset metadata.
//
// Each [Check] pairs a [Scorer] with a fixed weight and [Threshold]. Scorers
// infer the semantic role of a column from its name with a [Pattern], then
// compute a score from the matched columns' statistics. Every check yields
// exactly one [Result], whatever the input.
package rule
