// Package expr provides CEL (Common Expression Language) score expressions
// for custom compliance checks.
//
// Expressions have access to variables:
//   - `names` (list<string>): Column names in document order
//   - `columns` (map<string, map<string, dyn>>): Column profiles by name,
//     keyed by their metadata field names; absent optional fields are omitted
//   - `total_rows` (int): The dataset row count
//   - `total_columns` (int): The declared column count
//
// In addition to the cel-go math, strings and lists extensions, it provides:
//   - `match(names, pattern)`: Names matching a case-insensitive regular
//     expression, in order
//   - `mean(list)`: The arithmetic mean of a numeric list, or 0 when empty
//
// An expression must evaluate to a number, which becomes the check score.
package expr
