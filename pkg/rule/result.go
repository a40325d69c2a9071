package rule

import (
	"slices"
)

// Result is the outcome of a single [Check].
type Result struct {
	Details string  `json:"details" jsonschema:"title=Details"`
	Score   float64 `json:"score"   jsonschema:"title=Score"`
	Weight  int     `json:"weight"  jsonschema:"title=Weight,minimum=1"`
	Passed  bool    `json:"passed"  jsonschema:"title=Passed"`
}

// Results maps a check key to its [Result].
//
// JSON and YAML encoders write map keys in sorted order, so an encoded
// [Results] is stable for identical input.
type Results map[string]Result

// Keys returns the check keys in sorted order.
func (r Results) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// Failed returns the keys of failed checks in sorted order.
func (r Results) Failed() []string {
	var keys []string
	for _, k := range r.Keys() {
		if !r[k].Passed {
			keys = append(keys, k)
		}
	}

	return keys
}
