package rule

import (
	"fmt"
	"time"

	"github.com/macropower/compass/pkg/metadata"
)

// Input is the immutable context of one evaluation.
type Input struct {
	// Now is the reference time for recency checks.
	Now     time.Time
	Dataset *metadata.Dataset
}

// Columns returns the dataset's columns.
func (in *Input) Columns() *metadata.Columns {
	return in.Dataset.Columns
}

// Outcome is what a [Scorer] computes for one check.
type Outcome struct {
	// Err is a failure the scorer recovered from. The score has already
	// been downgraded, and the error is appended to the details.
	Err error
	// Details replaces the check's details when the check has none.
	Details string
	Score   float64
}

// Scorer computes an [Outcome] from an [Input].
// Scorers must not modify the input.
type Scorer interface {
	Score(in *Input) Outcome
}

// ScorerFunc adapts a function to a [Scorer].
type ScorerFunc func(in *Input) Outcome

func (f ScorerFunc) Score(in *Input) Outcome {
	return f(in)
}

// Check is a single declarative compliance check.
type Check struct {
	Scorer    Scorer
	Key       string
	Details   string
	Threshold Threshold
	Weight    int
}

// Evaluate runs the check against in.
func (c Check) Evaluate(in *Input) Result {
	out := c.Scorer.Score(in)

	details := c.Details
	if details == "" {
		details = out.Details
	}
	if out.Err != nil {
		details = fmt.Sprintf("%s: %v", details, out.Err)
	}

	return Result{
		Score:   out.Score,
		Weight:  c.Weight,
		Passed:  c.Threshold.Passed(out.Score),
		Details: details,
	}
}

// Evaluate runs every check against in and collects the results by key.
func Evaluate(in *Input, checks ...Check) Results {
	results := make(Results, len(checks))
	for _, c := range checks {
		results[c.Key] = c.Evaluate(in)
	}

	return results
}
