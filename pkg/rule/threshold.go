package rule

import (
	"fmt"
	"strconv"
)

// Op is a [Threshold] comparison.
type Op string

const (
	// OpGreater passes when the score is strictly above the value.
	OpGreater Op = "gt"
	// OpAtLeast passes when the score is at or above the value.
	OpAtLeast Op = "ge"
	// OpEqual passes when the score equals the value.
	OpEqual Op = "eq"
	// OpAlways always passes.
	OpAlways Op = "always"
)

// AllOps lists every [Op].
var AllOps = []Op{OpGreater, OpAtLeast, OpEqual, OpAlways}

// Threshold decides whether a score passes.
type Threshold struct {
	Op    Op      `json:"op"              jsonschema:"title=Operator,enum=gt,enum=ge,enum=eq,enum=always"`
	Value float64 `json:"value,omitempty" jsonschema:"title=Value"`
}

// Above returns a [Threshold] passing scores strictly greater than v.
func Above(v float64) Threshold {
	return Threshold{Op: OpGreater, Value: v}
}

// AtLeast returns a [Threshold] passing scores greater than or equal to v.
func AtLeast(v float64) Threshold {
	return Threshold{Op: OpAtLeast, Value: v}
}

// Exactly returns a [Threshold] passing only a score equal to v.
func Exactly(v float64) Threshold {
	return Threshold{Op: OpEqual, Value: v}
}

// Always returns a [Threshold] passing every score.
func Always() Threshold {
	return Threshold{Op: OpAlways}
}

// Passed reports whether score passes the threshold.
// An unknown [Op] never passes.
func (t Threshold) Passed(score float64) bool {
	switch t.Op {
	case OpGreater:
		return score > t.Value
	case OpAtLeast:
		return score >= t.Value
	case OpEqual:
		return score == t.Value
	case OpAlways:
		return true
	}

	return false
}

// Validate returns an error if the [Op] is unknown.
func (t Threshold) Validate() error {
	switch t.Op {
	case OpGreater, OpAtLeast, OpEqual, OpAlways:
		return nil
	}

	return fmt.Errorf("unknown threshold operator %q", t.Op)
}

func (t Threshold) String() string {
	v := strconv.FormatFloat(t.Value, 'f', -1, 64)

	switch t.Op {
	case OpGreater:
		return "> " + v
	case OpAtLeast:
		return ">= " + v
	case OpEqual:
		return "= " + v
	case OpAlways:
		return "always"
	}

	return string(t.Op)
}
