package rule

import (
	"strings"

	"github.com/macropower/compass/pkg/metadata"
)

// Field reads an optional percentage from a [metadata.ColumnProfile].
type Field func(p *metadata.ColumnProfile) *float64

// Match-rate fields produced by upstream profiling.
var (
	ISODateMatch      Field = func(p *metadata.ColumnProfile) *float64 { return p.ISODateMatchPercentage }
	CurrencyCodeMatch Field = func(p *metadata.ColumnProfile) *float64 { return p.CurrencyCodeMatchPercentage }
	CountryCodeMatch  Field = func(p *metadata.ColumnProfile) *float64 { return p.CountryCodeMatchPercentage }
	EmailMatch        Field = func(p *metadata.ColumnProfile) *float64 { return p.EmailMatchPercentage }
)

// Presence scores Hit when any column matches, and Miss otherwise.
type Presence struct {
	Pattern   *Pattern
	Hit, Miss float64
}

// Require returns a [Presence] scoring 100 when a column matches expr,
// and 0 otherwise.
func Require(expr string) Presence {
	return RequireOr(expr, 0)
}

// RequireOr is like [Require], but scores miss when nothing matches.
func RequireOr(expr string, miss float64) Presence {
	return Presence{Pattern: MustCompile(expr), Hit: 100, Miss: miss}
}

// Prohibit returns a [Presence] scoring 0 when a column matches expr,
// and 100 otherwise.
func Prohibit(expr string) Presence {
	return Presence{Pattern: MustCompile(expr), Hit: 0, Miss: 100}
}

func (s Presence) Score(in *Input) Outcome {
	if s.Pattern.Any(in.Columns()) {
		return Outcome{Score: s.Hit}
	}

	return Outcome{Score: s.Miss}
}

// Coverage scores the share of Patterns matched by at least one column.
type Coverage struct {
	Patterns []*Pattern
}

func (s Coverage) Score(in *Input) Outcome {
	if len(s.Patterns) == 0 {
		return Outcome{Score: 100}
	}

	found := 0
	for _, p := range s.Patterns {
		if p.Any(in.Columns()) {
			found++
		}
	}

	return Outcome{Score: float64(found) / float64(len(s.Patterns)) * 100}
}

// AllPresent scores 100 when every pattern matches a column, and 0 otherwise.
type AllPresent struct {
	Patterns []*Pattern
}

func (s AllPresent) Score(in *Input) Outcome {
	for _, p := range s.Patterns {
		if !p.Any(in.Columns()) {
			return Outcome{Score: 0}
		}
	}

	return Outcome{Score: 100}
}

// MinCount scores 100 when at least Min columns match, and 0 otherwise.
type MinCount struct {
	Pattern *Pattern
	Min     int
}

func (s MinCount) Score(in *Input) Outcome {
	if len(s.Pattern.Match(in.Columns())) >= s.Min {
		return Outcome{Score: 100}
	}

	return Outcome{Score: 0}
}

// NonNullAverage averages the non-null percentage of the columns matched
// by each pattern in turn. A column matched by several patterns counts once
// per pattern. With no matches it scores Fallback.
type NonNullAverage struct {
	Patterns []*Pattern
	Fallback float64
}

func (s NonNullAverage) Score(in *Input) Outcome {
	cols := in.Columns()

	var sum float64

	n := 0
	for _, p := range s.Patterns {
		for _, name := range p.Match(cols) {
			prof, _ := cols.Get(name)
			sum += 100 - prof.NullPercentage
			n++
		}
	}

	if n == 0 {
		return Outcome{Score: s.Fallback}
	}

	return Outcome{Score: sum / float64(n)}
}

// FieldAverage averages a match-rate [Field] over the matched columns.
// A column without the field counts as 0. With no matches it scores
// Fallback.
type FieldAverage struct {
	Pattern  *Pattern
	Field    Field
	Fallback float64
}

func (s FieldAverage) Score(in *Input) Outcome {
	cols := in.Columns()
	names := s.Pattern.Match(cols)

	if len(names) == 0 {
		return Outcome{Score: s.Fallback}
	}

	var sum float64
	for _, name := range names {
		prof, _ := cols.Get(name)
		if v := s.Field(prof); v != nil {
			sum += *v
		}
	}

	return Outcome{Score: sum / float64(len(names))}
}

// NullPenalty subtracts Units for every matched column whose null
// percentage exceeds Above, down to 0. A nil Pattern matches every column,
// and columns matching Exclude are skipped.
type NullPenalty struct {
	Pattern *Pattern
	Exclude *Pattern
	Above   float64
	Units   float64
}

func (s NullPenalty) Score(in *Input) Outcome {
	violations := 0
	for name, prof := range in.Columns().All() {
		if s.Pattern != nil && !s.Pattern.MatchString(name) {
			continue
		}
		if s.Exclude != nil && s.Exclude.MatchString(name) {
			continue
		}
		if prof.NullPercentage > s.Above {
			violations++
		}
	}

	return Outcome{Score: max(0, 100-s.Units*float64(violations))}
}

// NullMeanPenalty scores 100 minus the mean null percentage of the matched
// columns, down to 0. With no matches it scores 100.
type NullMeanPenalty struct {
	Pattern *Pattern
}

func (s NullMeanPenalty) Score(in *Input) Outcome {
	cols := in.Columns()
	names := s.Pattern.Match(cols)

	if len(names) == 0 {
		return Outcome{Score: 100}
	}

	var sum float64
	for _, name := range names {
		prof, _ := cols.Get(name)
		sum += prof.NullPercentage
	}

	return Outcome{Score: max(0, 100-sum/float64(len(names)))}
}

// Uniqueness scores the first matched column's distinct values against the
// row count: 100 when every row is distinct, the percentage otherwise.
// The percentage is not clamped, so more distinct values than rows score
// above 100. With no matches it scores 0.
type Uniqueness struct {
	Pattern *Pattern
}

func (s Uniqueness) Score(in *Input) Outcome {
	cols := in.Columns()
	names := s.Pattern.Match(cols)

	if len(names) == 0 {
		return Outcome{Score: 0}
	}

	prof, _ := cols.Get(names[0])
	total := in.Dataset.TotalRows

	if prof.UniqueCount == total {
		return Outcome{Score: 100}
	}
	if total == 0 {
		return Outcome{Score: 0}
	}

	return Outcome{Score: float64(prof.UniqueCount) / float64(total) * 100}
}

// AnyUnique scores 100 when any matched column is fully unique, and Partial
// otherwise. With no matches it scores 100.
type AnyUnique struct {
	Pattern *Pattern
	Partial float64
}

func (s AnyUnique) Score(in *Input) Outcome {
	cols := in.Columns()
	names := s.Pattern.Match(cols)

	if len(names) == 0 {
		return Outcome{Score: 100}
	}

	for _, name := range names {
		prof, _ := cols.Get(name)
		if prof.UniqueCount == in.Dataset.TotalRows {
			return Outcome{Score: 100}
		}
	}

	return Outcome{Score: s.Partial}
}

// PositiveAmounts scores the share of numeric matched columns whose minimum
// is strictly positive. A missing minimum counts as 0. With no numeric
// matches it scores 100.
type PositiveAmounts struct {
	Pattern *Pattern
}

func (s PositiveAmounts) Score(in *Input) Outcome {
	total, suspicious := 0, 0
	for name, prof := range in.Columns().All() {
		if !prof.IsNumeric || !s.Pattern.MatchString(name) {
			continue
		}

		total++
		if minOrZero(prof) <= 0 {
			suspicious++
		}
	}

	if total == 0 {
		return Outcome{Score: 100}
	}

	return Outcome{Score: float64(total-suspicious) / float64(total) * 100}
}

// NonNegative scores 0 when any matched column has a negative minimum, and
// 100 otherwise.
type NonNegative struct {
	Pattern *Pattern
}

func (s NonNegative) Score(in *Input) Outcome {
	cols := in.Columns()
	for _, name := range s.Pattern.Match(cols) {
		prof, _ := cols.Get(name)
		if minOrZero(prof) < 0 {
			return Outcome{Score: 0}
		}
	}

	return Outcome{Score: 100}
}

// Conditional scores Hit when Evidence matches a column or Trigger matches
// none, and Miss otherwise.
type Conditional struct {
	Trigger   *Pattern
	Evidence  *Pattern
	Hit, Miss float64
}

func (s Conditional) Score(in *Input) Outcome {
	cols := in.Columns()
	if s.Evidence.Any(cols) || !s.Trigger.Any(cols) {
		return Outcome{Score: s.Hit}
	}

	return Outcome{Score: s.Miss}
}

// NameContains scores 0 when a matched column name contains Substr
// (case-sensitive), and 100 otherwise.
type NameContains struct {
	Pattern *Pattern
	Substr  string
}

func (s NameContains) Score(in *Input) Outcome {
	for _, name := range s.Pattern.Match(in.Columns()) {
		if strings.Contains(name, s.Substr) {
			return Outcome{Score: 0}
		}
	}

	return Outcome{Score: 100}
}

// Fixed always scores Value. It stands in for checks that have no
// profiling signal.
type Fixed struct {
	Value float64
}

// Pass returns a [Fixed] scorer of 100.
func Pass() Fixed {
	return Fixed{Value: 100}
}

func (s Fixed) Score(*Input) Outcome {
	return Outcome{Score: s.Value}
}

func minOrZero(p *metadata.ColumnProfile) float64 {
	if p.Min == nil {
		return 0
	}

	return *p.Min
}
