package expr

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"

	"github.com/macropower/compass/pkg/metadata"
	"github.com/macropower/compass/pkg/rule"
)

// Scorer is a [rule.Scorer] backed by a compiled score expression.
//
// An expression that fails at evaluation time scores 0, with the error
// reported in the check's details.
type Scorer struct {
	program    cel.Program
	expression string
}

// NewScorer compiles expression into a [Scorer].
func (e *Environment) NewScorer(expression string) (*Scorer, error) {
	program, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}

	return &Scorer{program: program, expression: expression}, nil
}

// String returns the source expression.
func (s *Scorer) String() string {
	return s.expression
}

func (s *Scorer) Score(in *rule.Input) rule.Outcome {
	out, _, err := s.program.Eval(Activation(in))
	if err != nil {
		return rule.Outcome{Err: fmt.Errorf("evaluate expression: %w", err)}
	}

	score, err := toFloat(out)
	if err != nil {
		return rule.Outcome{Err: fmt.Errorf("evaluate expression: %w", err)}
	}

	return rule.Outcome{Score: score}
}

// Activation returns the variables of a score expression for in.
func Activation(in *rule.Input) map[string]any {
	cols := in.Columns()
	profiles := make(map[string]any, cols.Len())
	for name, p := range cols.All() {
		profiles[name] = profileValues(p)
	}

	return map[string]any{
		VarNames:        types.NewStringList(types.DefaultTypeAdapter, cols.Names()),
		VarColumns:      ConvertToCELValue(profiles),
		VarTotalRows:    types.Int(in.Dataset.TotalRows),
		VarTotalColumns: types.Int(in.Dataset.TotalColumns),
	}
}

func profileValues(p *metadata.ColumnProfile) map[string]any {
	v := map[string]any{
		"null_percentage": p.NullPercentage,
		"unique_count":    p.UniqueCount,
		"is_numeric":      p.IsNumeric,
	}

	optional := map[string]*float64{
		"min":                            p.Min,
		"max":                            p.Max,
		"iso_date_match_percentage":      p.ISODateMatchPercentage,
		"currency_code_match_percentage": p.CurrencyCodeMatchPercentage,
		"country_code_match_percentage":  p.CountryCodeMatchPercentage,
		"email_match_percentage":         p.EmailMatchPercentage,
	}
	for key, f := range optional {
		if f != nil {
			v[key] = *f
		}
	}

	if p.MaxDate != nil {
		v["max_date"] = *p.MaxDate
	}

	return v
}
