package suite

import (
	"github.com/macropower/compass/pkg/rule"
)

var baselChecks = []rule.Check{
	{
		Key:       "basel_amount_accuracy",
		Weight:    5,
		Threshold: rule.Exactly(100),
		Details:   "Amounts positive & within bounds",
		Scorer:    rule.NonNegative{Pattern: rule.MustCompile("amount|balance|exposure")},
	},
	{
		Key:       "basel_arithmetic_consistency",
		Weight:    4,
		Threshold: rule.Always(),
		Details:   "Derived fields reconcile",
		Scorer:    rule.Pass(),
	},
	{
		Key:       "basel_referential_integrity",
		Weight:    5,
		Threshold: rule.Above(90),
		Details:   "Entities referenced validly",
		Scorer:    rule.NullMeanPenalty{Pattern: rule.MustCompile("_id")},
	},
	{
		Key:       "basel_duplicate_prevention",
		Weight:    5,
		Threshold: rule.Above(90),
		Details:   "No duplicated exposure transactions",
		Scorer:    rule.AnyUnique{Pattern: rule.MustCompile("id$"), Partial: 50},
	},
	{
		Key:       "basel_cross_ledger",
		Weight:    3,
		Threshold: rule.Above(80),
		Details:   "Ledger alignment attributes",
		Scorer:    rule.RequireOr("gl_|ledger|book", 50),
	},
	{
		// Risk data timeliness is covered by the general recency checks.
		Key:       "basel_timeliness",
		Weight:    4,
		Threshold: rule.Always(),
		Details:   "Data available within risk SLAs",
		Scorer:    rule.Pass(),
	},
}
