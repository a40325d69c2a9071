package suite

import (
	"github.com/macropower/compass/pkg/rule"
)

var visaChecks = []rule.Check{
	{
		Key:       "visa_data_classification",
		Weight:    5,
		Threshold: rule.Always(),
		Details:   "Card data fields classified",
		Scorer:    rule.Pass(),
	},
	{
		Key:       "visa_secure_handling",
		Weight:    4,
		Threshold: rule.Always(),
		Details:   "Transaction attributes conform to format",
		Scorer:    rule.Pass(),
	},
	{
		Key:       "visa_no_unauthorized_storage",
		Weight:    5,
		Threshold: rule.Exactly(100),
		Details:   "No raw PAN storage outside permitted systems",
		Scorer:    rule.Prohibit("pan|credit_card|card_num"),
	},
	{
		Key:       "visa_transaction_completeness",
		Weight:    5,
		Threshold: rule.Exactly(100),
		Details:   "Mandatory Visa fields present",
		Scorer: rule.Coverage{Patterns: []*rule.Pattern{
			amountCol,
			rule.MustCompile("currency"),
			rule.MustCompile("date"),
		}},
	},
	{
		Key:       "visa_fraud_readiness",
		Weight:    3,
		Threshold: rule.Above(80),
		Details:   "Fraud monitoring attributes available",
		Scorer:    rule.RequireOr("fraud|avs|cvv_resp|risk|ip", 50),
	},
	{
		Key:       "visa_cross_system_consistency",
		Weight:    4,
		Threshold: rule.Exactly(100),
		Details:   "Transaction identifiers consistent",
		Scorer:    rule.Require("trace|correlation|uuid|ref_id"),
	},
}
