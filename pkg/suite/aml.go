package suite

import (
	"github.com/macropower/compass/pkg/rule"
)

var amlChecks = []rule.Check{
	{
		Key:       "aml_kyc_identifier",
		Weight:    5,
		Threshold: rule.Exactly(100),
		Details:   "Valid customer identity reference exists",
		Scorer:    rule.Require("customer_id|kyc|ssn|national_id|passport"),
	},
	{
		Key:       "aml_address_completeness",
		Weight:    5,
		Threshold: rule.Exactly(100),
		Details:   "Jurisdictional address fields present",
		Scorer:    rule.MinCount{Pattern: rule.MustCompile("address|city|country|zip"), Min: 2},
	},
	{
		Key:       "aml_source_of_funds",
		Weight:    5,
		Threshold: rule.Exactly(100),
		Details:   "Origin of funds attribute populated",
		Scorer:    rule.Require("source_of_funds|remitter|origin_account|sender"),
	},
	{
		Key:       "aml_traceability",
		Weight:    5,
		Threshold: rule.Exactly(100),
		Details:   "Transaction links to customer/entity",
		Scorer:    rule.Require("customer_id|account_id"),
	},
	{
		// Volume and frequency analysis needs both an amount and a time.
		Key:       "aml_suspicious_patterns",
		Weight:    4,
		Threshold: rule.Exactly(100),
		Details:   "Data supports volume/frequency analysis",
		Scorer: rule.AllPresent{Patterns: []*rule.Pattern{
			rule.MustCompile("amount|value"),
			rule.MustCompile("date|time|timestamp"),
		}},
	},
	{
		Key:       "aml_audit_trail",
		Weight:    3,
		Threshold: rule.Exactly(100),
		Details:   "Transaction history is traceable",
		Scorer:    rule.Require("audit|log|history|modified"),
	},
}
