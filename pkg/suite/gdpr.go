package suite

import (
	"github.com/macropower/compass/pkg/rule"
)

var personalData = rule.MustCompile("email|phone|ssn|name|address|birth|gender")

var gdprChecks = []rule.Check{
	{
		// Purposes are declared in the upstream catalog, not in profiles.
		Key:       "gdpr_purpose_limitation",
		Weight:    5,
		Threshold: rule.Above(90),
		Details:   "PII fields have declared purpose",
		Scorer:    rule.Pass(),
	},
	{
		// Mostly-null personal data is being collected without use.
		Key:       "gdpr_data_minimization",
		Weight:    5,
		Threshold: rule.Above(80),
		Details:   "No unused/high-null PII fields",
		Scorer:    rule.NullPenalty{Pattern: personalData, Above: 80, Units: 20},
	},
	{
		Key:       "gdpr_lawful_basis",
		Weight:    5,
		Threshold: rule.Above(80),
		Details:   "Lawful basis reference found",
		Scorer: rule.Conditional{
			Trigger:  personalData,
			Evidence: rule.MustCompile("consent|opt_in|legal|contract"),
			Hit:      100,
			Miss:     50,
		},
	},
	{
		Key:       "gdpr_storage_limitation",
		Weight:    4,
		Threshold: rule.Above(0),
		Details:   "Data retention attributes found",
		Scorer:    rule.Require("retention|expires|ttl|deleted_at"),
	},
	{
		Key:       "gdpr_access_restriction",
		Weight:    4,
		Threshold: rule.Above(50),
		Details:   "Processing/Access logs exist",
		Scorer:    rule.RequireOr("audit|log|updated_by|modified_by", 20),
	},
	{
		Key:       "gdpr_metadata_analytics",
		Weight:    5,
		Threshold: rule.Exactly(100),
		Details:   "No raw credentials in analytic scope",
		Scorer:    rule.Prohibit("ssn|password"),
	},
}
