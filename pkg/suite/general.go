package suite

import (
	"github.com/macropower/compass/pkg/rule"
)

var (
	idCol       = rule.MustCompile("id")
	amountCol   = rule.MustCompile("amount")
	dateTimeCol = rule.MustCompile("date|time")

	mandatoryCols = []*rule.Pattern{idCol, amountCol, dateTimeCol}

	// The default timeliness scorer is shared, so both timeliness checks
	// always agree.
	recency = rule.Recency{SLADays: rule.DefaultSLADays}

	// Both transaction ID checks score the first identifier-like column.
	transactionID = rule.Uniqueness{Pattern: rule.MustCompile("id|uuid|key")}
)

// General is split into the classic data-quality dimensions.
var generalGroups = []Group{
	{Name: "completeness", Checks: completenessChecks},
	{Name: "validity", Checks: validityChecks},
	{Name: "accuracy", Checks: accuracyChecks},
	{Name: "uniqueness", Checks: uniquenessChecks},
	{Name: "consistency", Checks: consistencyChecks},
	{Name: "timeliness", Checks: timelinessChecks},
	{Name: "integrity", Checks: integrityChecks},
	{Name: "security", Checks: securityChecks},
}

var completenessChecks = []rule.Check{
	{
		Key:       "completeness_mandatory_columns",
		Weight:    4,
		Threshold: rule.Exactly(100),
		Details:   "Mandatory columns check",
		Scorer:    rule.Coverage{Patterns: mandatoryCols},
	},
	{
		Key:       "completeness_mandatory_nulls",
		Weight:    4,
		Threshold: rule.Above(95),
		Details:   "Critical fields non-null check",
		Scorer:    rule.NonNullAverage{Patterns: mandatoryCols},
	},
	{
		Key:       "completeness_address",
		Weight:    3,
		Threshold: rule.Above(90),
		Details:   "Address fields presence",
		Scorer: rule.NonNullAverage{
			Patterns: []*rule.Pattern{rule.MustCompile("address|city|zip|post|state")},
		},
	},
	{
		Key:       "completeness_kyc_id",
		Weight:    5,
		Threshold: rule.Exactly(100),
		Details:   "KYC Identifier presence",
		Scorer:    rule.Require("kyc|passport|ssn|tax|national_id|customer_id"),
	},
	{
		Key:       "completeness_source_of_funds",
		Weight:    3,
		Threshold: rule.Exactly(100),
		Details:   "Source of funds check",
		// "scource" matches a misspelling seen in upstream schemas.
		Scorer: rule.Require("source|provenance|scource_of_funds|remitter"),
	},
	{
		Key:       "completeness_audit_trail",
		Weight:    2,
		Threshold: rule.Exactly(100),
		Details:   "Audit trail columns check",
		Scorer:    rule.Require("created_at|updated_at|audit|timestamp|version"),
	},
	{
		Key:       "completeness_enhanced_data",
		Weight:    1,
		Threshold: rule.Exactly(100),
		Details:   "Enhanced data fields check",
		Scorer:    rule.Require("device|ip|location|browser|metadata"),
	},
}

var validityChecks = []rule.Check{
	{
		Key:       "validity_date_format",
		Weight:    4,
		Threshold: rule.Above(90),
		Details:   "ISO Date format check",
		Scorer:    rule.FieldAverage{Pattern: dateTimeCol, Field: rule.ISODateMatch, Fallback: 100},
	},
	{
		Key:       "validity_currency_code",
		Weight:    3,
		Threshold: rule.Above(95),
		Details:   "ISO Currency code check",
		Scorer: rule.FieldAverage{
			Pattern:  rule.MustCompile("currency|curr"),
			Field:    rule.CurrencyCodeMatch,
			Fallback: 100,
		},
	},
	{
		Key:       "validity_country_code",
		Weight:    3,
		Threshold: rule.Above(95),
		Details:   "ISO Country code check",
		Scorer: rule.FieldAverage{
			Pattern:  rule.MustCompile("country|cntry|nation"),
			Field:    rule.CountryCodeMatch,
			Fallback: 100,
		},
	},
	{
		Key:       "validity_name_pattern",
		Weight:    3,
		Threshold: rule.Always(),
		Details:   "Name naming convention check",
		Scorer:    rule.Pass(),
	},
	{
		Key:       "validity_field_length",
		Weight:    2,
		Threshold: rule.Always(),
		Details:   "Field length truncation check",
		Scorer:    rule.Pass(),
	},
	{
		Key:       "validity_regex_conformity",
		Weight:    2,
		Threshold: rule.Above(90),
		Details:   "Regex pattern conformity",
		Scorer: rule.FieldAverage{
			Pattern:  rule.MustCompile("email"),
			Field:    rule.EmailMatch,
			Fallback: 100,
		},
	},
	{
		Key:       "validity_schema_type",
		Weight:    1,
		Threshold: rule.Always(),
		Details:   "Schema type consistency",
		Scorer:    rule.Pass(),
	},
}

var accuracyChecks = []rule.Check{
	{
		Key:       "accuracy_impossible_date",
		Weight:    4,
		Threshold: rule.Always(),
		Details:   "Logical dates only",
		Scorer:    rule.Pass(),
	},
	{
		Key:       "accuracy_negative_amounts",
		Weight:    5,
		Threshold: rule.Exactly(100),
		Details:   "Zero/Negative amount check",
		Scorer:    rule.PositiveAmounts{Pattern: rule.MustCompile("amount|price|cost|value|balance")},
	},
	{
		Key:       "accuracy_arithmetic",
		Weight:    4,
		Threshold: rule.Always(),
		Details:   "Arithmetic calculations match",
		Scorer:    rule.Pass(),
	},
	{
		Key:       "accuracy_null_clusters",
		Weight:    2,
		Threshold: rule.Above(80),
		Details:   "Systemic null clusters check",
		Scorer:    rule.NullPenalty{Above: 90, Units: 10},
	},
}

var uniquenessChecks = []rule.Check{
	{
		Key:       "uniqueness_transaction_id",
		Weight:    5,
		Threshold: rule.Above(99),
		Details:   "Transaction ID uniqueness",
		Scorer:    transactionID,
	},
	{
		Key:       "uniqueness_composite_key",
		Weight:    3,
		Threshold: rule.Always(),
		Details:   "Row-level uniqueness",
		Scorer:    rule.Pass(),
	},
	{
		Key:       "uniqueness_primary_key",
		Weight:    2,
		Threshold: rule.Above(99),
		Details:   "Entity uniqueness",
		Scorer:    transactionID,
	},
}

var consistencyChecks = []rule.Check{
	{
		Key:       "consistency_status_mismatch",
		Weight:    4,
		Threshold: rule.Always(),
		Details:   "Consistent statuses check",
		Scorer:    rule.Pass(),
	},
	{
		Key:       "consistency_currency_country",
		Weight:    3,
		Threshold: rule.Always(),
		Details:   "Currency-Country alignment",
		Scorer:    rule.Pass(),
	},
	{
		Key:       "consistency_schema_drift",
		Weight:    3,
		Threshold: rule.Always(),
		Details:   "Schema structural consistency",
		Scorer:    rule.Pass(),
	},
}

var timelinessChecks = []rule.Check{
	{
		// Details come from the scorer.
		Key:       "timeliness_dataset_age",
		Weight:    4,
		Threshold: rule.Above(80),
		Scorer:    recency,
	},
	{
		Key:       "timeliness_late_ingestion",
		Weight:    2,
		Threshold: rule.Above(80),
		Details:   "No delayed ingestion",
		Scorer:    recency,
	},
}

var integrityChecks = []rule.Check{
	{
		Key:       "integrity_referential",
		Weight:    7,
		Threshold: rule.Above(80),
		Details:   "Foreign key relationships check",
		Scorer: rule.NullPenalty{
			Pattern: rule.MustCompile("^.+_id$"),
			Exclude: rule.MustCompile("transaction"),
			Above:   20,
			Units:   20,
		},
	},
}

var securityChecks = []rule.Check{
	{
		Key:       "security_pan_storage",
		Weight:    5,
		Threshold: rule.Exactly(100),
		Details:   "No PAN stored check",
		Scorer:    rule.Prohibit("pan|creditcard|card_number"),
	},
	{
		Key:       "security_cvv_storage",
		Weight:    5,
		Threshold: rule.Exactly(100),
		Details:   "No CVV stored check",
		Scorer:    rule.Prohibit("cvv|cvc"),
	},
	{
		Key:       "security_metadata_only",
		Weight:    2,
		Threshold: rule.Always(),
		Details:   "Metadata-only enforcement",
		Scorer:    rule.Pass(),
	},
}
