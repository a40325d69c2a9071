package rule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/macropower/compass/pkg/metadata"
	"github.com/macropower/compass/pkg/rule"
)

type col struct {
	profile metadata.ColumnProfile
	name    string
}

func input(totalRows int, cols ...col) *rule.Input {
	c := metadata.NewColumns()
	for _, cl := range cols {
		p := cl.profile
		c.Set(cl.name, &p)
	}

	return &rule.Input{Dataset: &metadata.Dataset{Columns: c, TotalRows: totalRows}}
}

func TestScorers(t *testing.T) {
	t.Parallel()

	pct := metadata.Float

	tcs := map[string]struct {
		scorer rule.Scorer
		in     *rule.Input
		want   float64
	}{
		"require hit": {
			scorer: rule.Require("kyc|passport"),
			in:     input(1, col{name: "Passport_No"}),
			want:   100,
		},
		"require miss": {
			scorer: rule.Require("kyc|passport"),
			in:     input(1, col{name: "amount"}),
			want:   0,
		},
		"require with fallback": {
			scorer: rule.RequireOr("audit|log", 20),
			in:     input(1),
			want:   20,
		},
		"prohibit hit": {
			scorer: rule.Prohibit("cvv|cvc"),
			in:     input(1, col{name: "cvv_code"}),
			want:   0,
		},
		"prohibit miss": {
			scorer: rule.Prohibit("cvv|cvc"),
			in:     input(1, col{name: "amount"}),
			want:   100,
		},
		"coverage partial": {
			scorer: rule.Coverage{Patterns: []*rule.Pattern{
				rule.MustCompile("amount"), rule.MustCompile("currency"), rule.MustCompile("date"),
			}},
			in:   input(1, col{name: "amount"}, col{name: "currency"}),
			want: 200.0 / 3,
		},
		"coverage empty list": {
			scorer: rule.Coverage{},
			in:     input(1),
			want:   100,
		},
		"all present": {
			scorer: rule.AllPresent{Patterns: []*rule.Pattern{rule.MustCompile("amount"), rule.MustCompile("date")}},
			in:     input(1, col{name: "amount"}, col{name: "txn_date"}),
			want:   100,
		},
		"all present missing one": {
			scorer: rule.AllPresent{Patterns: []*rule.Pattern{rule.MustCompile("amount"), rule.MustCompile("date")}},
			in:     input(1, col{name: "amount"}),
			want:   0,
		},
		"min count reached": {
			scorer: rule.MinCount{Pattern: rule.MustCompile("address|city"), Min: 2},
			in:     input(1, col{name: "address"}, col{name: "city"}),
			want:   100,
		},
		"min count short": {
			scorer: rule.MinCount{Pattern: rule.MustCompile("address|city"), Min: 2},
			in:     input(1, col{name: "city"}),
			want:   0,
		},
		"non-null average keeps duplicates": {
			scorer: rule.NonNullAverage{Patterns: []*rule.Pattern{rule.MustCompile("id"), rule.MustCompile("date|time")}},
			in: input(1,
				col{name: "id"},
				col{name: "valid_date", profile: metadata.ColumnProfile{NullPercentage: 30}},
			),
			// valid_date matches both patterns: (100 + 70 + 70) / 3.
			want: 80,
		},
		"non-null average fallback": {
			scorer: rule.NonNullAverage{Patterns: []*rule.Pattern{rule.MustCompile("address")}},
			in:     input(1, col{name: "amount"}),
			want:   0,
		},
		"field average treats absent as zero": {
			scorer: rule.FieldAverage{Pattern: rule.MustCompile("email"), Field: rule.EmailMatch, Fallback: 100},
			in: input(1,
				col{name: "email", profile: metadata.ColumnProfile{EmailMatchPercentage: pct(90)}},
				col{name: "backup_email"},
			),
			want: 45,
		},
		"field average fallback": {
			scorer: rule.FieldAverage{Pattern: rule.MustCompile("currency"), Field: rule.CurrencyCodeMatch, Fallback: 100},
			in:     input(1, col{name: "amount"}),
			want:   100,
		},
		"null penalty over all columns": {
			scorer: rule.NullPenalty{Above: 90, Units: 10},
			in: input(1,
				col{name: "a", profile: metadata.ColumnProfile{NullPercentage: 95}},
				col{name: "b", profile: metadata.ColumnProfile{NullPercentage: 90}},
				col{name: "c", profile: metadata.ColumnProfile{NullPercentage: 100}},
			),
			want: 80,
		},
		"null penalty clamps at zero": {
			scorer: rule.NullPenalty{Pattern: rule.MustCompile("email|phone"), Above: 80, Units: 20},
			in: input(1,
				col{name: "email", profile: metadata.ColumnProfile{NullPercentage: 81}},
				col{name: "email2", profile: metadata.ColumnProfile{NullPercentage: 81}},
				col{name: "email3", profile: metadata.ColumnProfile{NullPercentage: 81}},
				col{name: "phone", profile: metadata.ColumnProfile{NullPercentage: 81}},
				col{name: "phone2", profile: metadata.ColumnProfile{NullPercentage: 81}},
				col{name: "phone3", profile: metadata.ColumnProfile{NullPercentage: 81}},
			),
			want: 0,
		},
		"null penalty exclusion": {
			scorer: rule.NullPenalty{
				Pattern: rule.MustCompile("^.+_id$"),
				Exclude: rule.MustCompile("transaction"),
				Above:   20,
				Units:   20,
			},
			in: input(1,
				col{name: "Transaction_Id", profile: metadata.ColumnProfile{NullPercentage: 50}},
				col{name: "merchant_id", profile: metadata.ColumnProfile{NullPercentage: 50}},
				col{name: "id", profile: metadata.ColumnProfile{NullPercentage: 50}},
			),
			want: 80,
		},
		"null mean penalty": {
			scorer: rule.NullMeanPenalty{Pattern: rule.MustCompile("_id")},
			in: input(1,
				col{name: "a_id", profile: metadata.ColumnProfile{NullPercentage: 10}},
				col{name: "b_id", profile: metadata.ColumnProfile{NullPercentage: 20}},
			),
			want: 85,
		},
		"null mean penalty no match": {
			scorer: rule.NullMeanPenalty{Pattern: rule.MustCompile("_id")},
			in:     input(1),
			want:   100,
		},
		"uniqueness full": {
			scorer: rule.Uniqueness{Pattern: rule.MustCompile("id|uuid|key")},
			in:     input(100, col{name: "id", profile: metadata.ColumnProfile{UniqueCount: 100}}),
			want:   100,
		},
		"uniqueness ratio uses first match": {
			scorer: rule.Uniqueness{Pattern: rule.MustCompile("id|uuid|key")},
			in: input(100,
				col{name: "id", profile: metadata.ColumnProfile{UniqueCount: 50}},
				col{name: "uuid", profile: metadata.ColumnProfile{UniqueCount: 100}},
			),
			want: 50,
		},
		"uniqueness above row count": {
			scorer: rule.Uniqueness{Pattern: rule.MustCompile("id")},
			in:     input(100, col{name: "id", profile: metadata.ColumnProfile{UniqueCount: 120}}),
			want:   120,
		},
		"uniqueness no candidate": {
			scorer: rule.Uniqueness{Pattern: rule.MustCompile("id|uuid|key")},
			in:     input(100, col{name: "amount"}),
			want:   0,
		},
		"uniqueness empty dataset": {
			scorer: rule.Uniqueness{Pattern: rule.MustCompile("id")},
			in:     input(0, col{name: "id"}),
			want:   100,
		},
		"any unique": {
			scorer: rule.AnyUnique{Pattern: rule.MustCompile("id$"), Partial: 50},
			in: input(10,
				col{name: "account_id", profile: metadata.ColumnProfile{UniqueCount: 3}},
				col{name: "txn_id", profile: metadata.ColumnProfile{UniqueCount: 10}},
			),
			want: 100,
		},
		"any unique partial": {
			scorer: rule.AnyUnique{Pattern: rule.MustCompile("id$"), Partial: 50},
			in:     input(10, col{name: "account_id", profile: metadata.ColumnProfile{UniqueCount: 3}}),
			want:   50,
		},
		"any unique no match": {
			scorer: rule.AnyUnique{Pattern: rule.MustCompile("id$"), Partial: 50},
			in:     input(10),
			want:   100,
		},
		"positive amounts": {
			scorer: rule.PositiveAmounts{Pattern: rule.MustCompile("amount|price")},
			in: input(1,
				col{name: "amount", profile: metadata.ColumnProfile{IsNumeric: true, Min: pct(1)}},
				col{name: "price", profile: metadata.ColumnProfile{IsNumeric: true, Min: pct(0)}},
				col{name: "fee_amount", profile: metadata.ColumnProfile{IsNumeric: true}},
				col{name: "amount_text", profile: metadata.ColumnProfile{Min: pct(-1)}},
				col{name: "refund_amount", profile: metadata.ColumnProfile{IsNumeric: true, Min: pct(2)}},
			),
			// price (0) and fee_amount (no min) are suspicious; amount_text is not numeric.
			want: 50,
		},
		"positive amounts no numeric": {
			scorer: rule.PositiveAmounts{Pattern: rule.MustCompile("amount")},
			in:     input(1, col{name: "amount"}),
			want:   100,
		},
		"non-negative": {
			scorer: rule.NonNegative{Pattern: rule.MustCompile("amount|balance")},
			in: input(1,
				col{name: "amount", profile: metadata.ColumnProfile{Min: pct(0)}},
				col{name: "balance", profile: metadata.ColumnProfile{Min: pct(-0.01)}},
			),
			want: 0,
		},
		"non-negative without minimum": {
			scorer: rule.NonNegative{Pattern: rule.MustCompile("amount")},
			in:     input(1, col{name: "amount"}),
			want:   100,
		},
		"conditional with evidence": {
			scorer: rule.Conditional{
				Trigger: rule.MustCompile("email"), Evidence: rule.MustCompile("consent"), Hit: 100, Miss: 50,
			},
			in:   input(1, col{name: "email"}, col{name: "consent_flag"}),
			want: 100,
		},
		"conditional not triggered": {
			scorer: rule.Conditional{
				Trigger: rule.MustCompile("email"), Evidence: rule.MustCompile("consent"), Hit: 100, Miss: 50,
			},
			in:   input(1, col{name: "amount"}),
			want: 100,
		},
		"conditional missing evidence": {
			scorer: rule.Conditional{
				Trigger: rule.MustCompile("email"), Evidence: rule.MustCompile("consent"), Hit: 100, Miss: 50,
			},
			in:   input(1, col{name: "email"}),
			want: 50,
		},
		"name contains": {
			scorer: rule.NameContains{Pattern: rule.MustCompile("pan|card_num"), Substr: "raw"},
			in:     input(1, col{name: "raw_pan"}),
			want:   0,
		},
		"name contains is case sensitive": {
			scorer: rule.NameContains{Pattern: rule.MustCompile("pan|card_num"), Substr: "raw"},
			in:     input(1, col{name: "RAW_PAN"}),
			want:   100,
		},
		"fixed": {
			scorer: rule.Pass(),
			in:     input(1),
			want:   100,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := tc.scorer.Score(tc.in)
			assert.InDelta(t, tc.want, got.Score, 1e-9)
			assert.NoError(t, got.Err)
		})
	}
}
