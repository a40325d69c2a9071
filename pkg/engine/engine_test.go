package engine_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/compass/pkg/engine"
	"github.com/macropower/compass/pkg/metadata"
	"github.com/macropower/compass/pkg/rule"
	"github.com/macropower/compass/pkg/standard"
)

var now = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func load(t *testing.T, src string) *metadata.Dataset {
	t.Helper()

	md, err := metadata.Load([]byte(src))
	require.NoError(t, err)

	return md
}

const transactions = `
total_rows: 100
total_columns: 5
columns:
  transaction_id:
    unique_count: 100
  amount:
    is_numeric: true
    min: 1.5
    max: 900
  currency:
    currency_code_match_percentage: 100
  transaction_date:
    iso_date_match_percentage: 100
    max_date: "2025-05-01T12:00:00"
  cvv_code:
    null_percentage: 2
`

func TestEngine_Evaluate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		src    string
		text   string
		key    string
		detail string
		score  float64
		passed bool
		count  int
	}{
		"cvv stored": {
			src:   transactions,
			key:   "security_cvv_storage",
			score: 0,
			count: 30,
		},
		"recency beyond sla": {
			src:    transactions,
			text:   "General Transaction",
			key:    "timeliness_dataset_age",
			score:  85,
			passed: true,
			detail: "Data age: 45 days (SLA: 30)",
			count:  30,
		},
		"fully unique ids": {
			src:    transactions,
			key:    "uniqueness_transaction_id",
			score:  100,
			passed: true,
			count:  30,
		},
		"half unique ids": {
			src:   "total_rows: 10\ncolumns:\n  id:\n    unique_count: 5\n",
			key:   "uniqueness_transaction_id",
			score: 50,
			count: 30,
		},
		"kyc absent": {
			src:   transactions,
			text:  "aml",
			key:   "aml_kyc_identifier",
			score: 0,
			count: 6,
		},
		"hybrid resolves to gdpr": {
			src:    transactions,
			text:   "PCI-GDPR-HYBRID",
			key:    "gdpr_metadata_analytics",
			score:  100,
			passed: true,
			count:  6,
		},
		"pci cvv": {
			src:   transactions,
			text:  "PCI DSS v4",
			key:   "pci_no_cvv",
			score: 0,
			count: 6,
		},
		"unknown text": {
			src:    transactions,
			text:   "SOX",
			key:    "completeness_mandatory_columns",
			score:  100,
			passed: true,
			count:  30,
		},
	}

	e := engine.New(engine.WithClock(clock))

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			results, err := e.Evaluate(t.Context(), load(t, tc.src), tc.text)
			require.NoError(t, err)
			assert.Len(t, results, tc.count)

			got, ok := results[tc.key]
			require.True(t, ok)
			assert.InDelta(t, tc.score, got.Score, 1e-9)
			assert.Equal(t, tc.passed, got.Passed)

			if tc.detail != "" {
				assert.Equal(t, tc.detail, got.Details)
			}
		})
	}
}

func TestEngine_Evaluate_InvalidMetadata(t *testing.T) {
	t.Parallel()

	tcs := map[string]*metadata.Dataset{
		"nil dataset":  nil,
		"nil columns":  {TotalRows: 1},
		"nil profile":  {Columns: metadata.NewColumns(metadata.Column{Name: "id"})},
		"negative row": {Columns: metadata.NewColumns(), TotalRows: -1},
		"unique values without rows": {
			Columns: metadata.NewColumns(metadata.Column{
				Name:    "id",
				Profile: &metadata.ColumnProfile{UniqueCount: 1},
			}),
		},
	}

	e := engine.New()

	for name, md := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			results, err := e.Evaluate(t.Context(), md, "")
			require.ErrorIs(t, err, metadata.ErrInvalidMetadata)
			assert.Nil(t, results)
		})
	}
}

func TestEngine_Evaluate_MoreUniqueThanRows(t *testing.T) {
	t.Parallel()

	md := &metadata.Dataset{
		Columns: metadata.NewColumns(metadata.Column{
			Name:    "id",
			Profile: &metadata.ColumnProfile{UniqueCount: 120},
		}),
		TotalRows: 100,
	}

	results, err := engine.New(engine.WithClock(clock)).Evaluate(t.Context(), md, "")
	require.NoError(t, err)

	for _, key := range []string{"uniqueness_transaction_id", "uniqueness_primary_key"} {
		got, ok := results[key]
		require.True(t, ok, key)
		assert.InDelta(t, 120, got.Score, 1e-9, key)
		assert.True(t, got.Passed, key)
	}
}

func TestEngine_Evaluate_EmptyMaxDate(t *testing.T) {
	t.Parallel()

	md := load(t, "total_rows: 10\ncolumns:\n  updated_at:\n    max_date: \"\"\n")

	results, err := engine.New(engine.WithClock(clock)).Evaluate(t.Context(), md, "")
	require.NoError(t, err)

	for _, key := range []string{"timeliness_dataset_age", "timeliness_late_ingestion"} {
		got, ok := results[key]
		require.True(t, ok, key)
		assert.Zero(t, got.Score, key)
		assert.False(t, got.Passed, key)
	}
}

func TestEngine_Evaluate_Deterministic(t *testing.T) {
	t.Parallel()

	e := engine.New(engine.WithClock(clock))

	var outputs [][]byte
	for range 3 {
		results, err := e.Evaluate(t.Context(), load(t, transactions), "")
		require.NoError(t, err)

		out, err := json.Marshal(results)
		require.NoError(t, err)

		outputs = append(outputs, out)
	}

	assert.Equal(t, outputs[0], outputs[1])
	assert.Equal(t, outputs[1], outputs[2])
}

func TestEngine_Evaluate_DoesNotModify(t *testing.T) {
	t.Parallel()

	md := load(t, transactions)
	before, err := json.Marshal(md)
	require.NoError(t, err)

	_, err = engine.New().Evaluate(t.Context(), md, "")
	require.NoError(t, err)

	after, err := json.Marshal(md)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestEngine_CustomChecks(t *testing.T) {
	t.Parallel()

	custom := rule.Check{
		Key:       "custom_row_floor",
		Weight:    2,
		Threshold: rule.AtLeast(1000),
		Details:   "At least 1000 rows",
		Scorer: rule.ScorerFunc(func(in *rule.Input) rule.Outcome {
			return rule.Outcome{Score: float64(in.Dataset.TotalRows)}
		}),
	}

	e := engine.New(engine.WithCustomChecks(standard.Basel, custom))

	results, err := e.EvaluateStandard(t.Context(), load(t, transactions), standard.Basel)
	require.NoError(t, err)
	assert.Len(t, results, 7)
	assert.Equal(t, rule.Result{
		Score:   100,
		Weight:  2,
		Details: "At least 1000 rows",
	}, results["custom_row_floor"])

	results, err = e.EvaluateStandard(t.Context(), load(t, transactions), standard.GDPR)
	require.NoError(t, err)
	assert.NotContains(t, results, "custom_row_floor")

	checks := e.Checks(standard.Basel)
	assert.Equal(t, "custom_row_floor", checks[len(checks)-1].Key)
}
