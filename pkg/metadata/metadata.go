package metadata

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidMetadata is returned when a [Dataset] violates the input
// contract. No checks are evaluated for such a dataset.
var ErrInvalidMetadata = errors.New("invalid metadata")

// Dataset is the profile of a single dataset.
type Dataset struct {
	// Columns maps each column name to its profile, in document order.
	Columns *Columns `json:"columns" jsonschema:"title=Columns"`
	// TotalRows is the number of rows in the dataset.
	TotalRows int `json:"total_rows" jsonschema:"title=Total Rows,minimum=0"`
	// TotalColumns is the number of columns in the dataset.
	TotalColumns int `json:"total_columns,omitempty" jsonschema:"title=Total Columns,minimum=0"`
}

// ColumnProfile holds the statistics of a single column.
//
// Optional fields are pointers. A nil field carries no signal, and each
// check applies its own policy for it.
type ColumnProfile struct {
	Min                         *float64 `json:"min,omitempty"                            jsonschema:"title=Minimum Value"`
	Max                         *float64 `json:"max,omitempty"                            jsonschema:"title=Maximum Value"`
	ISODateMatchPercentage      *float64 `json:"iso_date_match_percentage,omitempty"      jsonschema:"title=ISO Date Match Percentage,minimum=0,maximum=100"`
	CurrencyCodeMatchPercentage *float64 `json:"currency_code_match_percentage,omitempty" jsonschema:"title=Currency Code Match Percentage,minimum=0,maximum=100"`
	CountryCodeMatchPercentage  *float64 `json:"country_code_match_percentage,omitempty"  jsonschema:"title=Country Code Match Percentage,minimum=0,maximum=100"`
	EmailMatchPercentage        *float64 `json:"email_match_percentage,omitempty"         jsonschema:"title=Email Match Percentage,minimum=0,maximum=100"`
	// MaxDate is the most recent value of a date column, as an ISO-8601 string.
	// A present but empty value is kept, and fails to parse.
	MaxDate *string `json:"max_date,omitempty" jsonschema:"title=Most Recent Date"`
	// NullPercentage is the share of null values, in [0, 100].
	NullPercentage float64 `json:"null_percentage,omitempty" jsonschema:"title=Null Percentage,minimum=0,maximum=100"`
	// UniqueCount is the number of distinct values.
	UniqueCount int  `json:"unique_count,omitempty" jsonschema:"title=Unique Count,minimum=0"`
	IsNumeric   bool `json:"is_numeric,omitempty"   jsonschema:"title=Is Numeric"`
}

// Float returns a pointer to v, for building optional profile fields.
func Float(v float64) *float64 {
	return &v
}

// String returns a pointer to v, for building optional profile fields.
func String(v string) *string {
	return &v
}

// Validate checks the dataset against the input contract. The returned
// error wraps [ErrInvalidMetadata] and names the first violation found.
func (d *Dataset) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: dataset is nil", ErrInvalidMetadata)
	}
	if d.Columns == nil || d.Columns.om == nil {
		return fmt.Errorf("%w: columns: missing", ErrInvalidMetadata)
	}
	if d.TotalRows < 0 {
		return fmt.Errorf("%w: total_rows: must be >= 0, got %d", ErrInvalidMetadata, d.TotalRows)
	}
	if d.TotalColumns < 0 {
		return fmt.Errorf("%w: total_columns: must be >= 0, got %d", ErrInvalidMetadata, d.TotalColumns)
	}

	for name, p := range d.Columns.All() {
		err := p.validate(d.TotalRows)
		if err != nil {
			return fmt.Errorf("%w: column %q: %w", ErrInvalidMetadata, name, err)
		}
	}

	return nil
}

func (p *ColumnProfile) validate(totalRows int) error {
	if p == nil {
		return errors.New("profile is null")
	}

	err := checkPercentage("null_percentage", &p.NullPercentage)
	if err != nil {
		return err
	}

	rates := []struct {
		v     *float64
		field string
	}{
		{p.ISODateMatchPercentage, "iso_date_match_percentage"},
		{p.CurrencyCodeMatchPercentage, "currency_code_match_percentage"},
		{p.CountryCodeMatchPercentage, "country_code_match_percentage"},
		{p.EmailMatchPercentage, "email_match_percentage"},
	}
	for _, r := range rates {
		err := checkPercentage(r.field, r.v)
		if err != nil {
			return err
		}
	}

	if p.Min != nil && !isFinite(*p.Min) {
		return fmt.Errorf("min: must be finite, got %v", *p.Min)
	}
	if p.Max != nil && !isFinite(*p.Max) {
		return fmt.Errorf("max: must be finite, got %v", *p.Max)
	}
	if p.UniqueCount < 0 {
		return fmt.Errorf("unique_count: must be >= 0, got %d", p.UniqueCount)
	}
	if totalRows == 0 && p.UniqueCount > 0 {
		return fmt.Errorf("unique_count: %d distinct values in an empty dataset", p.UniqueCount)
	}

	return nil
}

func checkPercentage(field string, v *float64) error {
	if v == nil {
		return nil
	}
	if !isFinite(*v) || *v < 0 || *v > 100 {
		return fmt.Errorf("%s: must be within [0, 100], got %v", field, *v)
	}

	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
