package rule

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DefaultSLADays is the dataset age, in days, within which data is
// considered timely.
const DefaultSLADays = 30

var errNoLayout = errors.New("no matching ISO-8601 layout")

// Layouts accepted for max_date values. Values without a zone are UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Recency scores the age of the most recent max_date across all columns
// against an SLA. Within the SLA it scores 100, and it loses one point per
// day beyond it, down to 0. Without any max_date it scores 100; a value
// that cannot be parsed, including an empty one, scores 0.
//
// The most recent value is the lexicographic maximum, so mixed formats are
// compared as strings.
type Recency struct {
	SLADays int
}

func (s Recency) Score(in *Input) Outcome {
	var (
		latest string
		found  bool
	)

	for _, prof := range in.Columns().All() {
		if prof.MaxDate == nil {
			continue
		}
		if !found || *prof.MaxDate > latest {
			latest = *prof.MaxDate
			found = true
		}
	}

	if !found {
		return s.outcome(100, 0)
	}

	t, err := ParseDate(latest)
	if err != nil {
		return s.outcome(0, 0)
	}

	days := AgeDays(in.Now, t)
	if days <= s.SLADays {
		return s.outcome(100, days)
	}

	return s.outcome(max(0, 100-float64(days-s.SLADays)), days)
}

func (s Recency) outcome(score float64, days int) Outcome {
	return Outcome{
		Score:   score,
		Details: fmt.Sprintf("Data age: %d days (SLA: %d)", days, s.SLADays),
	}
}

// ParseDate parses an ISO-8601 date or date-time.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("parse date %q: %w", s, errNoLayout)
}

// AgeDays returns the number of whole days from t to now, rounded down.
// A t after now gives a negative age.
func AgeDays(now, t time.Time) int {
	return int(math.Floor(now.Sub(t).Hours() / 24))
}
