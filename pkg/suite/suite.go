// Package suite defines the check tables for each compliance standard.
//
// A [Suite] is data: an ordered list of [Group]s of [rule.Check]s. The
// tables are built once and shared, and must not be modified by callers.
package suite

import (
	"github.com/macropower/compass/pkg/rule"
	"github.com/macropower/compass/pkg/standard"
)

// Group is a named set of checks within a [Suite].
type Group struct {
	Name   string
	Checks []rule.Check
}

// Suite is the check table for one [standard.Standard].
type Suite struct {
	Standard standard.Standard
	Groups   []Group
}

// Checks returns every check in s, in group order.
func (s Suite) Checks() []rule.Check {
	var checks []rule.Check
	for _, g := range s.Groups {
		checks = append(checks, g.Checks...)
	}

	return checks
}

// Keys returns the result key of every check in s, in group order.
func (s Suite) Keys() []string {
	var keys []string
	for _, c := range s.Checks() {
		keys = append(keys, c.Key)
	}

	return keys
}

// Evaluate runs every check in s against in.
func (s Suite) Evaluate(in *rule.Input) rule.Results {
	return rule.Evaluate(in, s.Checks()...)
}

var suites = map[standard.Standard]Suite{
	standard.General:  {Standard: standard.General, Groups: generalGroups},
	standard.GDPR:     {Standard: standard.GDPR, Groups: []Group{{Name: "gdpr", Checks: gdprChecks}}},
	standard.VisaCEDP: {Standard: standard.VisaCEDP, Groups: []Group{{Name: "visa", Checks: visaChecks}}},
	standard.AMLFATF:  {Standard: standard.AMLFATF, Groups: []Group{{Name: "aml", Checks: amlChecks}}},
	standard.PCIDSS:   {Standard: standard.PCIDSS, Groups: []Group{{Name: "pci", Checks: pciChecks}}},
	standard.Basel:    {Standard: standard.Basel, Groups: []Group{{Name: "basel", Checks: baselChecks}}},
}

// For returns the suite for s. Unknown standards get the
// [standard.General] suite.
func For(s standard.Standard) Suite {
	if st, ok := suites[s]; ok {
		return st
	}

	return suites[standard.General]
}
