package rule

import (
	"fmt"
	"regexp"

	"github.com/macropower/compass/pkg/metadata"
)

// Pattern is a compiled, case-insensitive column name pattern.
// It matches anywhere in the name unless anchored.
type Pattern struct {
	re   *regexp.Regexp
	expr string
}

// Compile compiles expr into a [Pattern].
func Compile(expr string) (*Pattern, error) {
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", expr, err)
	}

	return &Pattern{re: re, expr: expr}, nil
}

// MustCompile is like [Compile] but panics if expr is invalid.
func MustCompile(expr string) *Pattern {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}

	return p
}

// Match returns the names of the columns matching the pattern, in column
// order.
func (p *Pattern) Match(cols *metadata.Columns) []string {
	var names []string
	for name := range cols.All() {
		if p.re.MatchString(name) {
			names = append(names, name)
		}
	}

	return names
}

// Any reports whether at least one column matches the pattern.
func (p *Pattern) Any(cols *metadata.Columns) bool {
	for name := range cols.All() {
		if p.re.MatchString(name) {
			return true
		}
	}

	return false
}

// MatchString reports whether name matches the pattern.
func (p *Pattern) MatchString(name string) bool {
	return p.re.MatchString(name)
}

func (p *Pattern) String() string {
	return p.expr
}
