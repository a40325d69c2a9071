// Package standard resolves free-text compliance standard names.
package standard

import (
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Standard identifies a compliance check suite.
type Standard string

const (
	General  Standard = "GENERAL"
	GDPR     Standard = "GDPR"
	VisaCEDP Standard = "VISA_CEDP"
	AMLFATF  Standard = "AML_FATF"
	PCIDSS   Standard = "PCI_DSS"
	Basel    Standard = "BASEL"
)

// Default is the standard text used when none is given.
const Default = "General Transaction"

// Rule maps a set of keywords to a [Standard].
type Rule struct {
	Standard Standard `json:"standard"`
	Keywords []string `json:"keywords"`
}

// Rules are tested in order by [Resolve]; the first rule with a keyword
// found in the text wins. An identifier naming several standards resolves
// to the earliest one.
var Rules = []Rule{
	{Standard: GDPR, Keywords: []string{"GDPR"}},
	{Standard: VisaCEDP, Keywords: []string{"VISA", "CEDP"}},
	{Standard: AMLFATF, Keywords: []string{"AML", "FATF"}},
	{Standard: PCIDSS, Keywords: []string{"PCI"}},
	{Standard: Basel, Keywords: []string{"BASEL"}},
}

// All lists every [Standard], [General] first.
var All = []Standard{General, GDPR, VisaCEDP, AMLFATF, PCIDSS, Basel}

// Resolve maps text to a [Standard]. Matching is case-insensitive
// substring containment over [Rules]; text matching no rule resolves to
// [General].
func Resolve(text string) Standard {
	s, _ := Lookup(text)

	return s
}

// Lookup is like [Resolve] but also reports whether a keyword matched.
func Lookup(text string) (Standard, bool) {
	text = toUpper(text)
	for _, r := range Rules {
		for _, kw := range r.Keywords {
			if strings.Contains(text, kw) {
				return r.Standard, true
			}
		}
	}

	return General, false
}

// Suggest returns the keyword closest to text, for texts that resolve to
// [General] by default. It returns "" when nothing is close.
func Suggest(text string) string {
	var keywords []string
	for _, r := range Rules {
		keywords = append(keywords, r.Keywords...)
	}

	matches := fuzzy.Find(toUpper(text), keywords)
	if len(matches) == 0 {
		return ""
	}

	return matches[0].Str
}

// Keywords returns the keywords that select s. [General] has none.
func (s Standard) Keywords() []string {
	for _, r := range Rules {
		if r.Standard == s {
			return r.Keywords
		}
	}

	return nil
}

// toUpper applies full Unicode upper-casing. A [cases.Caser] is stateful,
// so one is created per call.
func toUpper(text string) string {
	return cases.Upper(language.Und).String(text)
}

func (s Standard) String() string {
	return string(s)
}
