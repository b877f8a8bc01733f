// Package classify maps extracted text to a category, a fixed tag set and a
// labeled important date using ordered rule tables. First match wins; the
// precedence of the tables is deliberate and pinned by tests.
//
// Known limitation: captured date tokens are passed through without calendar
// validation, so "31/02/2024" is surfaced as matched. Suppressing a true
// positive is considered worse than surfacing a malformed date.
package classify

import (
	"regexp"
	"strings"
)

// FallbackCategory is returned when no rule matches.
const FallbackCategory = "Other"

type rule struct {
	category string
	tags     []string
	patterns []*regexp.Regexp
}

type datePattern struct {
	label   string
	pattern *regexp.Regexp
}

type Classifier struct {
	rules        []rule
	fallbackTags []string
	dates        []datePattern
}

// New builds a classifier with the default rule tables.
func New() *Classifier {
	return &Classifier{
		rules:        defaultRules(),
		fallbackTags: []string{"document", "file"},
		dates:        defaultDatePatterns(),
	}
}

// Classify matches text + " " + filename against the ordered category rules.
// The returned category is never empty and the tag set is never empty.
func (c *Classifier) Classify(text, filename string) (string, []string) {
	combined := strings.ToLower(text + " " + filename)

	for _, r := range c.rules {
		for _, p := range r.patterns {
			if p.MatchString(combined) {
				return r.category, append([]string(nil), r.tags...)
			}
		}
	}
	return FallbackCategory, append([]string(nil), c.fallbackTags...)
}

// ExtractDate returns the first labeled date found in text, or empty strings.
// A non-empty date is always paired with a non-empty label.
func (c *Classifier) ExtractDate(text string) (date, label string) {
	for _, dp := range c.dates {
		if m := dp.pattern.FindStringSubmatch(text); len(m) > 1 {
			return m[1], dp.label
		}
	}
	return "", ""
}

// Categories returns the category names in precedence order, without the
// fallback sentinel.
func (c *Classifier) Categories() []string {
	out := make([]string, 0, len(c.rules))
	for _, r := range c.rules {
		out = append(out, r.category)
	}
	return out
}
