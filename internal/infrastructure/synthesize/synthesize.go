// Package synthesize derives a human-readable title and a one-line summary
// from extracted text. The outputs are deterministic fallbacks: not every
// analysis provider has generative capability, so these must never fail and
// never depend on randomness.
package synthesize

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxTitleLen   = 50
	maxSummaryLen = 100
)

var titleCase = regexp.MustCompile(`^[A-Z][a-z]+(\s+[A-Z][a-z]+)*`)

// Title scans the first 5 non-blank lines for something that looks like a
// document heading: 10-60 chars, mostly uppercase or title case. Falls back
// to "{category} - {cleaned filename}".
func Title(text, filename, category string) string {
	lines := nonBlankLines(text)
	if len(lines) > 5 {
		lines = lines[:5]
	}

	for _, line := range lines {
		if len(line) <= 10 || len(line) >= 60 {
			continue
		}
		if uppercaseRatio(line) > 0.5 || titleCase.MatchString(line) {
			return truncate(line, maxTitleLen)
		}
	}

	return truncate(category+" - "+cleanFilename(filename), maxTitleLen)
}

// Summary returns the first meaningful sentence, or a fixed fallback form
// when the text is too thin to summarize.
func Summary(text, category string) string {
	wordCount := len(strings.Fields(text))
	if wordCount < 10 {
		return fmt.Sprintf("%s document with minimal text content", category)
	}

	for _, sentence := range splitSentences(text) {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) <= 20 {
			continue
		}
		if len(sentence) > maxSummaryLen {
			return truncate(sentence, maxSummaryLen) + "..."
		}
		return sentence
	}

	return fmt.Sprintf("%s document containing %d words", category, wordCount)
}

func nonBlankLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func uppercaseRatio(s string) float64 {
	upper := 0
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			upper++
		}
	}
	return float64(upper) / float64(len(s))
}

func splitSentences(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
}

func cleanFilename(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	return base
}

// truncate cuts s to at most n bytes without splitting a UTF-8 rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
