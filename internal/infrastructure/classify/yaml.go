package classify

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

type ruleFile struct {
	Categories []struct {
		Category string   `yaml:"category"`
		Tags     []string `yaml:"tags"`
		Patterns []string `yaml:"patterns"`
	} `yaml:"categories"`
	FallbackTags []string `yaml:"fallback_tags"`
	Dates        []struct {
		Label   string `yaml:"label"`
		Pattern string `yaml:"pattern"`
	} `yaml:"dates"`
}

// LoadFile builds a classifier from a YAML rule table, replacing the default
// category precedence. Sections left empty keep the defaults, so a file may
// tune categories without restating the date patterns.
func LoadFile(path string) (*Classifier, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule file: %w", err)
	}

	var spec ruleFile
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("parse rule file: %w", err)
	}

	c := New()

	if len(spec.Categories) > 0 {
		rules := make([]rule, 0, len(spec.Categories))
		for _, rc := range spec.Categories {
			if rc.Category == "" || len(rc.Patterns) == 0 {
				return nil, fmt.Errorf("rule for %q: category and patterns are required", rc.Category)
			}
			if len(rc.Tags) == 0 {
				return nil, fmt.Errorf("rule for %q: at least one tag is required", rc.Category)
			}
			compiled := make([]*regexp.Regexp, 0, len(rc.Patterns))
			for _, expr := range rc.Patterns {
				p, err := regexp.Compile(`(?i)` + expr)
				if err != nil {
					return nil, fmt.Errorf("rule for %q: %w", rc.Category, err)
				}
				compiled = append(compiled, p)
			}
			rules = append(rules, rule{category: rc.Category, tags: rc.Tags, patterns: compiled})
		}
		c.rules = rules
	}

	if len(spec.FallbackTags) > 0 {
		c.fallbackTags = spec.FallbackTags
	}

	if len(spec.Dates) > 0 {
		dates := make([]datePattern, 0, len(spec.Dates))
		for _, dc := range spec.Dates {
			p, err := regexp.Compile(`(?i)` + dc.Pattern)
			if err != nil {
				return nil, fmt.Errorf("date pattern %q: %w", dc.Label, err)
			}
			if p.NumSubexp() < 1 {
				return nil, fmt.Errorf("date pattern %q: needs a capture group", dc.Label)
			}
			dates = append(dates, datePattern{label: dc.Label, pattern: p})
		}
		c.dates = dates
	}

	return c, nil
}
