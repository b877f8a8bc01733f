package classify

import "regexp"

// The category order is a documented tie-break, not an oversight: documents
// often carry overlapping vocabulary (a medical bill contains both "invoice"
// and "doctor"), and the first matching rule wins.
func defaultRules() []rule {
	return []rule{
		{
			category: "Identity",
			tags:     []string{"identity", "id", "verification", "official"},
			patterns: compile(
				`\b(passport|driver|license|id card|identity|national id|voter|aadhar|pan card)\b`,
				`\b(dob|date of birth|issued|expires)\b`,
			),
		},
		{
			category: "Receipt",
			tags:     []string{"receipt", "finance", "payment", "transaction"},
			patterns: compile(
				`\b(receipt|invoice|bill|payment|transaction|amount|total|paid|due)\b`,
				`\$|₹|€|£|\d+\.\d{2}`,
			),
		},
		{
			category: "Medical",
			tags:     []string{"medical", "health", "prescription", "healthcare"},
			patterns: compile(
				`\b(medical|prescription|doctor|patient|hospital|clinic|diagnosis|medicine|pharmacy|health)\b`,
			),
		},
		{
			category: "Education",
			tags:     []string{"education", "certificate", "academic", "school"},
			patterns: compile(
				`\b(certificate|diploma|degree|transcript|university|college|school|grade|marks|student)\b`,
			),
		},
		{
			category: "Travel",
			tags:     []string{"travel", "ticket", "booking", "trip"},
			patterns: compile(
				`\b(ticket|boarding|flight|hotel|reservation|booking|travel|airport|destination)\b`,
			),
		},
		{
			category: "Legal",
			tags:     []string{"legal", "contract", "agreement", "official"},
			patterns: compile(
				`\b(contract|agreement|legal|terms|conditions|clause|party|signed|witness)\b`,
			),
		},
		{
			category: "Notes",
			tags:     []string{"notes", "memo", "personal", "draft"},
			patterns: compile(
				`\b(note|memo|draft|reminder|todo|list)\b`,
			),
		},
	}
}

// dateToken accepts day-first, month-first and year-first separators alike;
// no normalization happens downstream.
const dateToken = `(\d{1,4}[-/]\d{1,2}[-/]\d{1,4})`

func defaultDatePatterns() []datePattern {
	return []datePattern{
		{label: "Expiry Date", pattern: regexp.MustCompile(`(?i)expir(?:y|es|ed)?\s*:?\s*` + dateToken)},
		{label: "Valid Until", pattern: regexp.MustCompile(`(?i)valid\s+until\s*:?\s*` + dateToken)},
		{label: "Due Date", pattern: regexp.MustCompile(`(?i)due\s+(?:date\s*)?:?\s*` + dateToken)},
		{label: "Payment Due", pattern: regexp.MustCompile(`(?i)payment\s+due\s*:?\s*` + dateToken)},
		{label: "Issue Date", pattern: regexp.MustCompile(`(?i)issue(?:d)?\s+date\s*:?\s*` + dateToken)},
		{label: "Issue Date", pattern: regexp.MustCompile(`(?i)date\s+of\s+issue\s*:?\s*` + dateToken)},
	}
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		out = append(out, regexp.MustCompile(`(?i)`+expr))
	}
	return out
}
