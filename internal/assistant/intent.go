package assistant

import "strings"

// Intent classifies what a stakeholder question is asking about.
type Intent string

const (
	IntentPriority   Intent = "priority"
	IntentTimeline   Intent = "timeline"
	IntentROI        Intent = "roi"
	IntentComparison Intent = "comparison"
	IntentCapacity   Intent = "capacity"
	IntentRisk       Intent = "risk"
	IntentGeneral    Intent = "general"
)

var intentKeywords = []struct {
	intent Intent
	words  []string
}{
	{IntentPriority, []string{"priority", "important", "rank", "top", "highest"}},
	{IntentTimeline, []string{"timeline", "when", "schedule", "quarter", "q1", "q2", "q3", "q4"}},
	{IntentROI, []string{"roi", "return", "revenue", "cost", "profit", "investment"}},
	{IntentComparison, []string{"compare", "versus", "vs", "difference", "better"}},
	{IntentCapacity, []string{"capacity", "resource", "team", "effort", "workload"}},
	{IntentRisk, []string{"risk", "risky", "danger", "problem", "challenge"}},
}

// ClassifyIntent maps a free-form query to an intent by keyword match.
// Categories are checked in order; the first match wins.
func ClassifyIntent(query string) Intent {
	lower := strings.ToLower(query)
	for _, entry := range intentKeywords {
		for _, word := range entry.words {
			if strings.Contains(lower, word) {
				return entry.intent
			}
		}
	}
	return IntentGeneral
}

// extractFeatureName finds the first catalog feature mentioned in the query.
// Multi-word names match when at least half their words appear.
func extractFeatureName(query string, names []string) string {
	lower := strings.ToLower(query)

	for _, name := range names {
		words := strings.Fields(strings.ToLower(name))
		if len(words) > 1 {
			hits := 0
			for _, w := range words {
				if strings.Contains(lower, w) {
					hits++
				}
			}
			if hits >= len(words)/2 {
				return name
			}
		} else if strings.Contains(lower, strings.ToLower(name)) {
			return name
		}
	}

	return ""
}

// mentionedFeatures returns every catalog feature whose full name appears in
// the query, in catalog order.
func mentionedFeatures(query string, names []string) []string {
	lower := strings.ToLower(query)
	var out []string
	for _, name := range names {
		if strings.Contains(lower, strings.ToLower(name)) {
			out = append(out, name)
		}
	}
	return out
}
