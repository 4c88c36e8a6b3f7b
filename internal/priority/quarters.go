package priority

import "fmt"

// AssignQuarters buckets features into four planning quarters by composite
// score quartile. Thresholds are recomputed from the current table, so the
// policy is relative: each quarter gets a roughly even share regardless of
// the absolute score distribution.
func AssignQuarters(features []ScoredFeature, year int) []ScoredFeature {
	out := append([]ScoredFeature(nil), features...)
	if len(out) == 0 {
		return out
	}

	scores := make([]float64, len(out))
	for i, f := range out {
		scores[i] = f.CompositeScore
	}
	p75 := percentile(scores, 0.75)
	p50 := percentile(scores, 0.50)
	p25 := percentile(scores, 0.25)

	for i := range out {
		var q int
		switch score := out[i].CompositeScore; {
		case score >= p75:
			q = 1
		case score >= p50:
			q = 2
		case score >= p25:
			q = 3
		default:
			q = 4
		}
		out[i].RecommendedQuarter = fmt.Sprintf("Q%d %d", q, year)
	}

	return out
}
