package priority

// ClassifyQuadrants labels each feature in the given set relative to that
// set's median effort and median impact. Filtered views get their own
// medians, so re-filtering the catalog re-derives the quadrants.
//
// The boundary rules are deliberately asymmetric: effort at the median
// counts as low effort, while impact must be strictly above the median to
// count as high impact. This decides which boundary features land in Quick
// Wins versus Fill-ins.
func ClassifyQuadrants(features []ScoredFeature) map[string]Quadrant {
	if len(features) == 0 {
		return map[string]Quadrant{}
	}

	efforts := make([]float64, len(features))
	impacts := make([]float64, len(features))
	for i, f := range features {
		efforts[i] = f.EffortEstimate
		impacts[i] = f.ImpactScore
	}
	effortMedian := median(efforts)
	impactMedian := median(impacts)

	out := make(map[string]Quadrant, len(features))
	for _, f := range features {
		out[f.FeatureName] = classify(f, effortMedian, impactMedian)
	}
	return out
}

func classify(f ScoredFeature, effortMedian, impactMedian float64) Quadrant {
	lowEffort := f.EffortEstimate <= effortMedian
	highImpact := f.ImpactScore > impactMedian

	switch {
	case lowEffort && highImpact:
		return QuadrantQuickWin
	case !lowEffort && highImpact:
		return QuadrantMajorProject
	case lowEffort && !highImpact:
		return QuadrantFillIn
	default:
		return QuadrantQuestionable
	}
}

// countQuickWins applies the quadrant rule using the full catalog's medians.
// The executive summary depends on this being the unfiltered definition.
func countQuickWins(features []ScoredFeature) int {
	if len(features) == 0 {
		return 0
	}

	efforts := make([]float64, len(features))
	impacts := make([]float64, len(features))
	for i, f := range features {
		efforts[i] = f.EffortEstimate
		impacts[i] = f.ImpactScore
	}
	effortMedian := median(efforts)
	impactMedian := median(impacts)

	count := 0
	for _, f := range features {
		if classify(f, effortMedian, impactMedian) == QuadrantQuickWin {
			count++
		}
	}
	return count
}
