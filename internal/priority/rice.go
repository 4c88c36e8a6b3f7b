package priority

import "math"

// The impact blend is discretized onto the canonical RICE impact scale.
// These cut points are a business convention, not tunables.
var impactScale = []struct {
	upper float64
	value float64
}{
	{0.1, 0.25},
	{0.3, 0.5},
	{0.6, 1},
	{0.8, 2},
	{math.Inf(1), 3},
}

// reachScore weights explicit requests above raw users and amplifies by
// critical/high request counts. The multiplier is intentionally uncapped:
// heavy critical demand can push reach far past the user count.
func reachScore(a FeatureAggregate) float64 {
	userReach := float64(a.UniqueUsers)
	requestReach := float64(a.RequestCount) * 2
	multiplier := 1 + float64(a.CriticalRequests)*0.5 + float64(a.HighRequests)*0.3
	return math.Max(userReach, requestReach) * multiplier
}

func impactScore(a FeatureAggregate) float64 {
	businessValue := math.Min(a.AvgBusinessValue/10, 1)
	revenueImpact := math.Min(a.AvgRevenueImpact/50000, 1)
	conversionImpact := a.AvgConversionImpact * 20
	retentionImpact := a.AvgRetentionImpact * 15

	blend := businessValue*0.3 + revenueImpact*0.3 + conversionImpact*0.2 + retentionImpact*0.2

	for _, step := range impactScale {
		if blend <= step.upper {
			return step.value
		}
	}
	return 3
}

// confidenceScore starts at 0.4 and climbs with evidence volume. The floor
// means no feature is ever scored below 40% confidence.
func confidenceScore(a FeatureAggregate) float64 {
	confidence := 0.4

	switch {
	case a.RequestCount > 15:
		confidence += 0.2
	case a.RequestCount > 5:
		confidence += 0.1
	}

	switch {
	case a.UniqueUsers > 30:
		confidence += 0.2
	case a.UniqueUsers > 10:
		confidence += 0.1
	}

	switch {
	case a.AvgBusinessValue > 8:
		confidence += 0.15
	case a.AvgBusinessValue > 6:
		confidence += 0.1
	}

	if a.CriticalRequests > 0 || a.HighRequests > 2 {
		confidence += 0.05
	}

	return math.Min(confidence, 1.0)
}

// riceComponents computes reach, impact, confidence and the effort floor for
// one aggregate. Effort is clamped to 1 to guard the division.
func riceComponents(a FeatureAggregate) (reach, impact, confidence, effort float64) {
	return reachScore(a), impactScore(a), confidenceScore(a), math.Max(a.AvgEffort, 1)
}

func riceScore(reach, impact, confidence, effort float64) float64 {
	return (reach * impact * confidence) / math.Max(effort, 1)
}

// ScoreAggregate converts one aggregate row into a scored feature. It is a
// pure function: the same input always produces bit-identical scores.
func ScoreAggregate(a FeatureAggregate) ScoredFeature {
	reach, impact, confidence, effort := riceComponents(a)
	rice := riceScore(reach, impact, confidence, effort)

	return ScoredFeature{
		FeatureAggregate: a,
		ReachScore:       reach,
		ImpactScore:      impact,
		ConfidenceScore:  confidence,
		EffortEstimate:   effort,
		RiceScore:        rice,
		MLPriorityScore:  rice,
		CompositeScore:   rice,
	}
}

// ScoreAggregates scores every row and assigns a provisional rank by raw
// RICE score. The composite model re-ranks later when it trains.
func ScoreAggregates(aggregates []FeatureAggregate) []ScoredFeature {
	scored := make([]ScoredFeature, 0, len(aggregates))
	for _, a := range aggregates {
		scored = append(scored, ScoreAggregate(a))
	}
	rankByComposite(scored)
	return scored
}
