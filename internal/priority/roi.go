package priority

import "math"

const (
	paybackCapMonths = 60
	highRiskCutoff   = 70
)

// enrichScores derives the secondary business metrics that the ROI and
// summary stages consume. Normalizations are against the current catalog.
func enrichScores(features []ScoredFeature) []ScoredFeature {
	out := append([]ScoredFeature(nil), features...)
	if len(out) == 0 {
		return out
	}

	maxRevenue, maxEffort, maxUsers := 0.0, 0.0, 0.0
	for _, f := range out {
		maxRevenue = math.Max(maxRevenue, f.AvgRevenueImpact)
		maxEffort = math.Max(maxEffort, f.EffortEstimate)
		maxUsers = math.Max(maxUsers, float64(f.UniqueUsers))
	}

	for i := range out {
		f := &out[i]

		revenueNorm := 0.0
		if maxRevenue > 0 {
			revenueNorm = f.AvgRevenueImpact / maxRevenue
		}
		f.BusinessImpactScore = (revenueNorm*0.4 +
			(f.AvgBusinessValue/10)*0.3 +
			(f.AvgConversionImpact*20)*0.15 +
			(f.AvgRetentionImpact*15)*0.15) * 100

		if maxEffort > 0 {
			f.TechnicalComplexity = clip(f.EffortEstimate/maxEffort*100, 0, 100)
		}

		priorityWeight := (float64(f.CriticalRequests)*2 + float64(f.HighRequests)) / float64(f.RequestCount+1)
		valueAlignment := f.AvgBusinessValue / 10
		userDemand := 0.0
		if maxUsers > 0 {
			userDemand = float64(f.UniqueUsers) / maxUsers
		}
		f.StrategicAlignment = clip((priorityWeight*0.4+valueAlignment*0.4+userDemand*0.2)*100, 0, 100)
	}

	return out
}

// riskScore blends effort, confidence and complexity. Low confidence carries
// the largest weight: unvalidated assumptions are the primary risk driver.
func riskScore(f ScoredFeature) float64 {
	effortRisk := f.EffortEstimate / 25 * 30
	confidenceRisk := (1 - f.ConfidenceScore) * 40
	complexityRisk := f.TechnicalComplexity / 100 * 30
	return clip(effortRisk+confidenceRisk+complexityRisk, 0, 100)
}

// ProjectROI builds financial projections for the top-K ranked features.
// The cap keeps the financial narrative to the features that matter.
func ProjectROI(features []ScoredFeature, cfg Config) []ROIProjection {
	cfg = cfg.withDefaults()

	limit := cfg.ROITopK
	if limit > len(features) {
		limit = len(features)
	}

	projections := make([]ROIProjection, 0, limit)
	for _, f := range features[:limit] {
		devCost := f.EffortEstimate * cfg.UnitCostPerStoryPoint

		annualRevenue := f.AvgRevenueImpact *
			math.Max(float64(f.UniqueUsers), float64(f.RequestCount)) *
			(1 + f.AvgConversionImpact*5) *
			12

		roi := 0.0
		if devCost > 0 {
			roi = (annualRevenue - devCost) / devCost * 100
		}

		monthlyRevenue := annualRevenue / 12
		payback := math.Inf(1)
		neverPaysBack := true
		if monthlyRevenue > 0 {
			payback = devCost / monthlyRevenue
			neverPaysBack = false
		}

		projections = append(projections, ROIProjection{
			FeatureName:            f.FeatureName,
			DevelopmentCost:        devCost,
			ProjectedAnnualRevenue: annualRevenue,
			ROIPercentage:          roi,
			PaybackMonths:          math.Min(payback, paybackCapMonths),
			NeverPaysBack:          neverPaysBack,
			ConfidenceLevel:        f.ConfidenceScore,
			RiskScore:              riskScore(f),
		})
	}

	return projections
}
