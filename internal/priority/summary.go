package priority

// Summarize rolls the scored catalog and its ROI subset into the flat record
// the presentation layer displays. High priority means composite above the
// 80th percentile of the full set; quick wins use full-catalog medians.
func Summarize(features []ScoredFeature, projections []ROIProjection) ExecutiveSummary {
	summary := ExecutiveSummary{
		TotalFeatures: len(features),
		QuickWins:     countQuickWins(features),
	}
	if len(features) == 0 {
		return summary
	}

	scores := make([]float64, len(features))
	for i, f := range features {
		scores[i] = f.CompositeScore
	}
	p80 := percentile(scores, 0.8)

	for _, f := range features {
		if f.CompositeScore > p80 {
			summary.HighPriorityFeatures++
		}
		summary.TotalEffortStoryPoints += f.EffortEstimate
		summary.AvgBusinessImpact += f.BusinessImpactScore
		summary.StrategicAlignmentScore += f.StrategicAlignment
	}
	summary.AvgBusinessImpact /= float64(len(features))
	summary.StrategicAlignmentScore /= float64(len(features))

	if len(projections) > 0 {
		for _, p := range projections {
			summary.AvgROI += p.ROIPercentage
			summary.AvgRisk += p.RiskScore
			summary.TotalProjectedRevenue += p.ProjectedAnnualRevenue
			summary.TotalInvestment += p.DevelopmentCost
			if p.RiskScore > highRiskCutoff {
				summary.HighRiskFeatures++
			}
		}
		summary.AvgROI /= float64(len(projections))
		summary.AvgRisk /= float64(len(projections))
	}

	return summary
}
