// Package assistant answers natural-language stakeholder questions about a
// prioritized roadmap. Queries are classified by keyword intent and answered
// from a completed analysis run with templated markdown; no external language
// model is involved.
package assistant

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/roadmap-prioritizer/internal/priority"
)

// QueryLogger persists answered queries for later review.
type QueryLogger interface {
	LogAssistantQuery(queryText, role, response string) error
}

// Assistant dispatches stakeholder queries to intent-specific handlers.
type Assistant struct {
	store  QueryLogger
	logger *slog.Logger
}

// NewAssistant creates an assistant. store may be nil to disable query logging.
func NewAssistant(store QueryLogger, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{store: store, logger: logger}
}

// Answer classifies the query, renders a markdown response from the analysis
// result, and logs the exchange. The returned intent names the handler used.
func (a *Assistant) Answer(query, role string, result *priority.AnalysisResult) (string, Intent) {
	if role == "" {
		role = "Product Manager"
	}

	intent := ClassifyIntent(query)

	var response string
	switch intent {
	case IntentPriority:
		response = a.answerPriority(query, result)
	case IntentTimeline:
		response = a.answerTimeline(query, result)
	case IntentROI:
		response = a.answerROI(result)
	case IntentComparison:
		response = a.answerComparison(query, result)
	case IntentCapacity:
		response = a.answerCapacity(result)
	case IntentRisk:
		response = a.answerRisk(result)
	default:
		response = a.answerGeneral(result)
	}

	if a.store != nil {
		if err := a.store.LogAssistantQuery(query, role, response); err != nil {
			a.logger.Warn("Failed to log assistant query", "error", err)
		}
	}

	return response, intent
}

func featureNames(features []priority.ScoredFeature) []string {
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = f.FeatureName
	}
	return names
}

func findFeature(features []priority.ScoredFeature, name string) (priority.ScoredFeature, bool) {
	for _, f := range features {
		if f.FeatureName == name {
			return f, true
		}
	}
	return priority.ScoredFeature{}, false
}

func (a *Assistant) answerPriority(query string, result *priority.AnalysisResult) string {
	features := result.Features
	if len(features) == 0 {
		return "**No features available** - submit customer feedback or usage data first."
	}

	var b strings.Builder

	if name := extractFeatureName(query, featureNames(features)); name != "" {
		f, _ := findFeature(features, name)

		fmt.Fprintf(&b, "## Priority Analysis: %s\n\n", f.FeatureName)
		fmt.Fprintf(&b, "**Priority Rank:** #%d\n", f.PriorityRank)
		fmt.Fprintf(&b, "**Composite Score:** %.2f\n", f.CompositeScore)
		fmt.Fprintf(&b, "**RICE Score:** %.2f\n", f.RiceScore)
		fmt.Fprintf(&b, "**Recommended Quarter:** %s\n\n", f.RecommendedQuarter)
		b.WriteString("**Analysis:**\n")
		fmt.Fprintf(&b, "- **Reach:** %.0f users/requests\n", f.ReachScore)
		fmt.Fprintf(&b, "- **Impact:** %.1f/3\n", f.ImpactScore)
		fmt.Fprintf(&b, "- **Confidence:** %.0f%%\n", f.ConfidenceScore*100)
		fmt.Fprintf(&b, "- **Effort:** %.0f story points\n\n", f.EffortEstimate)

		switch {
		case f.PriorityRank <= 5:
			b.WriteString("**This is a HIGH PRIORITY feature** - consider for immediate implementation.")
		case f.PriorityRank <= 10:
			b.WriteString("**This is a MEDIUM PRIORITY feature** - good candidate for next quarter.")
		default:
			b.WriteString("**This is a LOWER PRIORITY feature** - consider for future roadmap.")
		}

		return b.String()
	}

	top := features
	if len(top) > 8 {
		top = top[:8]
	}

	b.WriteString("## Top Priority Features\n\n")
	b.WriteString("*Based on composite scoring (RICE + ML analysis)*\n\n")

	var totalEffort, totalScore float64
	quarterCounts := make(map[string]int)
	for i, f := range top {
		fmt.Fprintf(&b, "**%d. %s**\n", i+1, f.FeatureName)
		fmt.Fprintf(&b, "   - Score: %.2f | Effort: %.0fSP | Quarter: %s\n\n",
			f.CompositeScore, f.EffortEstimate, f.RecommendedQuarter)
		totalEffort += f.EffortEstimate
		totalScore += f.CompositeScore
		quarterCounts[f.RecommendedQuarter]++
	}

	modalQuarter := ""
	for quarter, count := range quarterCounts {
		if modalQuarter == "" || count > quarterCounts[modalQuarter] ||
			(count == quarterCounts[modalQuarter] && quarter < modalQuarter) {
			modalQuarter = quarter
		}
	}

	b.WriteString("**Key Insights:**\n")
	fmt.Fprintf(&b, "- Average priority score: %.2f\n", totalScore/float64(len(top)))
	fmt.Fprintf(&b, "- Total effort for top %d: %.0f story points\n", len(top), totalEffort)
	fmt.Fprintf(&b, "- Most features target: %s\n", modalQuarter)

	return b.String()
}

var quarterPattern = regexp.MustCompile(`(?i)Q[1-4]\s*20\d{2}`)

func normalizeQuarter(raw string) string {
	upper := strings.ToUpper(raw)
	fields := strings.Fields(upper)
	return strings.Join(fields, " ")
}

func (a *Assistant) answerTimeline(query string, result *priority.AnalysisResult) string {
	features := result.Features
	var b strings.Builder

	if match := quarterPattern.FindString(query); match != "" {
		quarter := normalizeQuarter(match)

		var planned []priority.ScoredFeature
		for _, f := range features {
			if f.RecommendedQuarter == quarter {
				planned = append(planned, f)
			}
		}

		fmt.Fprintf(&b, "## %s Roadmap\n\n", quarter)

		if len(planned) == 0 {
			fmt.Fprintf(&b, "No features are currently planned for %s.", quarter)
			return b.String()
		}

		fmt.Fprintf(&b, "**Features planned for %s:**\n\n", quarter)

		listed := planned
		if len(listed) > 10 {
			listed = listed[:10]
		}
		for i, f := range listed {
			fmt.Fprintf(&b, "%d. **%s**\n", i+1, f.FeatureName)
			fmt.Fprintf(&b, "   - Priority Score: %.2f\n", f.CompositeScore)
			fmt.Fprintf(&b, "   - Effort: %.0f story points\n", f.EffortEstimate)
			fmt.Fprintf(&b, "   - Business Impact: %.1f/100\n\n", f.BusinessImpactScore)
		}

		var totalEffort, totalScore float64
		for _, f := range planned {
			totalEffort += f.EffortEstimate
			totalScore += f.CompositeScore
		}

		fmt.Fprintf(&b, "**%s Summary:**\n", quarter)
		fmt.Fprintf(&b, "- Total features: %d\n", len(planned))
		fmt.Fprintf(&b, "- Total effort: %.0f story points\n", totalEffort)
		fmt.Fprintf(&b, "- Average priority: %.2f\n", totalScore/float64(len(planned)))

		if totalEffort > 100 {
			b.WriteString("\n**Capacity Alert:** This quarter appears overloaded. Consider redistributing some features.")
		}

		return b.String()
	}

	loads := QuarterLoads(features)

	b.WriteString("## Complete Roadmap Timeline\n\n")

	avgScores := make(map[string]float64)
	quarterTotals := make(map[string]float64)
	quarterCounts := make(map[string]int)
	for _, f := range features {
		quarterTotals[f.RecommendedQuarter] += f.CompositeScore
		quarterCounts[f.RecommendedQuarter]++
	}
	for quarter, total := range quarterTotals {
		avgScores[quarter] = total / float64(quarterCounts[quarter])
	}

	for _, load := range loads {
		fmt.Fprintf(&b, "**%s:**\n", load.Quarter)
		fmt.Fprintf(&b, "- Features: %d\n", load.FeatureCount)
		fmt.Fprintf(&b, "- Total Effort: %.0f story points\n", load.TotalEffort)
		fmt.Fprintf(&b, "- Avg Priority: %.2f\n\n", avgScores[load.Quarter])
	}

	mostLoaded, highestPriority := "", ""
	for _, load := range loads {
		if mostLoaded == "" || load.TotalEffort > quarterLoadEffort(loads, mostLoaded) {
			mostLoaded = load.Quarter
		}
		if highestPriority == "" || avgScores[load.Quarter] > avgScores[highestPriority] {
			highestPriority = load.Quarter
		}
	}

	b.WriteString("**Timeline Insights:**\n")
	fmt.Fprintf(&b, "- Total roadmap span: %d quarters\n", len(loads))
	fmt.Fprintf(&b, "- Most loaded quarter: %s\n", mostLoaded)
	fmt.Fprintf(&b, "- Highest priority quarter: %s\n", highestPriority)

	return b.String()
}

func quarterLoadEffort(loads []QuarterLoad, quarter string) float64 {
	for _, load := range loads {
		if load.Quarter == quarter {
			return load.TotalEffort
		}
	}
	return 0
}

func (a *Assistant) answerROI(result *priority.AnalysisResult) string {
	projections := result.Projections
	if len(projections) == 0 {
		return "**ROI analysis unavailable** - need more revenue impact data in customer feedback."
	}

	var b strings.Builder
	b.WriteString("## ROI Analysis\n\n")

	var totalInvestment, totalRevenue float64
	for _, p := range projections {
		totalInvestment += p.DevelopmentCost
		totalRevenue += p.ProjectedAnnualRevenue
	}

	portfolioROI := 0.0
	if totalInvestment > 0 {
		portfolioROI = (totalRevenue - totalInvestment) / totalInvestment * 100
	}

	b.WriteString("**Portfolio Overview:**\n")
	fmt.Fprintf(&b, "- Total Investment: $%.0f\n", totalInvestment)
	fmt.Fprintf(&b, "- Projected Annual Revenue: $%.0f\n", totalRevenue)
	fmt.Fprintf(&b, "- Portfolio ROI: %.1f%%\n\n", portfolioROI)

	best := make([]priority.ROIProjection, len(projections))
	copy(best, projections)
	sort.SliceStable(best, func(i, j int) bool { return best[i].ROIPercentage > best[j].ROIPercentage })
	if len(best) > 5 {
		best = best[:5]
	}

	b.WriteString("**Highest ROI Features:**\n\n")
	for i, p := range best {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, p.FeatureName)
		fmt.Fprintf(&b, "   - ROI: %.1f%%\n", p.ROIPercentage)
		fmt.Fprintf(&b, "   - Investment: $%.0f\n", p.DevelopmentCost)
		fmt.Fprintf(&b, "   - Projected Revenue: $%.0f\n", p.ProjectedAnnualRevenue)
		if p.NeverPaysBack {
			b.WriteString("   - Payback: never (no projected revenue)\n\n")
		} else {
			fmt.Fprintf(&b, "   - Payback: %.1f months\n\n", p.PaybackMonths)
		}
	}

	highRisk := 0
	for _, p := range projections {
		if p.RiskScore > 60 {
			highRisk++
		}
	}
	if highRisk > 0 {
		fmt.Fprintf(&b, "**High Risk Features:** %d features have elevated risk scores\n", highRisk)
	}

	return b.String()
}

func (a *Assistant) answerComparison(query string, result *priority.AnalysisResult) string {
	features := result.Features
	mentioned := mentionedFeatures(query, featureNames(features))

	if len(mentioned) < 2 {
		return "**Comparison unavailable** - please specify which features you'd like to compare."
	}

	if len(mentioned) > 4 {
		mentioned = mentioned[:4]
	}

	var b strings.Builder
	b.WriteString("## Feature Comparison\n\n")
	fmt.Fprintf(&b, "*Comparing: %s*\n\n", strings.Join(mentioned, ", "))

	b.WriteString("| Feature | Priority Rank | Composite Score | Effort (SP) | Quarter |\n")
	b.WriteString("|---------|---------------|-----------------|-------------|----------|\n")

	var winner priority.ScoredFeature
	for _, name := range mentioned {
		f, ok := findFeature(features, name)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "| %s | #%d | %.2f | %.0f | %s |\n",
			f.FeatureName, f.PriorityRank, f.CompositeScore, f.EffortEstimate, f.RecommendedQuarter)
		if winner.FeatureName == "" || f.CompositeScore > winner.CompositeScore {
			winner = f
		}
	}

	fmt.Fprintf(&b, "\n**Recommendation: %s**\n", winner.FeatureName)
	fmt.Fprintf(&b, "- Highest composite score: %.2f\n", winner.CompositeScore)
	fmt.Fprintf(&b, "- Priority rank: #%d\n", winner.PriorityRank)
	b.WriteString("- Best balance of impact, reach, confidence, and effort\n")

	return b.String()
}

func (a *Assistant) answerCapacity(result *priority.AnalysisResult) string {
	features := result.Features

	var b strings.Builder
	b.WriteString("## Team Capacity Analysis\n\n")

	for _, load := range QuarterLoads(features) {
		fmt.Fprintf(&b, "**%s:**\n", load.Quarter)
		fmt.Fprintf(&b, "- Features: %d\n", load.FeatureCount)
		fmt.Fprintf(&b, "- Total Effort: %.0f story points\n", load.TotalEffort)
		fmt.Fprintf(&b, "- Recommendation: %s\n\n", load.Recommendation)
	}

	b.WriteString("**Team Workload Distribution:**\n")
	for _, load := range TeamLoads(features) {
		fmt.Fprintf(&b, "- **%s:** %d features, %.0f story points\n",
			load.Team, load.FeatureCount, load.TotalEffort)
	}

	var totalEffort float64
	for _, f := range features {
		totalEffort += f.EffortEstimate
	}

	b.WriteString("\n**Capacity Insights:**\n")
	fmt.Fprintf(&b, "- Total roadmap effort: %.0f story points\n", totalEffort)
	fmt.Fprintf(&b, "- Quarterly average: %.0f story points\n", totalEffort/4)

	// Assumes roughly 100 SP of delivery capacity per quarter.
	switch {
	case totalEffort > 400:
		b.WriteString("- **Over capacity** - consider extending timeline or increasing team size\n")
	case totalEffort > 320:
		b.WriteString("- **Near capacity** - monitor progress closely\n")
	default:
		b.WriteString("- **Within capacity** - good workload distribution\n")
	}

	return b.String()
}

func (a *Assistant) answerRisk(result *priority.AnalysisResult) string {
	features := result.Features
	if len(features) == 0 {
		return "**Risk analysis unavailable** - no features to assess."
	}

	var b strings.Builder
	b.WriteString("## Risk Assessment\n\n")

	maxEffort := 0.0
	for _, f := range features {
		if f.EffortEstimate > maxEffort {
			maxEffort = f.EffortEstimate
		}
	}
	if maxEffort == 0 {
		maxEffort = 1
	}

	type riskedFeature struct {
		priority.ScoredFeature
		risk float64
	}
	risked := make([]riskedFeature, len(features))
	for i, f := range features {
		risk := f.EffortEstimate/maxEffort*40 + (1-f.ConfidenceScore)*60
		risked[i] = riskedFeature{f, risk}
	}
	sort.SliceStable(risked, func(i, j int) bool { return risked[i].risk > risked[j].risk })

	top := risked
	if len(top) > 5 {
		top = top[:5]
	}

	b.WriteString("**Highest Risk Features:**\n\n")
	for i, f := range top {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, f.FeatureName)
		fmt.Fprintf(&b, "   - Risk Score: %.0f/100\n", f.risk)
		fmt.Fprintf(&b, "   - Effort: %.0f SP\n", f.EffortEstimate)
		fmt.Fprintf(&b, "   - Confidence: %.1f%%\n\n", f.ConfidenceScore*100)
	}

	efforts := make([]float64, len(features))
	for i, f := range features {
		efforts[i] = f.EffortEstimate
	}
	sort.Float64s(efforts)
	cutoffIdx := int(float64(len(efforts)) * 0.8)
	if cutoffIdx >= len(efforts) {
		cutoffIdx = len(efforts) - 1
	}
	effortCutoff := efforts[cutoffIdx]

	technicalRisks, confidenceRisks := 0, 0
	for _, f := range features {
		if f.EffortEstimate > effortCutoff {
			technicalRisks++
		}
		if f.ConfidenceScore < 0.6 {
			confidenceRisks++
		}
	}

	b.WriteString("**Risk Categories:**\n")
	fmt.Fprintf(&b, "- **Technical Risk:** %d high-effort features\n", technicalRisks)
	fmt.Fprintf(&b, "- **Confidence Risk:** %d low-confidence features\n", confidenceRisks)

	b.WriteString("\n**Recommended Mitigation Strategies:**\n")
	b.WriteString("1. **Technical Risks:** Break down large features, create prototypes\n")
	b.WriteString("2. **Confidence Risks:** Conduct user research, validate assumptions\n")
	b.WriteString("3. **Timeline Risks:** Add buffer time, prioritize ruthlessly\n")
	b.WriteString("4. **Resource Risks:** Cross-train team members, consider external help\n")

	return b.String()
}

func (a *Assistant) answerGeneral(result *priority.AnalysisResult) string {
	summary := result.Summary

	var b strings.Builder
	b.WriteString("## Product Roadmap Overview\n\n")
	b.WriteString("**Current Status:**\n")
	fmt.Fprintf(&b, "- Total Features: %d\n", summary.TotalFeatures)
	fmt.Fprintf(&b, "- High Priority: %d\n", summary.HighPriorityFeatures)
	fmt.Fprintf(&b, "- Quick Wins Available: %d\n", summary.QuickWins)
	fmt.Fprintf(&b, "- Total Effort: %.0f story points\n\n", summary.TotalEffortStoryPoints)

	if summary.AvgROI > 0 {
		b.WriteString("**Financial Outlook:**\n")
		fmt.Fprintf(&b, "- Average ROI: %.1f%%\n", summary.AvgROI)
		fmt.Fprintf(&b, "- Projected Revenue: $%.0f\n", summary.TotalProjectedRevenue)
		fmt.Fprintf(&b, "- Total Investment: $%.0f\n\n", summary.TotalInvestment)
	}

	b.WriteString("**Strategic Metrics:**\n")
	fmt.Fprintf(&b, "- Business Impact Score: %.1f/100\n", summary.AvgBusinessImpact)
	fmt.Fprintf(&b, "- Strategic Alignment: %.1f/100\n\n", summary.StrategicAlignmentScore)

	b.WriteString("**Key Recommendations:**\n")
	fmt.Fprintf(&b, "1. Focus on the top %d high-priority features\n", summary.HighPriorityFeatures)
	fmt.Fprintf(&b, "2. Prioritize the %d quick win opportunities\n", summary.QuickWins)
	fmt.Fprintf(&b, "3. Monitor %d features with elevated risk\n", summary.HighRiskFeatures)
	fmt.Fprintf(&b, "4. Consider team capacity for %.0f total story points\n", summary.TotalEffortStoryPoints)

	return b.String()
}
