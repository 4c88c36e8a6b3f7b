package assistant

import (
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/roadmap-prioritizer/internal/priority"
)

// ScenarioParams describes one what-if experiment over the current analysis.
// Feature matching is a case-insensitive substring test so "dark" matches
// "Dark Mode".
type ScenarioParams struct {
	Name            string   `json:"name"`
	BoostFeatures   []string `json:"boost_features"`
	ExcludeFeatures []string `json:"exclude_features"`
	ReduceEffort    float64  `json:"reduce_effort"`
}

// ScenarioResult summarizes the re-ranked roadmap under the scenario and how
// far its top ten drifted from the baseline.
type ScenarioResult struct {
	ScenarioName        string   `json:"scenario_name"`
	TotalFeatures       int      `json:"total_features"`
	TopFeatures         []string `json:"top_features"`
	TotalEffort         float64  `json:"total_effort"`
	AvgPriorityScore    float64  `json:"avg_priority_score"`
	ChangesFromBaseline int      `json:"changes_from_baseline"`
}

const scenarioBoostFactor = 1.5

func matchesAny(name string, patterns []string) bool {
	lower := strings.ToLower(name)
	for _, p := range patterns {
		if p != "" && strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// SimulateScenario replays the ranked catalog under the given modifications:
// boosted features get their composite score multiplied by 1.5, excluded
// features are dropped, and every effort estimate shrinks by ReduceEffort
// (a fraction in [0,1)). The baseline result is not mutated.
func SimulateScenario(result *priority.AnalysisResult, params ScenarioParams) ScenarioResult {
	name := params.Name
	if name == "" {
		name = "Custom Scenario"
	}

	modified := make([]priority.ScoredFeature, 0, len(result.Features))
	for _, f := range result.Features {
		if matchesAny(f.FeatureName, params.ExcludeFeatures) {
			continue
		}
		if matchesAny(f.FeatureName, params.BoostFeatures) {
			f.CompositeScore *= scenarioBoostFactor
		}
		if params.ReduceEffort > 0 && params.ReduceEffort < 1 {
			f.EffortEstimate *= 1 - params.ReduceEffort
		}
		modified = append(modified, f)
	}

	sort.SliceStable(modified, func(i, j int) bool {
		return modified[i].CompositeScore > modified[j].CompositeScore
	})
	for i := range modified {
		modified[i].PriorityRank = i + 1
	}

	out := ScenarioResult{
		ScenarioName:  name,
		TotalFeatures: len(modified),
	}
	for i, f := range modified {
		if i < 5 {
			out.TopFeatures = append(out.TopFeatures, f.FeatureName)
		}
		out.TotalEffort += f.EffortEstimate
		out.AvgPriorityScore += f.CompositeScore
	}
	if len(modified) > 0 {
		out.AvgPriorityScore /= float64(len(modified))
	}

	out.ChangesFromBaseline = topTenDrift(result.Features, modified)
	return out
}

// topTenDrift counts baseline top-ten features missing from the scenario's
// top ten.
func topTenDrift(baseline, scenario []priority.ScoredFeature) int {
	inScenario := map[string]bool{}
	for i, f := range scenario {
		if i >= 10 {
			break
		}
		inScenario[f.FeatureName] = true
	}

	drift := 0
	for i, f := range baseline {
		if i >= 10 {
			break
		}
		if !inScenario[f.FeatureName] {
			drift++
		}
	}
	return drift
}
