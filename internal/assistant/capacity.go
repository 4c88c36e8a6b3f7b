package assistant

import (
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/roadmap-prioritizer/internal/priority"
)

// QuarterLoad is the planned workload for one quarter.
type QuarterLoad struct {
	Quarter        string  `json:"quarter"`
	FeatureCount   int     `json:"feature_count"`
	TotalEffort    float64 `json:"total_effort"`
	Recommendation string  `json:"recommended_capacity"`
}

// TeamLoad is the planned workload for one delivery team.
type TeamLoad struct {
	Team         string  `json:"team"`
	FeatureCount int     `json:"feature_count"`
	TotalEffort  float64 `json:"total_effort"`
}

// capacityRecommendation maps a quarter's story-point load to a staffing call.
func capacityRecommendation(totalEffort float64) string {
	switch {
	case totalEffort > 120:
		return "Increase Team"
	case totalEffort > 60:
		return "Current Team"
	default:
		return "Consider Optimization"
	}
}

// QuarterLoads rolls up effort per recommended quarter, sorted by quarter label.
func QuarterLoads(features []priority.ScoredFeature) []QuarterLoad {
	byQuarter := make(map[string]*QuarterLoad)
	for _, f := range features {
		load, ok := byQuarter[f.RecommendedQuarter]
		if !ok {
			load = &QuarterLoad{Quarter: f.RecommendedQuarter}
			byQuarter[f.RecommendedQuarter] = load
		}
		load.FeatureCount++
		load.TotalEffort += f.EffortEstimate
	}

	loads := make([]QuarterLoad, 0, len(byQuarter))
	for _, load := range byQuarter {
		load.Recommendation = capacityRecommendation(load.TotalEffort)
		loads = append(loads, *load)
	}

	sort.Slice(loads, func(i, j int) bool { return loads[i].Quarter < loads[j].Quarter })
	return loads
}

var teamKeywords = []struct {
	team  string
	words []string
}{
	{"Backend Team", []string{"api", "performance", "backend", "database"}},
	{"Mobile Team", []string{"mobile", "app", "ios", "android"}},
	{"Frontend Team", []string{"ui", "ux", "design", "interface", "dark mode"}},
	{"Data Team", []string{"analytics", "reporting", "data"}},
}

// assignTeam picks a delivery team from keywords in the feature name.
func assignTeam(featureName string) string {
	lower := strings.ToLower(featureName)
	for _, entry := range teamKeywords {
		for _, word := range entry.words {
			if strings.Contains(lower, word) {
				return entry.team
			}
		}
	}
	return "Product Team"
}

// TeamLoads rolls up effort per delivery team, sorted by team name.
func TeamLoads(features []priority.ScoredFeature) []TeamLoad {
	byTeam := make(map[string]*TeamLoad)
	for _, f := range features {
		team := assignTeam(f.FeatureName)
		load, ok := byTeam[team]
		if !ok {
			load = &TeamLoad{Team: team}
			byTeam[team] = load
		}
		load.FeatureCount++
		load.TotalEffort += f.EffortEstimate
	}

	loads := make([]TeamLoad, 0, len(byTeam))
	for _, load := range byTeam {
		loads = append(loads, *load)
	}

	sort.Slice(loads, func(i, j int) bool { return loads[i].Team < loads[j].Team })
	return loads
}
