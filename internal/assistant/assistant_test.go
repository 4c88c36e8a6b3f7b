package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/roadmap-prioritizer/internal/priority"
)

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected Intent
	}{
		{"priority keyword", "What are our top features?", IntentPriority},
		{"rank keyword", "How does Dark Mode rank?", IntentPriority},
		{"timeline keyword", "When will the API ship?", IntentTimeline},
		{"quarter keyword", "Show me the Q2 2026 plan", IntentTimeline},
		{"roi keyword", "What's the return on this investment?", IntentROI},
		{"comparison keyword", "Dark Mode versus API Integration", IntentComparison},
		{"capacity keyword", "Is the team overloaded?", IntentCapacity},
		{"risk keyword", "Which features are risky?", IntentRisk},
		{"no keywords", "Tell me about the roadmap", IntentGeneral},
		{"empty query", "", IntentGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyIntent(tt.query))
		})
	}
}

func TestExtractFeatureName(t *testing.T) {
	names := []string{"Dark Mode", "API Rate Limiting", "Export"}

	tests := []struct {
		name     string
		query    string
		expected string
	}{
		{"exact multi-word", "why is dark mode ranked so low", "Dark Mode"},
		{"partial multi-word", "tell me about rate limiting", "API Rate Limiting"},
		{"single word", "when does export ship", "Export"},
		{"no match", "what about notifications", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractFeatureName(tt.query, names))
		})
	}
}

func TestCapacityRecommendation(t *testing.T) {
	assert.Equal(t, "Increase Team", capacityRecommendation(121))
	assert.Equal(t, "Current Team", capacityRecommendation(120))
	assert.Equal(t, "Current Team", capacityRecommendation(61))
	assert.Equal(t, "Consider Optimization", capacityRecommendation(60))
	assert.Equal(t, "Consider Optimization", capacityRecommendation(0))
}

func TestAssignTeam(t *testing.T) {
	tests := []struct {
		feature  string
		expected string
	}{
		{"API Rate Limiting", "Backend Team"},
		{"Mobile Push Notifications", "Mobile Team"},
		{"Dark Mode UI", "Frontend Team"},
		{"Analytics Dashboard", "Data Team"},
		{"Referral Program", "Product Team"},
	}

	for _, tt := range tests {
		t.Run(tt.feature, func(t *testing.T) {
			assert.Equal(t, tt.expected, assignTeam(tt.feature))
		})
	}
}

func sampleResult() *priority.AnalysisResult {
	features := []priority.ScoredFeature{
		{
			FeatureAggregate:    priority.FeatureAggregate{FeatureName: "Dark Mode"},
			ReachScore:          120,
			ImpactScore:         2,
			ConfidenceScore:     0.8,
			EffortEstimate:      3,
			RiceScore:           64,
			CompositeScore:      64,
			PriorityRank:        1,
			RecommendedQuarter:  "Q1 2026",
			BusinessImpactScore: 70,
		},
		{
			FeatureAggregate:   priority.FeatureAggregate{FeatureName: "API Rate Limiting"},
			ReachScore:         80,
			ImpactScore:        1,
			ConfidenceScore:    0.5,
			EffortEstimate:     13,
			RiceScore:          3.1,
			CompositeScore:     3.1,
			PriorityRank:       2,
			RecommendedQuarter: "Q2 2026",
		},
	}

	projections := []priority.ROIProjection{
		{
			FeatureName:            "Dark Mode",
			DevelopmentCost:        54000,
			ProjectedAnnualRevenue: 120000,
			ROIPercentage:          122.2,
			PaybackMonths:          5.4,
			RiskScore:              30,
		},
	}

	return &priority.AnalysisResult{
		Features:    features,
		Projections: projections,
		Summary: priority.ExecutiveSummary{
			TotalFeatures:          2,
			HighPriorityFeatures:   1,
			QuickWins:              1,
			TotalEffortStoryPoints: 16,
			AvgROI:                 122.2,
		},
	}
}

type recordingLogger struct {
	queries []string
	roles   []string
}

func (r *recordingLogger) LogAssistantQuery(query, role, response string) error {
	r.queries = append(r.queries, query)
	r.roles = append(r.roles, role)
	return nil
}

func TestAnswerPrioritySpecificFeature(t *testing.T) {
	a := NewAssistant(nil, nil)

	response, intent := a.Answer("why is dark mode the top priority", "", sampleResult())

	assert.Equal(t, IntentPriority, intent)
	assert.Contains(t, response, "Priority Analysis: Dark Mode")
	assert.Contains(t, response, "#1")
	assert.Contains(t, response, "HIGH PRIORITY")
}

func TestAnswerPriorityTopList(t *testing.T) {
	a := NewAssistant(nil, nil)

	response, intent := a.Answer("what are the top features", "", sampleResult())

	assert.Equal(t, IntentPriority, intent)
	assert.Contains(t, response, "Top Priority Features")
	assert.Contains(t, response, "1. Dark Mode")
}

func TestAnswerTimelineSpecificQuarter(t *testing.T) {
	a := NewAssistant(nil, nil)

	response, intent := a.Answer("what ships in Q1 2026?", "", sampleResult())

	assert.Equal(t, IntentTimeline, intent)
	assert.Contains(t, response, "Q1 2026 Roadmap")
	assert.Contains(t, response, "Dark Mode")
	assert.NotContains(t, response, "API Rate Limiting")
}

func TestAnswerTimelineEmptyQuarter(t *testing.T) {
	a := NewAssistant(nil, nil)

	response, _ := a.Answer("what ships in Q4 2026?", "", sampleResult())

	assert.Contains(t, response, "No features are currently planned for Q4 2026")
}

func TestAnswerROI(t *testing.T) {
	a := NewAssistant(nil, nil)

	response, intent := a.Answer("what is the expected return?", "", sampleResult())

	assert.Equal(t, IntentROI, intent)
	assert.Contains(t, response, "ROI Analysis")
	assert.Contains(t, response, "Portfolio Overview")
	assert.Contains(t, response, "Dark Mode")
}

func TestAnswerROINoProjections(t *testing.T) {
	a := NewAssistant(nil, nil)
	result := sampleResult()
	result.Projections = nil

	response, _ := a.Answer("show me the roi", "", result)

	assert.Contains(t, response, "ROI analysis unavailable")
}

func TestAnswerComparison(t *testing.T) {
	a := NewAssistant(nil, nil)

	response, intent := a.Answer("compare Dark Mode versus API Rate Limiting", "", sampleResult())

	assert.Equal(t, IntentComparison, intent)
	assert.Contains(t, response, "Feature Comparison")
	assert.Contains(t, response, "Recommendation: Dark Mode")
}

func TestAnswerComparisonTooFewFeatures(t *testing.T) {
	a := NewAssistant(nil, nil)

	response, _ := a.Answer("is Dark Mode better?", "", sampleResult())

	assert.Contains(t, response, "Comparison unavailable")
}

func TestAnswerLogsQuery(t *testing.T) {
	store := &recordingLogger{}
	a := NewAssistant(store, nil)

	_, _ = a.Answer("what are the risks?", "Engineering Lead", sampleResult())

	require.Len(t, store.queries, 1)
	assert.Equal(t, "what are the risks?", store.queries[0])
	assert.Equal(t, "Engineering Lead", store.roles[0])
}

func TestAnswerDefaultsRole(t *testing.T) {
	store := &recordingLogger{}
	a := NewAssistant(store, nil)

	_, _ = a.Answer("overview please", "", sampleResult())

	require.Len(t, store.roles, 1)
	assert.Equal(t, "Product Manager", store.roles[0])
}

func TestQuarterLoads(t *testing.T) {
	loads := QuarterLoads(sampleResult().Features)

	require.Len(t, loads, 2)
	assert.Equal(t, "Q1 2026", loads[0].Quarter)
	assert.Equal(t, 1, loads[0].FeatureCount)
	assert.InDelta(t, 3, loads[0].TotalEffort, 1e-9)
	assert.Equal(t, "Consider Optimization", loads[0].Recommendation)
}
