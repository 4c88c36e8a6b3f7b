package priority

// FeatureAggregate is one row of the merged feedback/usage table, keyed by
// feature name. Rows are assumed deduplicated upstream; the engine does not
// validate cross-field invariants.
type FeatureAggregate struct {
	FeatureName         string  `json:"feature_name"`
	RequestCount        int     `json:"request_count"`
	AvgBusinessValue    float64 `json:"avg_business_value"`
	AvgRevenueImpact    float64 `json:"avg_revenue_impact"`
	AvgEffort           float64 `json:"avg_effort"`
	CriticalRequests    int     `json:"critical_requests"`
	HighRequests        int     `json:"high_requests"`
	UniqueUsers         int     `json:"unique_users"`
	AvgUsage            float64 `json:"avg_usage"`
	AvgSessionDuration  float64 `json:"avg_session_duration"`
	AvgConversionImpact float64 `json:"avg_conversion_impact"`
	AvgRetentionImpact  float64 `json:"avg_retention_impact"`
}

// ScoredFeature extends an aggregate with everything the pipeline derives.
// Values are computed once per run and never mutated in place afterwards.
type ScoredFeature struct {
	FeatureAggregate

	ReachScore      float64 `json:"reach_score"`
	ImpactScore     float64 `json:"impact_score"`
	ConfidenceScore float64 `json:"confidence_score"`
	EffortEstimate  float64 `json:"effort_estimate"`
	RiceScore       float64 `json:"rice_score"`

	MLPriorityScore float64 `json:"ml_priority_score"`
	CompositeScore  float64 `json:"composite_score"`
	PriorityRank    int     `json:"priority_rank"`

	RecommendedQuarter string `json:"recommended_quarter"`

	BusinessImpactScore float64 `json:"business_impact_score"`
	TechnicalComplexity float64 `json:"technical_complexity"`
	StrategicAlignment  float64 `json:"strategic_alignment"`
}

// ROIProjection holds the financial projection for one top-ranked feature.
type ROIProjection struct {
	FeatureName             string  `json:"feature_name"`
	DevelopmentCost         float64 `json:"development_cost"`
	ProjectedAnnualRevenue  float64 `json:"projected_annual_revenue"`
	ROIPercentage           float64 `json:"roi_percentage"`
	PaybackMonths           float64 `json:"payback_months"`
	NeverPaysBack           bool    `json:"never_pays_back"`
	ConfidenceLevel         float64 `json:"confidence_level"`
	RiskScore               float64 `json:"risk_score"`
}

// Quadrant labels a feature on the effort/impact matrix relative to the
// medians of the set being classified.
type Quadrant string

const (
	QuadrantQuickWin     Quadrant = "Quick Wins"
	QuadrantMajorProject Quadrant = "Major Projects"
	QuadrantFillIn       Quadrant = "Fill-ins"
	QuadrantQuestionable Quadrant = "Questionable"
)

// ExecutiveSummary is the flat roll-up handed to the presentation layer.
type ExecutiveSummary struct {
	TotalFeatures           int     `json:"total_features"`
	HighPriorityFeatures    int     `json:"high_priority_features"`
	TotalEffortStoryPoints  float64 `json:"total_effort_sp"`
	AvgROI                  float64 `json:"avg_roi"`
	AvgRisk                 float64 `json:"avg_risk"`
	TotalProjectedRevenue   float64 `json:"total_projected_revenue"`
	TotalInvestment         float64 `json:"total_investment"`
	HighRiskFeatures        int     `json:"high_risk_features"`
	QuickWins               int     `json:"quick_wins"`
	AvgBusinessImpact       float64 `json:"avg_business_impact"`
	StrategicAlignmentScore float64 `json:"strategic_alignment_score"`
}

// FeatureImportance is one input column's normalized share of the model's
// split gain.
type FeatureImportance struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"importance"`
}

// ModelDiagnostics reports the health of the composite model for a run.
// Scores and importances are zero whenever Trained is false.
type ModelDiagnostics struct {
	Trained            bool                `json:"trained"`
	TrainScore         float64             `json:"train_score"`
	TestScore          float64             `json:"test_score"`
	FeatureImportances []FeatureImportance `json:"feature_importances,omitempty"`
}

// AnalysisResult bundles the four output tables of a run.
type AnalysisResult struct {
	Features    []ScoredFeature  `json:"features"`
	Projections []ROIProjection  `json:"roi_projections"`
	Summary     ExecutiveSummary `json:"summary"`
	Diagnostics ModelDiagnostics `json:"model_diagnostics"`
}

// Config holds the engine's tunables. Zero values are replaced by the
// defaults below when the engine is constructed.
type Config struct {
	UnitCostPerStoryPoint float64
	ROITopK               int
	SyntheticSampleCount  int
	TargetPlanningYear    int
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		UnitCostPerStoryPoint: 18000,
		ROITopK:               15,
		SyntheticSampleCount:  100,
		TargetPlanningYear:    2026,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.UnitCostPerStoryPoint <= 0 {
		c.UnitCostPerStoryPoint = d.UnitCostPerStoryPoint
	}
	if c.ROITopK <= 0 {
		c.ROITopK = d.ROITopK
	}
	if c.SyntheticSampleCount <= 0 {
		c.SyntheticSampleCount = d.SyntheticSampleCount
	}
	if c.TargetPlanningYear <= 0 {
		c.TargetPlanningYear = d.TargetPlanningYear
	}
	return c
}
