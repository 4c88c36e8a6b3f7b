package priority

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAggregates(n int) []FeatureAggregate {
	aggs := make([]FeatureAggregate, 0, n)
	for i := 0; i < n; i++ {
		aggs = append(aggs, FeatureAggregate{
			FeatureName:         fmt.Sprintf("Feature %02d", i),
			RequestCount:        2 + i*3,
			UniqueUsers:         8 + i*5,
			AvgBusinessValue:    float64(2 + i%9),
			AvgRevenueImpact:    4000 * float64(1+i%10),
			AvgEffort:           float64(1 + i%13),
			CriticalRequests:    i % 4,
			HighRequests:        i % 5,
			AvgConversionImpact: 0.01 * float64(i%6),
			AvgRetentionImpact:  0.015 * float64(i%5),
		})
	}
	return aggs
}

func TestEngineRunFullPipeline(t *testing.T) {
	engine := NewEngine(DefaultConfig(), nil)

	result, err := engine.Run(context.Background(), testAggregates(20))
	require.NoError(t, err)

	require.Len(t, result.Features, 20)
	assert.True(t, result.Diagnostics.Trained)
	assert.Len(t, result.Diagnostics.FeatureImportances, 10)
	assert.Len(t, result.Projections, 15)

	for i, f := range result.Features {
		assert.Equal(t, i+1, f.PriorityRank)
		assert.Regexp(t, `^Q[1-4] 2026$`, f.RecommendedQuarter)
		if i > 0 {
			assert.GreaterOrEqual(t, result.Features[i-1].CompositeScore, f.CompositeScore)
		}
	}

	assert.Equal(t, 20, result.Summary.TotalFeatures)
	assert.Positive(t, result.Summary.TotalEffortStoryPoints)
}

func TestEngineRunSmallCatalogFallsBack(t *testing.T) {
	engine := NewEngine(DefaultConfig(), nil)

	result, err := engine.Run(context.Background(), testAggregates(6))
	require.NoError(t, err)

	assert.False(t, result.Diagnostics.Trained)
	assert.Zero(t, result.Diagnostics.TrainScore)
	assert.Zero(t, result.Diagnostics.TestScore)
	assert.Empty(t, result.Diagnostics.FeatureImportances)

	for _, f := range result.Features {
		assert.Equal(t, f.RiceScore, f.CompositeScore)
		assert.Equal(t, f.RiceScore, f.MLPriorityScore)
	}
}

func TestEngineRunEmptyCatalog(t *testing.T) {
	engine := NewEngine(DefaultConfig(), nil)

	result, err := engine.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, result.Features)
	assert.Empty(t, result.Projections)
	assert.Zero(t, result.Summary.TotalFeatures)
	assert.False(t, result.Diagnostics.Trained)
}

func TestEngineRunDeterministic(t *testing.T) {
	engine := NewEngine(DefaultConfig(), nil)
	aggs := testAggregates(15)

	first, err := engine.Run(context.Background(), aggs)
	require.NoError(t, err)
	second, err := engine.Run(context.Background(), aggs)
	require.NoError(t, err)

	require.Len(t, second.Features, len(first.Features))
	for i := range first.Features {
		assert.Equal(t, first.Features[i].FeatureName, second.Features[i].FeatureName)
		assert.Equal(t, first.Features[i].CompositeScore, second.Features[i].CompositeScore)
		assert.Equal(t, first.Features[i].RecommendedQuarter, second.Features[i].RecommendedQuarter)
	}
	assert.Equal(t, first.Summary, second.Summary)
}

func TestEngineRunCanceledContext(t *testing.T) {
	engine := NewEngine(DefaultConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Run(ctx, testAggregates(5))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngineConfigDefaults(t *testing.T) {
	engine := NewEngine(Config{}, nil)
	cfg := engine.Config()

	assert.Equal(t, DefaultConfig(), cfg)
}

func TestEngineConfigOverrides(t *testing.T) {
	engine := NewEngine(Config{ROITopK: 5, TargetPlanningYear: 2027}, nil)
	cfg := engine.Config()

	assert.Equal(t, 5, cfg.ROITopK)
	assert.Equal(t, 2027, cfg.TargetPlanningYear)
	assert.Equal(t, DefaultConfig().UnitCostPerStoryPoint, cfg.UnitCostPerStoryPoint)

	result, err := engine.Run(context.Background(), testAggregates(12))
	require.NoError(t, err)

	assert.Len(t, result.Projections, 5)
	for _, f := range result.Features {
		assert.Contains(t, f.RecommendedQuarter, "2027")
	}
}
