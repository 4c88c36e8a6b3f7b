package priority

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitScaler(t *testing.T) {
	x := [][]float64{
		{1, 5},
		{3, 5},
	}

	s := fitScaler(x)

	require.Len(t, s.means, 2)
	assert.InDelta(t, 2, s.means[0], 1e-9)
	assert.InDelta(t, 1, s.stds[0], 1e-9) // population std of {1,3}
	// Constant column keeps std 1 to avoid division by zero.
	assert.InDelta(t, 5, s.means[1], 1e-9)
	assert.InDelta(t, 1, s.stds[1], 1e-9)

	row := s.transformRow([]float64{3, 5})
	assert.InDelta(t, 1, row[0], 1e-9)
	assert.InDelta(t, 0, row[1], 1e-9)
}

func TestScalerTransformCentersTrainingData(t *testing.T) {
	x := [][]float64{
		{10, 2}, {20, 4}, {30, 9}, {40, 1},
	}
	s := fitScaler(x)
	scaled := s.transform(x)

	for j := 0; j < 2; j++ {
		sum := 0.0
		for i := range scaled {
			sum += scaled[i][j]
		}
		assert.InDelta(t, 0, sum/float64(len(scaled)), 1e-9, "column %d not centered", j)
	}
}

func TestBuildTreeSplitsOnBestFeature(t *testing.T) {
	// Target depends only on column 0.
	x := [][]float64{
		{0, 7}, {1, 7}, {10, 7}, {11, 7},
	}
	y := []float64{1, 1, 9, 9}
	indices := []int{0, 1, 2, 3}

	tree := buildTree(x, y, indices, 0, 3)

	require.False(t, tree.leaf)
	assert.Equal(t, 0, tree.feature)
	assert.InDelta(t, 5.5, tree.threshold, 1e-9)
	assert.InDelta(t, 1, tree.predict([]float64{0.5, 7}), 1e-9)
	assert.InDelta(t, 9, tree.predict([]float64{10.5, 7}), 1e-9)
}

func TestBuildTreeDepthZeroIsLeaf(t *testing.T) {
	x := [][]float64{{0}, {10}}
	y := []float64{2, 6}

	tree := buildTree(x, y, []int{0, 1}, 0, 0)

	assert.True(t, tree.leaf)
	assert.InDelta(t, 4, tree.value, 1e-9)
}

func TestBuildTreeConstantTargetIsLeaf(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}}
	y := []float64{5, 5, 5}

	tree := buildTree(x, y, []int{0, 1, 2}, 0, 4)

	assert.True(t, tree.leaf)
	assert.InDelta(t, 5, tree.value, 1e-9)
}

func TestFitGBTRecoversStepFunction(t *testing.T) {
	x := make([][]float64, 0, 40)
	y := make([]float64, 0, 40)
	for i := 0; i < 40; i++ {
		v := float64(i)
		x = append(x, []float64{v})
		if v < 20 {
			y = append(y, 10)
		} else {
			y = append(y, 50)
		}
	}

	model := fitGBT(x, y, 100, 4, 0.1)

	assert.InDelta(t, 10, model.predict([]float64{5}), 1.0)
	assert.InDelta(t, 50, model.predict([]float64{35}), 1.0)

	r2 := rSquared(model.predictAll(x), y)
	assert.Greater(t, r2, 0.95)
}

func TestFitGBTBaseIsMean(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{2, 4, 6, 8}

	model := fitGBT(x, y, 10, 2, 0.1)

	assert.InDelta(t, 5, model.base, 1e-9)
	assert.Len(t, model.trees, 10)
}

func TestFeatureImportancesFollowSplitGain(t *testing.T) {
	// The target depends on column 0 only, so it should carry all the gain.
	x := make([][]float64, 0, 30)
	y := make([]float64, 0, 30)
	for i := 0; i < 30; i++ {
		v := float64(i)
		x = append(x, []float64{v, float64(i % 3)})
		y = append(y, v*2)
	}

	model := fitGBT(x, y, 20, 3, 0.1)
	weights := model.featureImportances(2)

	sum := weights[0] + weights[1]
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Greater(t, weights[0], 0.9)
}

func TestFeatureImportancesAllLeaves(t *testing.T) {
	// Constant target grows no splits; weights stay zero instead of NaN.
	x := [][]float64{{1}, {2}, {3}}
	y := []float64{5, 5, 5}

	model := fitGBT(x, y, 5, 3, 0.1)
	weights := model.featureImportances(1)

	assert.Equal(t, []float64{0}, weights)
}

func TestGBTPredictionsAreFinite(t *testing.T) {
	x := [][]float64{{0, 1}, {1, 0}, {2, 2}, {3, 1}, {4, 0}}
	y := []float64{0.1, 1.2, 2.5, 3.1, 4.9}

	model := fitGBT(x, y, 50, 3, 0.1)

	for _, row := range x {
		p := model.predict(row)
		assert.False(t, math.IsNaN(p) || math.IsInf(p, 0))
	}
}
