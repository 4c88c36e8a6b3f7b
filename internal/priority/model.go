package priority

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Training hyperparameters. The seed is fixed so a run over identical input
// reproduces the same ranking.
const (
	minTrainingRows = 10
	trainSeed       = 42
	testFraction    = 0.2
	numEstimators   = 100
	maxTreeDepth    = 4
	learningRate    = 0.1

	riceWeight = 0.7
	mlWeight   = 0.3
)

// Feature vector column order. Jitter classes for synthetic augmentation are
// keyed off these positions.
const (
	colReach = iota
	colImpact
	colConfidence
	colEffort
	colRequestCount
	colBusinessValue
	colRevenueImpact
	colUniqueUsers
	colConversionImpact
	colRetentionImpact
	numColumns
)

// columnNames labels the feature-vector positions for reporting.
var columnNames = [numColumns]string{
	colReach:            "reach_score",
	colImpact:           "impact_score",
	colConfidence:       "confidence_score",
	colEffort:           "effort_estimate",
	colRequestCount:     "request_count",
	colBusinessValue:    "avg_business_value",
	colRevenueImpact:    "avg_revenue_impact",
	colUniqueUsers:      "unique_users",
	colConversionImpact: "avg_conversion_impact",
	colRetentionImpact:  "avg_retention_impact",
}

// jitterRanges maps each column to its multiplicative noise band. Volatile
// demand signals get a wide band, the discretized RICE components a narrow
// one, effort the widest.
var jitterRanges = [numColumns][2]float64{
	colReach:            {0.7, 1.3},
	colImpact:           {0.9, 1.1},
	colConfidence:       {0.9, 1.1},
	colEffort:           {0.6, 1.4},
	colRequestCount:     {0.7, 1.3},
	colBusinessValue:    {0.8, 1.2},
	colRevenueImpact:    {0.8, 1.2},
	colUniqueUsers:      {0.7, 1.3},
	colConversionImpact: {0.8, 1.2},
	colRetentionImpact:  {0.8, 1.2},
}

func featureVector(f ScoredFeature) []float64 {
	row := make([]float64, numColumns)
	row[colReach] = f.ReachScore
	row[colImpact] = f.ImpactScore
	row[colConfidence] = f.ConfidenceScore
	row[colEffort] = f.EffortEstimate
	row[colRequestCount] = float64(f.RequestCount)
	row[colBusinessValue] = f.AvgBusinessValue
	row[colRevenueImpact] = f.AvgRevenueImpact
	row[colUniqueUsers] = float64(f.UniqueUsers)
	row[colConversionImpact] = f.AvgConversionImpact
	row[colRetentionImpact] = f.AvgRetentionImpact
	for j, v := range row {
		if math.IsNaN(v) {
			row[j] = 0
		}
	}
	return row
}

// synthesizeRows resamples random real rows and perturbs each column within
// its jitter band. The label is recomputed from the perturbed RICE
// components rather than copied, so the model learns the functional form of
// the score under local noise instead of memorizing the catalog.
func synthesizeRows(real [][]float64, count int, rng *rand.Rand) ([][]float64, []float64) {
	rows := make([][]float64, 0, count)
	labels := make([]float64, 0, count)

	for i := 0; i < count; i++ {
		base := real[rng.Intn(len(real))]
		row := make([]float64, numColumns)
		for j, v := range base {
			lo, hi := jitterRanges[j][0], jitterRanges[j][1]
			row[j] = math.Abs(v * (lo + rng.Float64()*(hi-lo)))
		}
		rows = append(rows, row)
		labels = append(labels, riceScore(row[colReach], row[colImpact], row[colConfidence], row[colEffort]))
	}

	return rows, labels
}

// TrainedModel is the fitted scaler plus ensemble for one run. It is an
// explicit value passed into prediction, not hidden package state.
type TrainedModel struct {
	scaler *standardScaler
	model  *gbtRegressor

	TrainScore float64
	TestScore  float64
}

// TrainModel fits the composite prioritization model on the scored catalog,
// augmented with syntheticCount perturbed rows. It returns an error when the
// catalog is too small; any panic out of the numeric code is converted to an
// error so the caller can fall back to RICE-only scoring.
func TrainModel(features []ScoredFeature, syntheticCount int) (m *TrainedModel, err error) {
	if len(features) < minTrainingRows {
		return nil, fmt.Errorf("insufficient data: %d features, need %d", len(features), minTrainingRows)
	}

	defer func() {
		if r := recover(); r != nil {
			m = nil
			err = fmt.Errorf("model training failed: %v", r)
		}
	}()

	x := make([][]float64, 0, len(features)+syntheticCount)
	y := make([]float64, 0, len(features)+syntheticCount)
	for _, f := range features {
		x = append(x, featureVector(f))
		y = append(y, f.RiceScore)
	}

	rng := rand.New(rand.NewSource(trainSeed))
	synthX, synthY := synthesizeRows(x[:len(features)], syntheticCount, rng)
	x = append(x, synthX...)
	y = append(y, synthY...)

	// 80/20 split with the seeded generator.
	perm := rng.Perm(len(x))
	testSize := int(math.Ceil(float64(len(x)) * testFraction))
	if testSize >= len(x) {
		testSize = len(x) - 1
	}

	trainX := make([][]float64, 0, len(x)-testSize)
	trainY := make([]float64, 0, len(x)-testSize)
	testX := make([][]float64, 0, testSize)
	testY := make([]float64, 0, testSize)
	for k, i := range perm {
		if k < testSize {
			testX = append(testX, x[i])
			testY = append(testY, y[i])
		} else {
			trainX = append(trainX, x[i])
			trainY = append(trainY, y[i])
		}
	}

	scaler := fitScaler(trainX)
	model := fitGBT(scaler.transform(trainX), trainY, numEstimators, maxTreeDepth, learningRate)

	return &TrainedModel{
		scaler:     scaler,
		model:      model,
		TrainScore: rSquared(model.predictAll(scaler.transform(trainX)), trainY),
		TestScore:  rSquared(model.predictAll(scaler.transform(testX)), testY),
	}, nil
}

// Predict scores one real feature with the fitted scaler and ensemble.
func (m *TrainedModel) Predict(f ScoredFeature) float64 {
	return m.model.predict(m.scaler.transformRow(featureVector(f)))
}

// FeatureImportances reports each input column's share of the ensemble's
// total split gain, sorted by decreasing weight.
func (m *TrainedModel) FeatureImportances() []FeatureImportance {
	weights := m.model.featureImportances(numColumns)
	out := make([]FeatureImportance, numColumns)
	for j, w := range weights {
		out[j] = FeatureImportance{Feature: columnNames[j], Weight: w}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Weight > out[j].Weight
	})
	return out
}

// BlendComposite writes composite scores into a fresh copy of the table.
// With a model, composite = 0.7*rice + 0.3*ml; without one, composite stays
// equal to the raw RICE score. Ranks are reassigned either way.
func BlendComposite(features []ScoredFeature, model *TrainedModel) []ScoredFeature {
	out := append([]ScoredFeature(nil), features...)
	for i := range out {
		if model != nil {
			out[i].MLPriorityScore = model.Predict(out[i])
			out[i].CompositeScore = riceWeight*out[i].RiceScore + mlWeight*out[i].MLPriorityScore
		} else {
			out[i].MLPriorityScore = out[i].RiceScore
			out[i].CompositeScore = out[i].RiceScore
		}
	}
	rankByComposite(out)
	return out
}

// rankByComposite sorts descending by composite score and assigns dense
// ranks. The sort is stable: equal scores keep their relative table order.
func rankByComposite(features []ScoredFeature) {
	sort.SliceStable(features, func(i, j int) bool {
		return features[i].CompositeScore > features[j].CompositeScore
	})
	for i := range features {
		features[i].PriorityRank = i + 1
	}
}
