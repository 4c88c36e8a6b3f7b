package priority

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// standardScaler centers each feature column to zero mean and unit variance.
// Statistics are fit on the training split only and reused for prediction.
type standardScaler struct {
	means []float64
	stds  []float64
}

func fitScaler(x [][]float64) *standardScaler {
	if len(x) == 0 {
		return &standardScaler{}
	}
	cols := len(x[0])
	s := &standardScaler{
		means: make([]float64, cols),
		stds:  make([]float64, cols),
	}
	col := make([]float64, len(x))
	for j := 0; j < cols; j++ {
		for i := range x {
			col[i] = x[i][j]
		}
		mean := stat.Mean(col, nil)
		variance := 0.0
		for _, v := range col {
			variance += (v - mean) * (v - mean)
		}
		variance /= float64(len(col))
		s.means[j] = mean
		s.stds[j] = math.Sqrt(variance)
		if s.stds[j] == 0 {
			s.stds[j] = 1
		}
	}
	return s
}

func (s *standardScaler) transformRow(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.means[j]) / s.stds[j]
	}
	return out
}

func (s *standardScaler) transform(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		out[i] = s.transformRow(row)
	}
	return out
}

// treeNode is one node of a regression tree. Leaves carry the mean target of
// the samples routed to them; split nodes keep the SSE reduction their split
// achieved, which feeds the ensemble's feature importances.
type treeNode struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	gain      float64
	left      *treeNode
	right     *treeNode
}

func (n *treeNode) predict(row []float64) float64 {
	for !n.leaf {
		if row[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// buildTree fits a depth-bounded CART regression tree by greedy variance
// reduction. Split candidates are midpoints between consecutive distinct
// feature values, evaluated with prefix sums.
func buildTree(x [][]float64, y []float64, indices []int, depth, maxDepth int) *treeNode {
	sum, sumSq := 0.0, 0.0
	for _, i := range indices {
		sum += y[i]
		sumSq += y[i] * y[i]
	}
	n := float64(len(indices))
	mean := sum / n

	node := &treeNode{leaf: true, value: mean}
	if depth >= maxDepth || len(indices) < 2 {
		return node
	}

	totalSSE := sumSq - sum*sum/n
	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0

	cols := len(x[indices[0]])
	sorted := make([]int, len(indices))
	for j := 0; j < cols; j++ {
		copy(sorted, indices)
		sort.SliceStable(sorted, func(a, b int) bool {
			return x[sorted[a]][j] < x[sorted[b]][j]
		})

		leftSum, leftSumSq := 0.0, 0.0
		for k := 0; k < len(sorted)-1; k++ {
			i := sorted[k]
			leftSum += y[i]
			leftSumSq += y[i] * y[i]

			if x[sorted[k]][j] == x[sorted[k+1]][j] {
				continue
			}

			nl := float64(k + 1)
			nr := n - nl
			rightSum := sum - leftSum
			rightSumSq := sumSq - leftSumSq
			sse := (leftSumSq - leftSum*leftSum/nl) + (rightSumSq - rightSum*rightSum/nr)
			gain := totalSSE - sse
			if gain > bestGain {
				bestGain = gain
				bestFeature = j
				bestThreshold = (x[sorted[k]][j] + x[sorted[k+1]][j]) / 2
			}
		}
	}

	if bestFeature < 0 {
		return node
	}

	var left, right []int
	for _, i := range indices {
		if x[i][bestFeature] <= bestThreshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return node
	}

	node.leaf = false
	node.feature = bestFeature
	node.threshold = bestThreshold
	node.gain = bestGain
	node.left = buildTree(x, y, left, depth+1, maxDepth)
	node.right = buildTree(x, y, right, depth+1, maxDepth)
	return node
}

// gbtRegressor is a gradient-boosted ensemble of regression trees fit to the
// squared-error objective, so each stage fits the residuals of the last.
type gbtRegressor struct {
	base         float64
	learningRate float64
	trees        []*treeNode
}

func fitGBT(x [][]float64, y []float64, nTrees, maxDepth int, learningRate float64) *gbtRegressor {
	model := &gbtRegressor{
		base:         stat.Mean(y, nil),
		learningRate: learningRate,
		trees:        make([]*treeNode, 0, nTrees),
	}

	indices := make([]int, len(y))
	for i := range indices {
		indices[i] = i
	}

	pred := make([]float64, len(y))
	for i := range pred {
		pred[i] = model.base
	}

	residual := make([]float64, len(y))
	for t := 0; t < nTrees; t++ {
		for i := range y {
			residual[i] = y[i] - pred[i]
		}
		tree := buildTree(x, residual, indices, 0, maxDepth)
		model.trees = append(model.trees, tree)
		for i := range pred {
			pred[i] += learningRate * tree.predict(x[i])
		}
	}

	return model
}

func (m *gbtRegressor) predict(row []float64) float64 {
	out := m.base
	for _, tree := range m.trees {
		out += m.learningRate * tree.predict(row)
	}
	return out
}

func accumulateGains(n *treeNode, totals []float64) {
	if n == nil || n.leaf {
		return
	}
	totals[n.feature] += n.gain
	accumulateGains(n.left, totals)
	accumulateGains(n.right, totals)
}

// featureImportances sums split gains per feature column across every tree
// and normalizes them to sum to one.
func (m *gbtRegressor) featureImportances(cols int) []float64 {
	totals := make([]float64, cols)
	for _, tree := range m.trees {
		accumulateGains(tree, totals)
	}

	sum := 0.0
	for _, v := range totals {
		sum += v
	}
	if sum > 0 {
		for j := range totals {
			totals[j] /= sum
		}
	}
	return totals
}

func (m *gbtRegressor) predictAll(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = m.predict(row)
	}
	return out
}

// rSquared is the coefficient of determination of predictions against
// observed values.
func rSquared(predicted, observed []float64) float64 {
	return stat.RSquaredFrom(predicted, observed, nil)
}
