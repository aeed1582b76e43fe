package ml

import "sort"

// TreeNode is one node of a regression tree, stored in a flat slice so the
// whole tree serializes to plain JSON. Leaf nodes have Feature == -1 and
// carry the predicted value; internal nodes route on Feature/Threshold
// with child indices into the same slice.
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Tree is a CART regression tree grown with variance-reduction splits.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

const (
	maxTreeDepth   = 10
	minLeafSamples = 2
)

// fitTree grows a tree on the given rows (indices into features/targets).
func fitTree(features [][]float64, targets []float64, rows []int) Tree {
	t := Tree{}
	t.grow(features, targets, rows, 0)
	return t
}

// grow appends a subtree for rows and returns its root index.
func (t *Tree) grow(features [][]float64, targets []float64, rows []int, depth int) int {
	idx := len(t.Nodes)
	t.Nodes = append(t.Nodes, TreeNode{Feature: -1, Value: meanTarget(targets, rows)})

	if depth >= maxTreeDepth || len(rows) < 2*minLeafSamples {
		return idx
	}

	feature, threshold, ok := bestSplit(features, targets, rows)
	if !ok {
		return idx
	}

	var left, right []int
	for _, r := range rows {
		if features[r][feature] <= threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	if len(left) < minLeafSamples || len(right) < minLeafSamples {
		return idx
	}

	t.Nodes[idx].Feature = feature
	t.Nodes[idx].Threshold = threshold
	leftIdx := t.grow(features, targets, left, depth+1)
	rightIdx := t.grow(features, targets, right, depth+1)
	t.Nodes[idx].Left = leftIdx
	t.Nodes[idx].Right = rightIdx
	return idx
}

// Predict walks the tree for a single feature vector.
func (t Tree) Predict(features []float64) float64 {
	if len(t.Nodes) == 0 {
		return 0
	}
	i := 0
	for {
		node := t.Nodes[i]
		if node.Feature < 0 {
			return node.Value
		}
		if features[node.Feature] <= node.Threshold {
			i = node.Left
		} else {
			i = node.Right
		}
	}
}

// bestSplit scans every feature for the threshold that maximizes variance
// reduction. Candidates are scanned in sorted order with running sums, so
// one feature costs O(n log n).
func bestSplit(features [][]float64, targets []float64, rows []int) (feature int, threshold float64, ok bool) {
	n := len(rows)
	var totalSum, totalSq float64
	for _, r := range rows {
		totalSum += targets[r]
		totalSq += targets[r] * targets[r]
	}
	parentSSE := totalSq - totalSum*totalSum/float64(n)

	type pair struct{ value, target float64 }
	bestGain := 0.0

	dim := len(features[rows[0]])
	pairs := make([]pair, n)
	for j := 0; j < dim; j++ {
		for i, r := range rows {
			pairs[i] = pair{value: features[r][j], target: targets[r]}
		}
		sort.Slice(pairs, func(a, b int) bool { return pairs[a].value < pairs[b].value })

		var leftSum, leftSq float64
		for i := 0; i < n-1; i++ {
			leftSum += pairs[i].target
			leftSq += pairs[i].target * pairs[i].target
			// No valid threshold between equal values.
			if pairs[i].value == pairs[i+1].value {
				continue
			}
			nl := float64(i + 1)
			nr := float64(n - i - 1)
			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			sse := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			if gain := parentSSE - sse; gain > bestGain {
				bestGain = gain
				feature = j
				threshold = (pairs[i].value + pairs[i+1].value) / 2
				ok = true
			}
		}
	}
	return feature, threshold, ok
}

func meanTarget(targets []float64, rows []int) float64 {
	if len(rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range rows {
		sum += targets[r]
	}
	return sum / float64(len(rows))
}
