package ml

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

// RMSE is the root-mean-squared-error between predictions and truth.
func RMSE(predicted, actual []float64) float64 {
	if len(predicted) == 0 || len(predicted) != len(actual) {
		return math.NaN()
	}
	var sum float64
	for i := range predicted {
		d := predicted[i] - actual[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(predicted)))
}

// R2 is the coefficient of determination.
func R2(predicted, actual []float64) float64 {
	if len(predicted) == 0 || len(predicted) != len(actual) {
		return math.NaN()
	}
	return stat.RSquaredFrom(predicted, actual, nil)
}

// TrainTestSplit shuffles row indices with the given seed and splits them
// into train and test sets, holding out testFraction of the rows (at least
// one row stays in each set when n > 1).
func TrainTestSplit(n int, testFraction float64, seed int64) (train, test []int) {
	idx := rand.New(rand.NewSource(seed)).Perm(n)
	testN := int(float64(n) * testFraction)
	if testN < 1 && n > 1 {
		testN = 1
	}
	if testN >= n {
		testN = n - 1
	}
	return idx[testN:], idx[:testN]
}
