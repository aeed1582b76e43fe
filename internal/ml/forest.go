package ml

import (
	"errors"
	"math/rand"
)

// ForestConfig controls ensemble fitting.
type ForestConfig struct {
	Trees int   // number of trees, e.g. 50 for the periodic trainer
	Seed  int64 // seed for bootstrap sampling, fixed for reproducibility
}

// ForestParams is a fitted ensemble of regression trees. Prediction is the
// mean over all trees. Like the scaler, the whole structure is plain data
// so a published artifact can be serialized as JSON.
type ForestParams struct {
	Trees []Tree `json:"trees"`
}

var errEmptyTrainingSet = errors.New("ml: empty training set")

// FitForest trains an ensemble of CART regression trees on bootstrap
// samples of the rows. Features are expected to be scaled already; targets
// are fitted as-is.
func FitForest(features [][]float64, targets []float64, cfg ForestConfig) (ForestParams, error) {
	if len(features) == 0 || len(features) != len(targets) {
		return ForestParams{}, errEmptyTrainingSet
	}
	if cfg.Trees <= 0 {
		cfg.Trees = 50
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	n := len(features)

	params := ForestParams{Trees: make([]Tree, cfg.Trees)}
	rows := make([]int, n)
	for i := 0; i < cfg.Trees; i++ {
		for j := range rows {
			rows[j] = rng.Intn(n)
		}
		params.Trees[i] = fitTree(features, targets, rows)
	}
	return params, nil
}

// Predict returns the ensemble mean for a single scaled feature vector.
func (f ForestParams) Predict(features []float64) float64 {
	if len(f.Trees) == 0 {
		return 0
	}
	var sum float64
	for _, t := range f.Trees {
		sum += t.Predict(features)
	}
	return sum / float64(len(f.Trees))
}
