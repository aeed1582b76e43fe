package ml

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// ScalerParams holds per-feature standardization parameters (zero mean,
// unit variance). The struct is JSON-serializable so artifacts can be
// re-read by any implementation.
type ScalerParams struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// FitScaler computes mean and standard deviation per feature column.
// Constant columns get std 1 so Transform never divides by zero; the same
// guard covers a single-row matrix, where the sample deviation is NaN.
func FitScaler(features [][]float64) ScalerParams {
	if len(features) == 0 {
		return ScalerParams{}
	}

	dim := len(features[0])
	params := ScalerParams{
		Mean: make([]float64, dim),
		Std:  make([]float64, dim),
	}

	col := make([]float64, len(features))
	for j := 0; j < dim; j++ {
		for i, row := range features {
			col[i] = row[j]
		}
		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		params.Mean[j] = mean
		params.Std[j] = std
	}
	return params
}

// Transform standardizes a single feature vector.
func (p ScalerParams) Transform(features []float64) []float64 {
	out := make([]float64, len(features))
	for j, v := range features {
		out[j] = (v - p.Mean[j]) / p.Std[j]
	}
	return out
}

// TransformAll standardizes a feature matrix.
func (p ScalerParams) TransformAll(features [][]float64) [][]float64 {
	out := make([][]float64, len(features))
	for i, row := range features {
		out[i] = p.Transform(row)
	}
	return out
}
