// Package scoring applies a linear model to a standardized feature vector.
package scoring

import (
	"math"

	"winsbygroup.com/priceserver/internal/apperror"
	"winsbygroup.com/priceserver/internal/model"
)

// Validate checks that p can score a vector. Weights, mean and std must be
// non-empty, the same length and finite, and no std entry may be zero.
func Validate(p *model.Parameters) error {
	if p == nil {
		return apperror.New(apperror.InvalidModelParameters, "model parameters are required")
	}

	n := len(p.Weights)
	if n == 0 {
		return apperror.New(apperror.InvalidModelParameters, "model has no weights")
	}
	if len(p.TrainingMean) != n || len(p.TrainingStd) != n {
		return apperror.Newf(apperror.InvalidModelParameters,
			"model vectors disagree in length: weights=%d mean=%d std=%d",
			n, len(p.TrainingMean), len(p.TrainingStd))
	}
	if !finite(p.Bias) {
		return apperror.New(apperror.InvalidModelParameters, "model bias is not finite")
	}
	for i := 0; i < n; i++ {
		if !finite(p.Weights[i]) || !finite(p.TrainingMean[i]) || !finite(p.TrainingStd[i]) {
			return apperror.Newf(apperror.InvalidModelParameters, "model parameter %d is not finite", i)
		}
		if p.TrainingStd[i] == 0 {
			return apperror.Newf(apperror.InvalidModelParameters, "training std %d is zero", i)
		}
	}
	return nil
}

// Standardize returns (x - mean) / std elementwise. Callers validate lengths
// and non-zero std first.
func Standardize(x, mean, std []float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		out[i] = (x[i] - mean[i]) / std[i]
	}
	return out
}

// Dot returns the dot product of equal-length a and b.
func Dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Score standardizes x with the model's training statistics and returns
// dot(standardized, weights) + bias.
//
// The feature count is checked against the model before any arithmetic; a
// result that is not finite fails instead of being returned.
func Score(x []float64, p *model.Parameters) (float64, error) {
	if err := Validate(p); err != nil {
		return 0, err
	}
	if len(x) != len(p.Weights) {
		return 0, apperror.Newf(apperror.DimensionMismatch,
			"model expects %d features, got %d", len(p.Weights), len(x))
	}
	for i, v := range x {
		if !finite(v) {
			return 0, apperror.Newf(apperror.InvalidFeatureVector, "feature %d is not finite", i)
		}
	}

	y := Dot(Standardize(x, p.TrainingMean, p.TrainingStd), p.Weights) + p.Bias
	if !finite(y) {
		return 0, apperror.New(apperror.InvalidModelParameters, "prediction is not finite")
	}
	return y, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
