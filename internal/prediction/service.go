// Package prediction turns a feature vector into a price using the latest
// trained model.
package prediction

import (
	"context"

	"winsbygroup.com/priceserver/internal/apperror"
	"winsbygroup.com/priceserver/internal/feature"
	"winsbygroup.com/priceserver/internal/logging"
	"winsbygroup.com/priceserver/internal/model"
	"winsbygroup.com/priceserver/internal/scoring"
)

// ParameterSource returns the model to score with.
type ParameterSource interface {
	Latest(ctx context.Context) (*model.Parameters, error)
}

// Result is the outcome of one prediction.
type Result struct {
	Prediction float64 `json:"prediction"`
}

type Service struct {
	params ParameterSource
}

func NewService(params ParameterSource) *Service {
	return &Service{params: params}
}

// Predict validates v, reads the latest model and scores v against it.
// The vector is checked before the store is touched, so bad input never
// costs a query.
func (s *Service) Predict(ctx context.Context, v *feature.Vector) (*Result, error) {
	log := logging.FromContext(ctx)

	x, err := v.Values()
	if err != nil {
		return nil, err
	}

	p, err := s.params.Latest(ctx)
	if err != nil {
		return nil, err
	}
	log.Debug("scoring", "model_id", p.ID, "trained_at", p.TrainedAt, "features", v.String())

	// The request was already checked against feature.Names, so a width
	// disagreement here is a bad stored model, not bad input.
	if len(p.Weights) != feature.Count {
		return nil, apperror.Newf(apperror.InvalidModelParameters,
			"stored model has %d weights, service scores %d features", len(p.Weights), feature.Count)
	}

	y, err := scoring.Score(x, p)
	if err != nil {
		return nil, err
	}
	return &Result{Prediction: y}, nil
}
