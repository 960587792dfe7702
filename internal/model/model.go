package model

import (
	"database/sql"
	"time"
)

// Parameters is one trained linear model. Weights, TrainingMean and
// TrainingStd are indexed in feature.Names order.
type Parameters struct {
	ID           int64     `json:"id"`
	Weights      []float64 `json:"weights"`
	Bias         float64   `json:"bias"`
	TrainingMean []float64 `json:"training_mean"`
	TrainingStd  []float64 `json:"training_std"`
	TrainedAt    time.Time `json:"trained_at"`
}

// row mirrors the model_params table; nullable columns are checked before
// they become Parameters.
type row struct {
	ID           int64           `db:"id"`
	Weights      Floats          `db:"weights"`
	Bias         sql.NullFloat64 `db:"bias"`
	TrainingMean Floats          `db:"training_mean"`
	TrainingStd  Floats          `db:"training_std"`
	TrainedAt    time.Time       `db:"trained_at"`
}
