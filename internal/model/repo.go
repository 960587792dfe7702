package model

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"winsbygroup.com/priceserver/internal/apperror"
	"winsbygroup.com/priceserver/internal/database"
)

type Repository interface {
	Latest(ctx context.Context) (*Parameters, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, tx *sqlx.Tx, p *Parameters) (int64, error)
}

type repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repository {
	return &repo{db: db}
}

// Latest reads the most recently trained row. Query failures are
// StoreUnavailable, an empty table is NoTrainedModel and a row that cannot be
// decoded is InvalidModelParameters.
func (r *repo) Latest(ctx context.Context) (*Parameters, error) {
	rows, err := r.db.QueryxContext(ctx, latestParametersSQL)
	if err != nil {
		if database.IsUndefinedTable(err) {
			return nil, apperror.Wrap(apperror.StoreUnavailable, "parameter store is not initialized", err)
		}
		return nil, apperror.Wrap(apperror.StoreUnavailable, "parameter store unavailable",
			fmt.Errorf("query latest parameters: %w", err))
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, apperror.Wrap(apperror.StoreUnavailable, "parameter store unavailable",
				fmt.Errorf("read latest parameters: %w", err))
		}
		return nil, apperror.New(apperror.NoTrainedModel, "no trained model available")
	}

	var rec row
	if err := rows.StructScan(&rec); err != nil {
		return nil, apperror.Wrap(apperror.InvalidModelParameters, "stored model parameters are invalid",
			fmt.Errorf("scan latest parameters: %w", err))
	}

	return rec.parameters()
}

func (r *repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, countParametersSQL); err != nil {
		return 0, apperror.Wrap(apperror.StoreUnavailable, "parameter store unavailable",
			fmt.Errorf("count parameters: %w", err))
	}
	return n, nil
}

func (r *repo) Create(ctx context.Context, tx *sqlx.Tx, p *Parameters) (int64, error) {
	var id int64
	err := tx.QueryRowxContext(ctx, tx.Rebind(createParametersSQL),
		Floats(p.Weights),
		p.Bias,
		Floats(p.TrainingMean),
		Floats(p.TrainingStd),
		p.TrainedAt.UTC(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create parameters: %w", err)
	}
	return id, nil
}

func (rec *row) parameters() (*Parameters, error) {
	var nulls []string
	if rec.Weights == nil {
		nulls = append(nulls, "weights")
	}
	if !rec.Bias.Valid {
		nulls = append(nulls, "bias")
	}
	if rec.TrainingMean == nil {
		nulls = append(nulls, "training_mean")
	}
	if rec.TrainingStd == nil {
		nulls = append(nulls, "training_std")
	}
	if len(nulls) > 0 {
		return nil, apperror.Wrap(apperror.InvalidModelParameters, "stored model parameters are invalid",
			fmt.Errorf("model %d has null columns %v", rec.ID, nulls))
	}

	return &Parameters{
		ID:           rec.ID,
		Weights:      rec.Weights,
		Bias:         rec.Bias.Float64,
		TrainingMean: rec.TrainingMean,
		TrainingStd:  rec.TrainingStd,
		TrainedAt:    rec.TrainedAt,
	}, nil
}
