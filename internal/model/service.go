package model

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type Service struct {
	repo    Repository
	db      *sqlx.DB
	timeout time.Duration
}

// NewService returns a Service whose reads are bounded by timeout.
// A zero timeout leaves reads bounded only by the caller's context.
func NewService(db *sqlx.DB, timeout time.Duration) *Service {
	return &Service{
		db:      db,
		repo:    New(db),
		timeout: timeout,
	}
}

func (s *Service) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Latest returns the most recently trained model parameters.
func (s *Service) Latest(ctx context.Context) (*Parameters, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.repo.Latest(ctx)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Create stores a trained model. The request path never writes; this is
// used to seed demo and test stores.
func (s *Service) Create(ctx context.Context, p *Parameters) (*Parameters, error) {
	created := *p
	if created.TrainedAt.IsZero() {
		created.TrainedAt = time.Now()
	}

	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		created.ID, err = s.repo.Create(ctx, tx, &created)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}
