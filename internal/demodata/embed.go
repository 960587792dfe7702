// Package demodata provides a sample trained model for demo deployments.
package demodata

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"winsbygroup.com/priceserver/internal/model"
)

//go:embed sample.json
var sampleJSON embed.FS

// Store is the subset of model.Service used to seed a store.
type Store interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, p *model.Parameters) (*model.Parameters, error)
}

// Sample returns the demo model, a linear fit on the Boston housing data.
func Sample() (*model.Parameters, error) {
	data, err := sampleJSON.ReadFile("sample.json")
	if err != nil {
		return nil, err
	}

	var p model.Parameters
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode sample model: %w", err)
	}
	return &p, nil
}

// Load inserts the demo model when the store holds no model yet and reports
// whether it did. A store that already has a model is left alone.
func Load(ctx context.Context, s Store) (bool, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	p, err := Sample()
	if err != nil {
		return false, err
	}
	if _, err := s.Create(ctx, p); err != nil {
		return false, fmt.Errorf("insert sample model: %w", err)
	}
	return true, nil
}
