package demodata_test

import (
	"context"
	"testing"
	"time"

	"winsbygroup.com/priceserver/internal/demodata"
	"winsbygroup.com/priceserver/internal/feature"
	"winsbygroup.com/priceserver/internal/model"
	"winsbygroup.com/priceserver/internal/scoring"
	"winsbygroup.com/priceserver/internal/testutil"
)

func TestSampleIsScorable(t *testing.T) {
	p, err := demodata.Sample()
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if len(p.Weights) != feature.Count {
		t.Fatalf("expected %d weights, got %d", feature.Count, len(p.Weights))
	}
	if err := scoring.Validate(p); err != nil {
		t.Fatalf("sample model invalid: %v", err)
	}

	// first row of the Boston housing data, actual price 24.0
	x := []float64{0.00632, 18, 2.31, 0.538, 6.575, 65.2, 4.09, 1, 296, 15.3, 396.9, 4.98, 0}
	y, err := scoring.Score(x, p)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if y < 20 || y > 35 {
		t.Errorf("expected a plausible price, got %v", y)
	}
}

// TestDemoDataNotLoadedOnExistingModel verifies that demo data is only
// loaded into a store that has no model yet.
func TestDemoDataNotLoadedOnExistingModel(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	svc := model.NewService(db, time.Second)

	existing := &model.Parameters{
		Weights:      []float64{1},
		Bias:         99,
		TrainingMean: []float64{0},
		TrainingStd:  []float64{1},
		TrainedAt:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if _, err := svc.Create(ctx, existing); err != nil {
		t.Fatalf("insert existing model: %v", err)
	}

	loaded, err := demodata.Load(ctx, svc)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded {
		t.Fatal("expected demo data to be skipped on a store with a model")
	}

	latest, err := svc.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.Bias != 99 {
		t.Errorf("expected existing model to remain latest, got bias %v", latest.Bias)
	}
}

func TestDemoDataLoadedOnEmptyStore(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	svc := model.NewService(db, time.Second)

	loaded, err := demodata.Load(ctx, svc)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded {
		t.Fatal("expected demo data to load on empty store")
	}

	// second call is a no-op
	loaded, err = demodata.Load(ctx, svc)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if loaded {
		t.Error("expected second load to be skipped")
	}

	n, err := svc.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 model, got %d", n)
	}
}
