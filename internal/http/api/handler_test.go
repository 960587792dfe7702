package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"

	"winsbygroup.com/priceserver/internal/config"
	"winsbygroup.com/priceserver/internal/database"
	"winsbygroup.com/priceserver/internal/http/api"
	"winsbygroup.com/priceserver/internal/model"
	"winsbygroup.com/priceserver/internal/prediction"
	"winsbygroup.com/priceserver/internal/testutil"
)

const zeroFeatures = `{
	"crim": 3, "zn": 0, "indus": 0, "chas": 0, "nox": 0, "rm": 0, "age": 0,
	"dis": 0, "rad": 0, "tax": 0, "ptratio": 0, "b": 0, "lstat": 0
}`

func newHandler(db *sqlx.DB) *api.Handler {
	return api.NewHandler(prediction.NewService(model.NewService(db, time.Second)))
}

func seed(t *testing.T, db *sqlx.DB, std float64) {
	t.Helper()
	w := make([]float64, 13)
	w[0] = 1
	mean := make([]float64, 13)
	sd := make([]float64, 13)
	for i := range sd {
		sd[i] = 1
	}
	sd[12] = std

	_, err := model.NewService(db, time.Second).Create(context.Background(), &model.Parameters{
		Weights:      w,
		Bias:         5,
		TrainingMean: mean,
		TrainingStd:  sd,
	})
	if err != nil {
		t.Fatalf("seed model: %v", err)
	}
}

func post(t *testing.T, h *api.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Predict(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp api.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal error response: %v (%s)", err, rec.Body.String())
	}
	return resp.Detail
}

func TestHealth(t *testing.T) {
	// a handler with no store at all still reports healthy
	h := api.NewHandler(nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Health(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["message"] != "Successful" {
		t.Errorf("expected message %q, got %q", "Successful", resp["message"])
	}
}

func TestPredict(t *testing.T) {
	db := testutil.NewTestDB(t)
	h := newHandler(db)

	t.Run("returns 503 when no model is trained", func(t *testing.T) {
		rec := post(t, h, zeroFeatures)

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
		}
		if got := detail(t, rec); got != "no trained model available" {
			t.Errorf("unexpected detail %q", got)
		}
		if strings.Contains(rec.Body.String(), "prediction") {
			t.Errorf("error response must not carry a prediction: %s", rec.Body.String())
		}
	})

	seed(t, db, 1)

	t.Run("returns 201 with prediction", func(t *testing.T) {
		rec := post(t, h, zeroFeatures)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d (%s)", http.StatusCreated, rec.Code, rec.Body.String())
		}

		var resp prediction.Result
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if resp.Prediction != 8 {
			t.Errorf("expected prediction 8, got %v", resp.Prediction)
		}
	})

	t.Run("returns 400 for missing feature", func(t *testing.T) {
		rec := post(t, h, `{"crim": 3, "zn": 0, "lstat": null}`)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
		if got := detail(t, rec); !strings.Contains(got, "lstat") || !strings.Contains(got, "missing") {
			t.Errorf("expected detail naming missing lstat, got %q", got)
		}
	})

	t.Run("returns 400 for malformed body", func(t *testing.T) {
		rec := post(t, h, `{"crim": `)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
		if got := detail(t, rec); strings.Contains(got, "unexpected EOF") {
			t.Errorf("detail must not leak decoder error, got %q", got)
		}
	})

	t.Run("returns 422 for extra feature", func(t *testing.T) {
		body := strings.Replace(zeroFeatures, `"crim": 3,`, `"crim": 3, "garage": 1,`, 1)
		rec := post(t, h, body)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, rec.Code)
		}
		if got := detail(t, rec); !strings.Contains(got, "garage") {
			t.Errorf("expected detail naming garage, got %q", got)
		}
	})
}

func TestPredictZeroStdModel(t *testing.T) {
	db := testutil.NewTestDB(t)
	seed(t, db, 0)

	rec := post(t, newHandler(db), zeroFeatures)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
	if got := detail(t, rec); !strings.Contains(got, "std") {
		t.Errorf("expected detail about std, got %q", got)
	}
}

func TestPredictShortStoredModel(t *testing.T) {
	db := testutil.NewTestDB(t)

	w := make([]float64, 12)
	mean := make([]float64, 12)
	sd := make([]float64, 12)
	for i := range sd {
		sd[i] = 1
	}
	_, err := model.NewService(db, time.Second).Create(context.Background(), &model.Parameters{
		Weights:      w,
		Bias:         1,
		TrainingMean: mean,
		TrainingStd:  sd,
	})
	if err != nil {
		t.Fatalf("seed model: %v", err)
	}

	rec := post(t, newHandler(db), zeroFeatures)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d (%s)", http.StatusInternalServerError, rec.Code, rec.Body.String())
	}
}

func TestPredictTrailingData(t *testing.T) {
	db := testutil.NewTestDB(t)
	seed(t, db, 1)

	rec := post(t, newHandler(db), zeroFeatures+` trailing`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d (%s)", http.StatusBadRequest, rec.Code, rec.Body.String())
	}
}

func TestPredictStoreNotInitialized(t *testing.T) {
	db, err := database.Open(config.DB{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "bare.db")})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	rec := post(t, newHandler(db), zeroFeatures)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
	if got := detail(t, rec); strings.Contains(got, "no such table") {
		t.Errorf("detail must not leak driver error, got %q", got)
	}
}

func TestHTTPErrorHandler(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = api.HTTPErrorHandler
	api.RegisterRoutes(e.Group(""), api.NewHandler(nil))

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/nope", http.StatusNotFound},
		{http.MethodGet, "/predict", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, rec.Code)
			}
			if detail(t, rec) == "" {
				t.Error("expected a detail message")
			}
		})
	}
}
