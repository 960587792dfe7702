package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"winsbygroup.com/priceserver/internal/apperror"
	"winsbygroup.com/priceserver/internal/feature"
	"winsbygroup.com/priceserver/internal/logging"
	"winsbygroup.com/priceserver/internal/prediction"
)

type Handler struct {
	PredictionService *prediction.Service
}

func NewHandler(p *prediction.Service) *Handler {
	return &Handler{
		PredictionService: p,
	}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// GET /
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Successful",
	})
}

// POST /predict
func (h *Handler) Predict(c echo.Context) error {
	v, err := feature.Decode(c.Request().Body)
	if err != nil {
		return respondError(c, err)
	}

	res, err := h.PredictionService.Predict(c.Request().Context(), v)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, res)
}

// respondError maps err to its status and public message. The cause is
// only logged, at debug level.
func respondError(c echo.Context, err error) error {
	log := logging.FromContext(c.Request().Context())

	var ae *apperror.Error
	if !errors.As(err, &ae) {
		log.Error("unclassified error", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "internal server error"})
	}

	status := ae.Kind.Status()
	log.Debug("request failed", "kind", ae.Kind, "status", status, "error", err)
	if status >= http.StatusInternalServerError {
		log.Warn("prediction unavailable", "kind", ae.Kind)
	}
	return c.JSON(status, ErrorResponse{Detail: ae.Message})
}

// HTTPErrorHandler renders echo's own errors (unknown route, wrong method,
// recovered panics) in the same {"detail": ...} shape as handler errors.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok {
			msg = s
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(he.Code)
			return
		}
		_ = c.JSON(he.Code, ErrorResponse{Detail: msg})
		return
	}

	_ = respondError(c, err)
}
