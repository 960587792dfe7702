package api

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes wires the prediction endpoints under the given Echo group.
func RegisterRoutes(g *echo.Group, h *Handler) {

	// Health check (always succeeds, independent of the store)
	g.GET("/", h.Health)

	// Price prediction from a feature vector
	g.POST("/predict", h.Predict)
}
