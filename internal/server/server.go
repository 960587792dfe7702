package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"

	mwecho "github.com/labstack/echo/v4/middleware"
	mwsvc "winsbygroup.com/priceserver/internal/middleware"

	"winsbygroup.com/priceserver/internal/config"
	"winsbygroup.com/priceserver/internal/database"
	"winsbygroup.com/priceserver/internal/demodata"
	"winsbygroup.com/priceserver/internal/model"
	"winsbygroup.com/priceserver/internal/prediction"

	apihttp "winsbygroup.com/priceserver/internal/http/api"
)

type Server struct {
	Echo *echo.Echo
	HTTP *http.Server
	DB   *sqlx.DB
}

func Build(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Server, error) {
	//
	// Database
	//
	log.Info("opening parameter store", "driver", cfg.DB.Driver, "dsn", cfg.DB.Redacted())
	db, err := database.Open(cfg.DB)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := database.RunMigrations(db.DB, cfg.DB.Driver); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	//
	// Domain services
	//
	modelSvc := model.NewService(db, cfg.QueryTimeout)
	predictionSvc := prediction.NewService(modelSvc)

	// Load demo model if requested and the store has none
	if cfg.DemoMode {
		loaded, err := demodata.Load(ctx, modelSvc)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to load demo data: %w", err)
		}
		if loaded {
			log.Info("demo model loaded")
		}
	}

	//
	// Handlers
	//
	apiHandler := apihttp.NewHandler(predictionSvc)

	//
	// Echo
	//
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apihttp.HTTPErrorHandler

	// Middleware
	e.Use(mwecho.RequestIDWithConfig(mwecho.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(mwsvc.RequestLogger(log))
	e.Use(mwecho.RequestLoggerWithConfig(mwecho.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v mwecho.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			log.Info("request", attrs...)
			return nil
		},
	}))
	e.Use(mwecho.Recover())
	e.Use(mwsvc.Version())

	// Health endpoints
	e.GET("/livez", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	e.GET("/readyz", func(c echo.Context) error {
		ctx := c.Request().Context()
		if cfg.QueryTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.QueryTimeout)
			defer cancel()
		}
		if err := db.PingContext(ctx); err != nil {
			return c.String(http.StatusServiceUnavailable, "DB not ready")
		}
		return c.String(http.StatusOK, "Ready")
	})

	// Prediction API
	apihttp.RegisterRoutes(e.Group(""), apiHandler)

	//
	// HTTP server
	//
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      e,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &Server{
		Echo: e,
		HTTP: srv,
		DB:   db,
	}, nil
}
