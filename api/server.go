package api

import (
	"fmt"

	"github.com/brpaz/echozap"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echomiddleware "github.com/oapi-codegen/echo-middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/tidepool-org/vitals/config"
	errs "github.com/tidepool-org/vitals/errors"
)

func NewServer(handler *Handler, healthCheck *HealthCheck, cfg *config.Config, logger *zap.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = JSONSerializer{}

	swagger, err := GetSwagger()
	if err != nil {
		return nil, err
	}

	// Do not validate servers in the openapi document
	swagger.Servers = nil

	// Only the versioned routes are described in the openapi document
	requestValidator := echomiddleware.OapiRequestValidatorWithOptions(swagger, &echomiddleware.Options{
		Skipper: PrefixSkipper("/v1/"),
	})

	// Skip logging for readiness probe
	loggerMiddleware := WithSkipper(echozap.ZapLogger(logger), RouteSkipper([]string{"/ready"}))

	refreshLimiter := middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		// A zero burst would deny every request when the rate is below one per second
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:  rate.Limit(cfg.RefreshRate),
			Burst: max(cfg.RefreshBurst, 1),
		}),
		DenyHandler: func(ec echo.Context, identifier string, err error) error {
			return fmt.Errorf("%w: refresh rate exceeded for %s", errs.TooManyRequests, identifier)
		},
	})

	e.Use(middleware.Recover())
	e.Use(loggerMiddleware)
	e.Use(requestValidator)

	e.HTTPErrorHandler = errs.CustomHTTPErrorHandler

	e.GET("/ready", healthCheck.Ready)
	e.GET("/", handler.Dashboard)
	e.GET("/chart.svg", handler.Chart)
	e.POST("/v1/refresh", handler.Refresh, refreshLimiter)
	e.GET("/v1/snapshot", handler.GetSnapshot)
	e.GET("/v1/vitals", handler.ExportVitals)

	return e, nil
}
