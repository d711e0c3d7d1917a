package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tidepool-org/vitals/chart"
	"github.com/tidepool-org/vitals/config"
	"github.com/tidepool-org/vitals/dashboard"
	"github.com/tidepool-org/vitals/logger"
	"github.com/tidepool-org/vitals/source"
)

func NewConfig() (*config.Config, error) {
	cfg := config.New()
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Start(e *echo.Echo, cfg *config.Config, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			address := fmt.Sprintf(":%d", cfg.HttpPort)
			go func() {
				logger.Infow("starting http server", "address", address)
				if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Errorw("http server stopped unexpectedly", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cfg.ShutdownTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.ShutdownTimeout)
				defer cancel()
			}
			return e.Shutdown(ctx)
		},
	})
}

// RunInitialCycle refreshes the dashboard once on start. A failed fetch does not prevent
// the service from starting; its notice is shown until the next successful refresh.
func RunInitialCycle(driver *dashboard.Driver, healthCheck *HealthCheck, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if _, err := driver.Run(ctx); err != nil {
				logger.Warnw("initial refresh cycle failed", "error", err)
			}

			// Hooks run in the order they were appended so the server was started first
			healthCheck.SetReady(true)
			return nil
		},
	})
}

// Dependencies returns the options shared by the service and the command line tools. The
// dashboard presenter must be supplied by the caller.
func Dependencies() []fx.Option {
	return []fx.Option{
		fx.Provide(
			logger.NewProductionLogger,
			logger.Suggar,
			NewConfig,
			source.NewConfig,
			source.NewCredentials,
			source.NewClient,
			chart.NewConfig,
			chart.NewSVGRenderer,
			chart.NewSlot,
			dashboard.NewConfig,
			dashboard.NewDriver,
			NewHealthCheck,
			NewHandler,
			NewServer,
		),
	}
}

func MainLoop() {
	fx.New(
		append(Dependencies(),
			fx.Provide(
				dashboard.NewView,
				func(view *dashboard.View) dashboard.Presenter { return view },
			),
			fx.Invoke(Start),
			fx.Invoke(RunInitialCycle),
		)...,
	).Run()
}
