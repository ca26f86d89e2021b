// Package app assembles the API process with fx.
package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/config"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/scheduler"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/service"
	transport "github.com/njprem/Travel_planner_APP_BackEnd/internal/transport/http"
)

const swaggerSpecPath = "docs/swagger.yaml"

func New() *fx.App {
	return fx.New(
		InfraModule,
		RepositoryModule,
		ServiceModule,
		fx.Provide(provideRouter, provideScheduler),
		fx.Invoke(startServer, startScheduler),
		fx.WithLogger(func(log logrus.FieldLogger) fxevent.Logger {
			return &fxLogger{log: log.WithField("component", "fx")}
		}),
	)
}

type routerParams struct {
	fx.In

	Config       config.Config
	Log          logrus.FieldLogger
	Auth         *service.AuthService
	Destinations *service.DestinationService
	Photos       *service.PhotoService
	Proposals    *service.ProposalService
	Trips        *service.TripService
	Hunts        *service.TreasureHuntService
	Reference    *service.ReferenceService
}

func provideRouter(p routerParams) *echo.Echo {
	e := transport.NewRouter(transport.RouterConfig{
		AllowOrigins:       p.Config.AllowOrigins,
		RateLimitPerSecond: p.Config.RateLimitPerSecond,
		RateLimitBurst:     p.Config.RateLimitBurst,
		Logger:             p.Log,
	})
	transport.RegisterSwagger(e, swaggerSpecPath, p.Log)

	api := e.Group("/api/v1")
	transport.RegisterAuth(api, p.Auth)
	transport.RegisterDestinations(api, p.Auth, p.Destinations, p.Reference)
	transport.RegisterPhotos(api, p.Auth, p.Photos)
	transport.RegisterProposals(api, p.Auth, p.Proposals)
	transport.RegisterTrips(api, p.Auth, p.Trips)
	transport.RegisterTreasureHunts(api, p.Auth, p.Hunts)
	return e
}

func provideScheduler(cfg config.Config, log logrus.FieldLogger, lifecycle *service.LifecycleManager, reference *service.ReferenceService) *scheduler.Scheduler {
	return scheduler.New(log,
		scheduler.Job{
			Name:         "purge-soft-deleted",
			InitialDelay: cfg.PurgeInitialDelay,
			Interval:     cfg.PurgeInterval,
			Run: func(ctx context.Context) error {
				report := lifecycle.PurgeSweep(ctx)
				if n := report.Failed(); n > 0 {
					log.WithField("failed", n).Warn("purge sweep left records for the next run")
				}
				return nil
			},
		},
		scheduler.Job{
			Name:     "sync-countries",
			Interval: cfg.CountrySyncInterval,
			Run: func(ctx context.Context) error {
				_, err := reference.SyncCountries(ctx)
				return err
			},
		},
	)
}

func startServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, e *echo.Echo, cfg config.Config, log logrus.FieldLogger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.WithField("port", cfg.Port).Info("starting HTTP server")
				if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.WithError(err).Error("HTTP server stopped")
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			return e.Shutdown(ctx)
		},
	})
}

func startScheduler(lc fx.Lifecycle, s *scheduler.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.Start(context.Background())
			return nil
		},
		OnStop: func(context.Context) error {
			s.Stop()
			return nil
		},
	})
}
