// Package app wires configuration, infrastructure and the review service into a running server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Ramsey-B/reed/config"
	"github.com/Ramsey-B/reed/internal/repositories/billrun"
	"github.com/Ramsey-B/reed/internal/repositories/licence"
	"github.com/Ramsey-B/reed/internal/repositories/reviewchargeelementresult"
	"github.com/Ramsey-B/reed/internal/repositories/reviewresult"
	"github.com/Ramsey-B/reed/internal/repositories/reviewreturnresult"
	reviewservice "github.com/Ramsey-B/reed/internal/services/review"
	"github.com/Ramsey-B/reed/pkg/database"
	"github.com/Ramsey-B/reed/pkg/health"
	"github.com/Ramsey-B/reed/pkg/kafka"
	"github.com/Ramsey-B/reed/pkg/metrics"
	"github.com/Ramsey-B/reed/pkg/middleware"
	"github.com/Ramsey-B/reed/pkg/redis"
	"github.com/Ramsey-B/reed/pkg/review"
	reviewroutes "github.com/Ramsey-B/reed/pkg/routes/review"
	"github.com/Ramsey-B/reed/pkg/startup"
	"github.com/Ramsey-B/reed/pkg/tracing"
	"github.com/Ramsey-B/reed/pkg/tracing/exporters"
)

const (
	depTracing  = "tracing"
	depPostgres = "postgres"
	depRedis    = "redis"
	depKafka    = "kafka"
	depHTTP     = "http"
)

type App struct {
	cfg      *config.Config
	logger   ectologger.Logger
	startup  *startup.Startup
	health   *health.Checker
	echo     *echo.Echo
	provider *sdktrace.TracerProvider
	db       database.DB
	redis    *redis.Client
	producer *kafka.Producer
	serveErr chan error
}

func New(cfg *config.Config, logger ectologger.Logger) *App {
	a := &App{
		cfg:      cfg,
		logger:   logger,
		startup:  startup.NewStartup(logger, cfg.StartupMaxAttempts),
		health:   health.NewChecker(cfg.Version),
		serveErr: make(chan error, 1),
	}

	a.startup.AddDependency(startup.Func{Name: depTracing, StartFunc: a.startTracing, StopFunc: a.stopTracing})
	a.startup.AddDependency(startup.Func{Name: depPostgres, StartFunc: a.startPostgres, StopFunc: a.stopPostgres})

	httpRequires := []string{depTracing, depPostgres}
	if cfg.RedisEnabled {
		a.startup.AddDependency(startup.Func{Name: depRedis, StartFunc: a.startRedis, StopFunc: a.stopRedis})
		httpRequires = append(httpRequires, depRedis)
	}
	if cfg.KafkaEnabled {
		a.startup.AddDependency(startup.Func{Name: depKafka, StartFunc: a.startKafka, StopFunc: a.stopKafka})
		httpRequires = append(httpRequires, depKafka)
	}
	a.startup.AddDependency(startup.Func{Name: depHTTP, Requires: httpRequires, StartFunc: a.startHTTP, StopFunc: a.stopHTTP})

	return a
}

// Run starts every dependency and blocks until ctx is cancelled or the server fails
func (a *App) Run(ctx context.Context) error {
	if err := a.startup.Start(ctx); err != nil {
		a.shutdown()
		return err
	}
	a.health.SetReady(true)
	a.logger.Infof("%s listening on :%d", a.cfg.AppName, a.cfg.Port)

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-a.serveErr:
	}

	a.health.SetReady(false)
	if err := a.shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(a.cfg.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	return a.startup.Stop(ctx)
}

func (a *App) startTracing(ctx context.Context) error {
	exporter, err := exporters.New(ctx, a.cfg.OTLP(), a.logger)
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}
	a.provider = tracing.NewProvider(a.cfg.AppName, exporter)
	return nil
}

func (a *App) stopTracing(ctx context.Context) error {
	return tracing.Shutdown(ctx, a.provider)
}

func (a *App) startPostgres(ctx context.Context) error {
	db, err := database.Connect(ctx, a.cfg.Database(), a.logger)
	if err != nil {
		return err
	}

	if a.cfg.DatabaseMigrateOnStartup {
		migrations := database.NewMigrationService(a.logger, a.cfg.Migration())
		if err := migrations.MigratePostgres(db, a.cfg.DatabaseName); err != nil {
			_ = db.Close()
			return err
		}
	}

	a.db = db
	a.health.AddCheck(depPostgres, health.PingFunc(db.PingContext), true)
	return nil
}

func (a *App) stopPostgres(context.Context) error {
	return a.db.Close()
}

func (a *App) startRedis(ctx context.Context) error {
	client := redis.NewClient(a.cfg.Redis(), a.logger)
	if err := client.Connect(ctx); err != nil {
		_ = client.Close()
		return err
	}

	a.redis = client
	a.health.AddCheck(depRedis, client, false)
	return nil
}

func (a *App) stopRedis(context.Context) error {
	return a.redis.Close()
}

func (a *App) startKafka(context.Context) error {
	a.producer = kafka.NewProducer(a.cfg.Kafka(), a.logger)
	return nil
}

func (a *App) stopKafka(context.Context) error {
	return a.producer.Close()
}

// Service builds the review service from the started dependencies
func (a *App) Service() *reviewservice.Service {
	batchSize := a.cfg.DatabaseInsertBatchSize
	deps := reviewservice.Dependencies{
		Logger: a.logger,
		Transactor: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return database.WithTx(ctx, a.db, fn)
		},
		ReviewResults:              reviewresult.NewRepository(a.db, a.logger, batchSize),
		ReviewChargeElementResults: reviewchargeelementresult.NewRepository(a.db, a.logger, batchSize),
		ReviewReturnResults:        reviewreturnresult.NewRepository(a.db, a.logger, batchSize),
		BillRuns:                   billrun.NewRepository(a.db, a.logger),
		Licences:                   licence.NewRepository(a.db, a.logger),
		Builder:                    review.NewBuilder(),
		Metrics:                    metrics.Prometheus{},
	}

	if a.redis != nil {
		deps.Cache = redis.NewReviewCache(a.redis, a.cfg.ReviewCacheTTL(), a.logger)
	}
	if a.producer != nil {
		deps.Publisher = a.producer
	}

	return reviewservice.NewService(deps)
}

// Router builds the echo instance with middleware and routes
func (a *App) Router(service reviewroutes.Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.Error(a.logger)

	e.Use(echomiddleware.Recover())
	e.Use(otelecho.Middleware(a.cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(a.logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: a.cfg.AllowOrigins,
		AllowMethods: a.cfg.AllowMethods,
	}))
	e.Use(echomiddleware.BodyLimit(a.cfg.MaxBodySize))

	a.health.Register(e.Group("/health"))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	reviewroutes.NewHandler(service).Register(e.Group("/bill-runs"))

	return e
}

func (a *App) startHTTP(context.Context) error {
	a.echo = a.Router(a.Service())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Port),
		ReadTimeout:       time.Duration(a.cfg.HttpServerReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(a.cfg.HttpServerWriteTimeoutSeconds) * time.Second,
		IdleTimeout:       time.Duration(a.cfg.HttpServerIdleTimeoutSeconds) * time.Second,
		ReadHeaderTimeout: time.Duration(a.cfg.ReadHeaderTimeoutSeconds) * time.Second,
		MaxHeaderBytes:    a.cfg.MaxHeaderBytes,
	}

	go func() {
		if err := a.echo.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.WithError(err).Error("HTTP server stopped")
			a.serveErr <- err
		}
	}()
	return nil
}

func (a *App) stopHTTP(ctx context.Context) error {
	return a.echo.Shutdown(ctx)
}
