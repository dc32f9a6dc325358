package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/prathmeshnaik91/skinet/internal/auth"
	"github.com/prathmeshnaik91/skinet/internal/config"
	"github.com/prathmeshnaik91/skinet/internal/domain"
	"github.com/prathmeshnaik91/skinet/internal/event"
	handler "github.com/prathmeshnaik91/skinet/internal/handler/http"
	"github.com/prathmeshnaik91/skinet/internal/repository/postgres"
	redisrepo "github.com/prathmeshnaik91/skinet/internal/repository/redis"
	"github.com/prathmeshnaik91/skinet/internal/seed"
	"github.com/prathmeshnaik91/skinet/internal/service"
	"github.com/prathmeshnaik91/skinet/migrations"
	"github.com/prathmeshnaik91/skinet/pkg/database"
	"github.com/prathmeshnaik91/skinet/pkg/health"
	pkgkafka "github.com/prathmeshnaik91/skinet/pkg/kafka"
	"github.com/prathmeshnaik91/skinet/pkg/middleware"
	"github.com/prathmeshnaik91/skinet/pkg/tracing"
)

// Options control the startup steps that touch the schema.
type Options struct {
	Migrate bool
	Seed    bool
}

// App wires together all dependencies and runs the store API.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	rdb            *redis.Client
	publisher      pkgkafka.Publisher
	httpServer     *http.Server
	tracerShutdown tracing.ShutdownFunc
}

// Startup steps that tests replace.
var (
	initTracer   = tracing.Init
	openPostgres = OpenPostgres
)

// NewApp creates a new application instance, initializing all dependencies.
// When a step fails, everything acquired before it is released.
func NewApp(cfg *config.Config, logger *slog.Logger, opts Options) (_ *App, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	undo := &cleanup{logger: logger}
	defer func() {
		if err != nil {
			undo.run()
		}
	}()

	tracerShutdown, err := initTracer(ctx, cfg.Tracing())
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	undo.add("tracer", tracerShutdown)

	pool, err := openPostgres(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	undo.add("postgres", func(context.Context) error {
		pool.Close()
		return nil
	})
	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, config.ServiceName); err != nil {
		logger.Warn("pool metrics not registered", slog.String("error", err.Error()))
	}

	if opts.Migrate {
		if err = database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("database migrations completed")
	}
	if opts.Seed {
		if err = SeedCatalog(ctx, pool, logger); err != nil {
			return nil, err
		}
	}

	db, err := database.OpenGorm(pool, logger, cfg.SlowQueryThreshold())
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}

	rdb, err := database.NewRedisClient(ctx, cfg.Redis(), logger)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	undo.add("redis", func(context.Context) error { return rdb.Close() })
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	var (
		publisher pkgkafka.Publisher = pkgkafka.NoopPublisher{}
		producer  *pkgkafka.Producer
	)
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = producer
		undo.add("kafka", func(context.Context) error { return producer.Close() })
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Build the dependency graph.
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiry)
	catalog := service.NewCatalogService(
		postgres.NewRepository[domain.Product](db),
		postgres.NewRepository[domain.ProductBrand](db),
		postgres.NewRepository[domain.ProductType](db),
		cfg.APIURL,
		logger,
	)
	baskets := service.NewBasketService(
		redisrepo.NewBasketRepository(rdb, cfg.BasketTTL()),
		event.NewProducer(publisher, logger),
		logger,
	)
	accounts := service.NewAccountService(
		postgres.NewRepository[domain.AppUser](db),
		postgres.NewRepository[domain.Address](db),
		tokens,
		logger,
	)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterCritical("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	if producer != nil {
		healthHandler.RegisterNonCritical("kafka", producer.Ping)
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins

	router := handler.NewRouter(
		handler.Services{Catalog: catalog, Basket: baskets, Account: accounts},
		healthHandler,
		handler.RouterConfig{
			ServiceName:        config.ServiceName,
			Logger:             logger,
			ExposeErrorDetails: cfg.IsDevelopment(),
			CORS:               corsCfg,
			PprofCIDRs:         cfg.PprofAllowedCIDRs,
			ResponseCache:      redisrepo.NewResponseCache(rdb),
			ResponseCacheTTL:   cfg.ResponseCacheTTL(),
			TokenValidator:     tokens.Validator(),
			AuthRateLimit:      cfg.AuthRateLimit(),
		},
	)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		rdb:            rdb,
		publisher:      publisher,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
			slog.String("version", config.Version),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown stops components in dependency order: HTTP first so in-flight
// requests drain, then the tracer so their spans flush, then the clients.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer tracerCancel()
	if err := a.tracerShutdown(tracerCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.publisher.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// OpenPostgres connects to the configured database.
func OpenPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	return pool, nil
}

// SeedCatalog loads the embedded demo catalog into empty tables.
func SeedCatalog(ctx context.Context, db seed.DB, logger *slog.Logger) error {
	catalog, err := seed.LoadCatalog()
	if err != nil {
		return err
	}
	if err := seed.Seed(ctx, db, catalog, logger); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	return nil
}
