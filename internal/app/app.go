package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/khamseaffan/PartSelectAI/internal/config"
	"github.com/khamseaffan/PartSelectAI/internal/event"
	handler "github.com/khamseaffan/PartSelectAI/internal/handler/http"
	redisstore "github.com/khamseaffan/PartSelectAI/internal/repository/redis"
	"github.com/khamseaffan/PartSelectAI/internal/service"
	"github.com/khamseaffan/PartSelectAI/internal/tool"
	"github.com/khamseaffan/PartSelectAI/pkg/database"
	"github.com/khamseaffan/PartSelectAI/pkg/health"
	pkgkafka "github.com/khamseaffan/PartSelectAI/pkg/kafka"
	"github.com/khamseaffan/PartSelectAI/pkg/middleware"
	"github.com/khamseaffan/PartSelectAI/pkg/tracing"
)

const serviceName = "partselect"

// App wires together all dependencies and runs the assistant backend.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	limiter        *middleware.RateLimiter
	shutdownTracer tracing.ShutdownFunc
	httpServer     *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
//
// Redis being unreachable is not fatal: the store then reports every call as
// unavailable and readiness stays down until the process is restarted.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownTracer, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize Redis client.
	redisCfg := database.DefaultRedisConfig()
	redisCfg.URL = cfg.RedisURL
	rdb, err := database.NewRedisClient(ctx, redisCfg)
	if err != nil {
		logger.Warn("redis unavailable, session storage disabled",
			slog.String("error", err.Error()),
		)
		rdb = nil
	} else {
		logger.Info("connected to Redis", slog.String("url", redactURL(cfg.RedisURL)))
		if err := database.RegisterRedisPoolMetrics(prometheus.DefaultRegisterer, rdb, serviceName); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				logger.Warn("redis pool metrics not registered", slog.String("error", err.Error()))
			}
		}
	}
	database.SetSlowCommandLogging(cfg.RedisSlowCommand, logger)

	breakerCfg := database.DefaultBreakerConfig("redis")
	breakerCfg.MinRequests = cfg.BreakerMinRequests
	breakerCfg.FailureRatio = cfg.BreakerFailureRatio
	breakerCfg.Timeout = cfg.BreakerOpenTimeout
	breakerCfg.IsSuccessful = redisstore.BreakerSuccess
	breaker := database.NewBreaker(breakerCfg, logger)

	store := redisstore.NewStore(rdb, breaker, redisstore.TTLs{
		Session: cfg.SessionTTL(),
		Cart:    cfg.CartTTL(),
		Order:   cfg.OrderTTL(),
	}, logger)

	// Cart events are optional.
	var (
		producer  *pkgkafka.Producer
		publisher service.EventPublisher = event.Noop{}
	)
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = event.NewProducer(producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Build the dependency graph.
	cartService := service.NewCartService(store, publisher, logger, cfg.CheckoutRedirectURL)
	sessionService := service.NewSessionService(store, logger)
	tools := tool.NewRegistry(append(tool.CartTools(cartService), tool.InfoTools()...)...)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", store.Ping)
	if producer != nil {
		healthHandler.RegisterNonCritical("kafka", producer.Ping)
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute)
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSAllowedOrigins
	cors.Environment = cfg.Environment

	// HTTP router.
	router := handler.NewRouter(handler.RouterDeps{
		CartService:    cartService,
		SessionService: sessionService,
		Tools:          tools,
		Health:         healthHandler,
		RateLimiter:    limiter,
		CORS:           cors,
		Logger:         logger,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		producer:       producer,
		limiter:        limiter,
		shutdownTracer: shutdownTracer,
		httpServer:     httpServer,
	}, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
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

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.limiter != nil {
		a.limiter.Stop()
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if err := a.shutdownTracer(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}

// redactURL drops credentials from a connection URL before it is logged.
func redactURL(raw string) string {
	opts, err := redis.ParseURL(raw)
	if err != nil {
		return "invalid"
	}
	return fmt.Sprintf("redis://%s/%d", opts.Addr, opts.DB)
}
