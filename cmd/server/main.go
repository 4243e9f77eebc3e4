package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/zeroedbooks/ledger/internal/adapter/http"
	"github.com/zeroedbooks/ledger/internal/adapter/http/handler"
	"github.com/zeroedbooks/ledger/internal/adapter/http/middleware"
	postgresRepo "github.com/zeroedbooks/ledger/internal/adapter/repository/postgres"
	redisRepo "github.com/zeroedbooks/ledger/internal/adapter/repository/redis"
	"github.com/zeroedbooks/ledger/internal/infrastructure/auth"
	"github.com/zeroedbooks/ledger/internal/infrastructure/config"
	"github.com/zeroedbooks/ledger/internal/infrastructure/eventpublisher"
	"github.com/zeroedbooks/ledger/internal/infrastructure/logger"
	"github.com/zeroedbooks/ledger/internal/infrastructure/metrics"
	"github.com/zeroedbooks/ledger/internal/infrastructure/postgres"
	"github.com/zeroedbooks/ledger/internal/infrastructure/redis"
	"github.com/zeroedbooks/ledger/internal/usecase"
)

const rateLimitIdle = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logg := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "ledger"})
	logger.SetDefault(logg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(logg.WithContext(ctx), cfg, logg); err != nil {
		logg.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg zerolog.Logger) error {
	if err := postgres.RunMigrations(cfg.DatabaseURL, logg); err != nil {
		return err
	}

	pool, err := postgres.Open(ctx, poolConfig(cfg, cfg.DatabaseURL))
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	logg.Info().Msg("connected to postgres")

	// Reports and suggestions tolerate replica lag; transaction reads do not.
	reader := pool
	if cfg.DatabaseReplicaURL != "" {
		replica, err := postgres.Open(ctx, replicaPoolConfig(cfg))
		if err != nil {
			return fmt.Errorf("connect to postgres replica: %w", err)
		}
		defer replica.Close()

		reader = replica
		logg.Info().Msg("connected to postgres replica")
	}

	redisClient, err := redis.Connect(ctx, redis.Options{URL: cfg.RedisURL})
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	logg.Info().Msg("connected to redis")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(reader)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	reportRepo := postgresRepo.NewReportRepository(reader)
	currencyRepo := redisRepo.NewCurrencyCache(redisClient, postgresRepo.NewCurrencyRepository(pool), cfg.CurrencyCacheTTL)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	var outboxRepo usecase.OutboxRepository = postgresRepo.NewNullOutboxRepository()
	if cfg.OutboxEnabled {
		outboxRepo = postgresRepo.NewOutboxRepository(pool)
	}

	// Use cases
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, idGen, m)
	transactionUC := usecase.NewTransactionUseCase(txManager, transactionRepo, currencyRepo, outboxRepo, accountUC, idGen, m)
	balanceUC := usecase.NewBalanceUseCase(reportRepo)
	currencyUC := usecase.NewCurrencyUseCase(currencyRepo)

	retrier := postgresRepo.NewRetrier().OnRetry(m.StorageRetries.Inc)

	health := handler.NewHealthHandler().
		With("postgres", pool).
		With("redis", handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}))

	routerCfg := httpAdapter.RouterConfig{
		TransactionHandler: handler.NewTransactionHandler(transactionUC, retrier),
		AccountHandler:     handler.NewAccountHandler(accountUC, balanceUC, retrier),
		CurrencyHandler:    handler.NewCurrencyHandler(currencyUC, retrier),
		HealthHandler:      health,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		Metrics:            m,
		Gatherer:           reg,
		AllowedOrigins:     cfg.CORSAllowedOrigins,
		Logger:             logg,
		RequestTimeout:     cfg.HTTPWriteTimeout,
	}

	if cfg.AuthEnabled {
		routerCfg.TokenVerifier = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	if limiter := newRateLimiter(cfg, m); limiter != nil {
		routerCfg.RateLimiter = limiter
		go limiter.RunCleanup(ctx, rateLimitIdle)
	}

	if cfg.OutboxEnabled {
		publisher, closePublisher := newPublisher(cfg)
		defer closePublisher()

		relay := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  publisher,
			Metrics:    m,
			BatchSize:  cfg.OutboxBatchSize,
			Interval:   cfg.OutboxInterval,
			Retention:  cfg.OutboxRetention,
		})

		go func() {
			if err := relay.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error().Err(err).Msg("event publisher stopped")
			}
		}()
	}

	server := &http.Server{
		Addr:         listenAddr(cfg),
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
		BaseContext:  requestBaseContext(ctx),
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info().Str("addr", server.Addr).Msg("starting server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logg.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logg.Info().Msg("server stopped")

	return nil
}

func poolConfig(cfg *config.Config, url string) postgres.PoolConfig {
	return postgres.PoolConfig{
		DatabaseURL:    url,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	}
}

func replicaPoolConfig(cfg *config.Config) postgres.PoolConfig {
	pc := poolConfig(cfg, cfg.DatabaseReplicaURL)
	pc.ReadOnly = true
	return pc
}

// requestBaseContext keeps the values of ctx, such as the logger, but not its
// cancellation: in-flight requests drain until the Shutdown deadline.
func requestBaseContext(ctx context.Context) func(net.Listener) context.Context {
	base := context.WithoutCancel(ctx)
	return func(net.Listener) context.Context { return base }
}

func listenAddr(cfg *config.Config) string {
	return ":" + cfg.HTTPPort
}

// newRateLimiter returns nil when rate limiting is disabled.
func newRateLimiter(cfg *config.Config, m *metrics.Metrics) *middleware.RateLimiter {
	if cfg.RateLimitRPS <= 0 {
		return nil
	}

	return middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, rateLimitIdle).
		OnReject(m.RateLimitRejected.Inc)
}

// newPublisher picks Kafka when brokers are configured and the log otherwise.
func newPublisher(cfg *config.Config) (eventpublisher.Publisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		return eventpublisher.NewLogPublisher(), func() {}
	}

	kafka := eventpublisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)

	return kafka, func() {
		if err := kafka.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close kafka writer")
		}
	}
}
