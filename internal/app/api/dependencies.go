package api

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	orderscache "github.com/Apurer/order-mgmt-service/internal/domains/orders/adapters/cache/redis"
	ordersmemory "github.com/Apurer/order-mgmt-service/internal/domains/orders/adapters/memory"
	orderspostgres "github.com/Apurer/order-mgmt-service/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/Apurer/order-mgmt-service/internal/domains/orders/adapters/workflows"
	ordersports "github.com/Apurer/order-mgmt-service/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/order-mgmt-service/internal/platform/observability"
	platformpostgres "github.com/Apurer/order-mgmt-service/internal/platform/postgres"
	platformredis "github.com/Apurer/order-mgmt-service/internal/platform/redis"
)

// BuildOrderRepository picks postgres when reachable, otherwise memory, and fronts it with
// the redis cache when REDIS_ADDR answers. shared reports whether other processes see the
// same orders; it is false for the in-process memory store. The returned cleanup closes
// every opened connection.
func BuildOrderRepository(ctx context.Context, cfg Config, logger *slog.Logger) (repo ordersports.Repository, shared bool, cleanup func()) {
	repo = ordersmemory.NewRepository()
	db, closeDB := platformpostgres.ConnectAndMigrate(ctx, cfg.PostgresDSN, logger)
	if db != nil {
		repo = orderspostgres.NewRepository(db)
		shared = true
		logger.Info("order store configured with postgres")
	}

	redisClient, closeRedis := platformredis.Connect(ctx, cfg.RedisAddr, logger)
	if redisClient != nil {
		repo = orderscache.NewRepository(repo, redisClient,
			orderscache.WithTTL(cfg.RedisCacheTTL()),
			orderscache.WithLogger(logger),
		)
		logger.Info("order store cached in redis", slog.Duration("ttl", cfg.RedisCacheTTL()))
	}
	return repo, shared, func() {
		closeRedis()
		closeDB()
	}
}

// BuildOrderWorkflows returns the Temporal orchestrator when the store is shared with the
// worker and Temporal answers, otherwise it runs mutations inline against service.
func BuildOrderWorkflows(cfg Config, instruments *platformobservability.Instruments, service ordersports.Service, sharedStore bool) (ordersports.WorkflowOrchestrator, func()) {
	logger := effectiveLogger(instruments)
	inline := ordersworkflows.NewInlineOrderWorkflows(service)
	if !sharedStore {
		logger.Warn("order store is process local, running order mutations inline")
		return inline, func() {}
	}
	temporalClient, err := ConnectTemporalClient(cfg, instruments)
	if err != nil {
		logger.Warn("Temporal workflows unavailable, running order mutations inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	return ordersworkflows.NewTemporalOrderWorkflows(temporalClient, ordersworkflows.WithResultTimeout(cfg.WorkflowResultTimeout())), temporalClient.Close
}

// ConnectTemporalClient dials Temporal with tracing and structured logging enabled.
func ConnectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
