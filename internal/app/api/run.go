package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/Apurer/order-mgmt-service/docs"
	orderserver "github.com/Apurer/order-mgmt-service/go"
	ordersobs "github.com/Apurer/order-mgmt-service/internal/domains/orders/adapters/observability"
	ordersapp "github.com/Apurer/order-mgmt-service/internal/domains/orders/application"
	ordersports "github.com/Apurer/order-mgmt-service/internal/domains/orders/ports"
	"github.com/Apurer/order-mgmt-service/internal/jobs"
	platformmetrics "github.com/Apurer/order-mgmt-service/internal/platform/metrics"
	platformobservability "github.com/Apurer/order-mgmt-service/internal/platform/observability"
	apierrors "github.com/Apurer/order-mgmt-service/internal/shared/errors"
)

const (
	serviceName     = "order-api"
	shutdownTimeout = 10 * time.Second
)

// Run boots the order HTTP API with observability, storage, workflows and the status report wired.
// It blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	httpMetrics := platformmetrics.New()
	instruments, shutdown, err := platformobservability.InitWithSettings(ctx, platformobservability.Settings{
		ServiceName:          serviceName,
		Environment:          cfg.Environment,
		PrometheusRegisterer: httpMetrics.Registry(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	orderRepo, sharedStore, cleanupRepo := BuildOrderRepository(ctx, cfg, logger)
	defer cleanupRepo()
	orderService := ordersobs.New(
		ordersapp.NewService(orderRepo),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	orderWorkflows, closeWorkflows := BuildOrderWorkflows(cfg, instruments, orderService, sharedStore)
	defer closeWorkflows()

	report, err := jobs.NewStatusReportJob(orderService, cfg.StatusReportSchedule,
		jobs.WithLogger(logger),
		jobs.WithMeter(instruments.Meter("internal.jobs")),
	)
	if err != nil {
		return err
	}
	if err := report.Start(); err != nil {
		return fmt.Errorf("failed to start status report job: %w", err)
	}
	defer report.Stop()

	handler := NewHandler(HandlerDeps{
		Service:   orderService,
		Workflows: orderWorkflows,
		Logger:    logger,
		Metrics:   httpMetrics,
	})
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Order API listening", slog.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Order API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Order API shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}
	return nil
}

// HandlerDeps are the collaborators of the HTTP handler.
type HandlerDeps struct {
	Service   ordersports.Service
	Workflows ordersports.WorkflowOrchestrator
	Logger    *slog.Logger
	Metrics   *platformmetrics.HTTPMetrics
}

// NewHandler assembles the gin engine: middleware, operational endpoints and the order routes.
func NewHandler(deps HandlerDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	httpMetrics := deps.Metrics
	if httpMetrics == nil {
		httpMetrics = platformmetrics.New()
	}
	responder := apierrors.NewChainedResponder(logger, orderserver.OrderErrorMappers()...)

	router := gin.New()
	router.Use(
		gin.Logger(),
		responder.Recovery(),
		otelgin.Middleware(serviceName),
		httpMetrics.Middleware(),
	)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
	router.GET("/metrics", gin.WrapH(httpMetrics.Handler()))
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.WrapHandler))

	return orderserver.NewRouterWithGinEngine(router, orderserver.ApiHandleFunctions{
		OrderAPI: orderserver.NewOrderAPI(deps.Service, deps.Workflows, responder),
	})
}
