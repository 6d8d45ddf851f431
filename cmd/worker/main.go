package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/order-mgmt-service/internal/app/api"
	ordersobs "github.com/Apurer/order-mgmt-service/internal/domains/orders/adapters/observability"
	ordersapp "github.com/Apurer/order-mgmt-service/internal/domains/orders/application"
	platformobservability "github.com/Apurer/order-mgmt-service/internal/platform/observability"
	orderactivities "github.com/Apurer/order-mgmt-service/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/order-mgmt-service/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "order-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	instruments, shutdown, err := platformobservability.InitWithSettings(ctx, platformobservability.Settings{
		ServiceName: serviceName,
		Environment: cfg.Environment,
	})
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	orderRepo, sharedStore, cleanupRepo := api.BuildOrderRepository(ctx, cfg, logger)
	if !sharedStore {
		cleanupRepo()
		logger.Error("worker needs the postgres order store shared with the API, set POSTGRES_DSN")
		os.Exit(1)
	}
	defer cleanupRepo()
	orderService := ordersobs.New(
		ordersapp.NewService(orderRepo),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	orderActivities := orderactivities.NewActivities(orderService)

	cfg.TemporalDisabled = false
	temporalClient, err := api.ConnectTemporalClient(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderLifecycleTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderCreationWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderCreationWorkflowName})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderStatusWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderStatusWorkflowName})
	w.RegisterActivityWithOptions(orderActivities.CreateOrder, activity.RegisterOptions{Name: orderactivities.CreateOrderActivityName})
	w.RegisterActivityWithOptions(orderActivities.UpdateOrderStatus, activity.RegisterOptions{Name: orderactivities.UpdateOrderStatusActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderLifecycleTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
