package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordersdomain "github.com/Apurer/order-mgmt-service/internal/domains/orders/domain"
	ordersports "github.com/Apurer/order-mgmt-service/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/order-mgmt-service/internal/platform/temporal/activities/orders"
)

func orderActivityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        2 * time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        10 * time.Second,
			MaximumAttempts:        5,
			NonRetryableErrorTypes: orderactivities.NonRetryableErrorTypes,
		},
	}
}

// RunOrderCreationSequence executes the activity that persists a new order.
// The id is minted once per workflow so activity retries upsert the same record.
func RunOrderCreationSequence(ctx workflow.Context, input ordersports.CreateOrderInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	if input.OrderID == "" {
		minted := workflow.SideEffect(ctx, func(workflow.Context) interface{} {
			return ordersdomain.NewOrderID()
		})
		if err := minted.Get(&input.OrderID); err != nil {
			return nil, err
		}
	}
	logger.Info("order creation sequence started", "orderId", input.OrderID, "customerName", input.CustomerName)
	ctx = workflow.WithActivityOptions(ctx, orderActivityOptions())

	var order ordersdomain.Order
	err := workflow.ExecuteActivity(ctx, orderactivities.CreateOrderActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("order creation sequence failed", "customerName", input.CustomerName, "error", err)
		return nil, err
	}
	logger.Info("order creation sequence completed", "orderId", order.ID)
	return &order, nil
}

// RunOrderStatusSequence executes the activity that applies one status transition.
func RunOrderStatusSequence(ctx workflow.Context, input orderactivities.UpdateOrderStatusInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order status sequence started", "orderId", input.OrderID, "status", input.Status)
	ctx = workflow.WithActivityOptions(ctx, orderActivityOptions())

	var order ordersdomain.Order
	err := workflow.ExecuteActivity(ctx, orderactivities.UpdateOrderStatusActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("order status sequence failed", "orderId", input.OrderID, "status", input.Status, "error", err)
		return nil, err
	}
	logger.Info("order status sequence completed", "orderId", order.ID, "status", order.Status)
	return &order, nil
}
