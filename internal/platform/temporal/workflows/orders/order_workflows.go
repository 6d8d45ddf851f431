package orders

import (
	"go.temporal.io/sdk/workflow"

	ordersdomain "github.com/Apurer/order-mgmt-service/internal/domains/orders/domain"
	ordersports "github.com/Apurer/order-mgmt-service/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/order-mgmt-service/internal/platform/temporal/activities/orders"
	"github.com/Apurer/order-mgmt-service/internal/platform/temporal/sequences"
)

const (
	// OrderCreationWorkflowName is the public identifier for registering the creation workflow.
	OrderCreationWorkflowName = "orders.workflows.Creation"
	// OrderStatusWorkflowName is the public identifier for registering the transition workflow.
	OrderStatusWorkflowName = "orders.workflows.StatusTransition"
	// OrderLifecycleTaskQueue is the queue consumed by the worker processing order workflows.
	OrderLifecycleTaskQueue = "ORDER_LIFECYCLE"
)

// OrderCreationWorkflowInput captures the payload required to create an order.
type OrderCreationWorkflowInput struct {
	Command ordersports.CreateOrderInput
	TraceID string
}

// OrderStatusWorkflowInput captures the payload required to transition an order.
type OrderStatusWorkflowInput struct {
	Command orderactivities.UpdateOrderStatusInput
	TraceID string
}

// OrderCreationWorkflow orchestrates the activities needed to persist a new order.
func OrderCreationWorkflow(ctx workflow.Context, input OrderCreationWorkflowInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderCreationWorkflow started", withTraceID(input.TraceID, "customerName", input.Command.CustomerName)...)
	order, err := sequences.RunOrderCreationSequence(ctx, input.Command)
	if err != nil {
		logger.Error("OrderCreationWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return nil, err
	}
	logger.Info("OrderCreationWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID)...)
	return order, nil
}

// OrderStatusWorkflow orchestrates a single lifecycle transition.
func OrderStatusWorkflow(ctx workflow.Context, input OrderStatusWorkflowInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	orderID := input.Command.OrderID
	logger.Info("OrderStatusWorkflow started", withTraceID(input.TraceID, "orderId", orderID, "status", input.Command.Status)...)
	order, err := sequences.RunOrderStatusSequence(ctx, input.Command)
	if err != nil {
		logger.Error("OrderStatusWorkflow failed", withTraceID(input.TraceID, "orderId", orderID, "error", err)...)
		return nil, err
	}
	logger.Info("OrderStatusWorkflow completed", withTraceID(input.TraceID, "orderId", orderID, "status", order.Status)...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
