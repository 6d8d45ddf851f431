package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"

	ordersdomain "github.com/Apurer/order-mgmt-service/internal/domains/orders/domain"
	"github.com/Apurer/order-mgmt-service/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/order-mgmt-service/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/order-mgmt-service/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// DefaultResultTimeout bounds how long a caller waits for a workflow result.
// The workflow keeps running after the wait gives up.
const DefaultResultTimeout = 30 * time.Second

// TemporalOrderWorkflows runs order mutations as workflows on a Temporal cluster.
type TemporalOrderWorkflows struct {
	client        client.Client
	taskQueue     string
	resultTimeout time.Duration
}

type Option func(*TemporalOrderWorkflows)

// WithResultTimeout overrides DefaultResultTimeout. Non-positive values are ignored.
func WithResultTimeout(timeout time.Duration) Option {
	return func(o *TemporalOrderWorkflows) {
		if timeout > 0 {
			o.resultTimeout = timeout
		}
	}
}

// NewTemporalOrderWorkflows wires a Temporal client into the orchestrator.
func NewTemporalOrderWorkflows(c client.Client, opts ...Option) *TemporalOrderWorkflows {
	o := &TemporalOrderWorkflows{
		client:        c,
		taskQueue:     orderworkflows.OrderLifecycleTaskQueue,
		resultTimeout: DefaultResultTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// CreateOrder starts the creation workflow and waits for the stored order.
func (o *TemporalOrderWorkflows) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*ordersdomain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:                    fmt.Sprintf("order-creation-%s", uuid.NewString()),
		TaskQueue:             o.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.OrderCreationWorkflow,
		orderworkflows.OrderCreationWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		return nil, err
	}
	return o.await(ctx, run, "")
}

// UpdateOrderStatus starts the transition workflow and waits for the updated order.
func (o *TemporalOrderWorkflows) UpdateOrderStatus(ctx context.Context, id string, status ordersdomain.Status) (*ordersdomain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:                    fmt.Sprintf("order-status-%s-%s", id, uuid.NewString()),
		TaskQueue:             o.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.OrderStatusWorkflow,
		orderworkflows.OrderStatusWorkflowInput{
			Command: orderactivities.UpdateOrderStatusInput{OrderID: id, Status: status},
			TraceID: traceComponent,
		},
	)
	if err != nil {
		return nil, err
	}
	return o.await(ctx, run, id)
}

func (o *TemporalOrderWorkflows) await(ctx context.Context, run client.WorkflowRun, id string) (*ordersdomain.Order, error) {
	waitCtx, cancel := context.WithTimeout(ctx, o.resultTimeout)
	defer cancel()
	var order ordersdomain.Order
	if err := run.Get(waitCtx, &order); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("workflow %s did not finish within %s: %w", run.GetID(), o.resultTimeout, err)
		}
		return nil, orderactivities.FromApplicationError(err, id)
	}
	return &order, nil
}

// InlineOrderWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineOrderWorkflows struct {
	service ports.Service
}

// NewInlineOrderWorkflows wraps the orders service for synchronous execution.
func NewInlineOrderWorkflows(service ports.Service) *InlineOrderWorkflows {
	return &InlineOrderWorkflows{service: service}
}

// CreateOrder delegates to the application service without durable orchestration.
func (o *InlineOrderWorkflows) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*ordersdomain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.CreateOrder(ctx, input)
}

// UpdateOrderStatus delegates to the application service without durable orchestration.
func (o *InlineOrderWorkflows) UpdateOrderStatus(ctx context.Context, id string, status ordersdomain.Status) (*ordersdomain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.UpdateOrderStatus(ctx, id, status)
}

func workflowTraceComponent(ctx context.Context) string {
	traceComponent := workflowTraceID(ctx)
	if traceComponent != "" {
		return traceComponent
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
