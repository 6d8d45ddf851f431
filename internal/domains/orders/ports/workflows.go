package ports

import (
	"context"

	"github.com/Apurer/order-mgmt-service/internal/domains/orders/domain"
)

// WorkflowOrchestrator runs the order mutations, durably when Temporal is available.
type WorkflowOrchestrator interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error)
}
