package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Apurer/order-mgmt-service/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// NotFoundError reports a lookup of an unknown order id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Order not found with id : %s", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// CreateOrderInput carries the caller supplied fields of a new order.
// OrderID is optional; when set, creating the same id twice returns the first record.
type CreateOrderInput struct {
	OrderID      string
	CustomerName string
	Amount       decimal.Decimal
}

// Service exposes order use cases to adapters.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error)
	GetAllOrders(ctx context.Context) ([]*domain.Order, error)
	StatusSummary(ctx context.Context) (map[domain.Status]int, error)
}
