package ports

import (
	"context"

	"github.com/Apurer/order-mgmt-service/internal/domains/orders/domain"
)

// Repository persists orders keyed by id. A miss on FindByID is reported
// through found, never as an error.
type Repository interface {
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id string) (order *domain.Order, found bool, err error)
	FindAll(ctx context.Context) ([]*domain.Order, error)
}
