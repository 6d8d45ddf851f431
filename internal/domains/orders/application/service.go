package application

import (
	"context"

	"github.com/Apurer/order-mgmt-service/internal/domains/orders/domain"
	"github.com/Apurer/order-mgmt-service/internal/domains/orders/ports"
)

// Service orchestrates order use cases.
type Service struct {
	repo  ports.Repository
	locks stripedLocks
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// CreateOrder persists a NEW order. A caller supplied id makes the call idempotent.
func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	if input.OrderID == "" {
		order, err := domain.NewOrder(input.CustomerName, input.Amount)
		if err != nil {
			return nil, mapError(err)
		}
		return s.repo.Save(ctx, order)
	}

	unlock := s.locks.lock(input.OrderID)
	defer unlock()

	existing, found, err := s.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if found {
		return existing, nil
	}
	order, err := domain.NewOrderWithID(input.OrderID, input.CustomerName, input.Amount)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, order)
}

func (s *Service) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	order, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &ports.NotFoundError{ID: id}
	}
	return order, nil
}

// UpdateOrderStatus holds the order's stripe lock across read, validate and write
// so concurrent callers never validate against a stale status.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	order, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.TransitionTo(status); err != nil {
		return nil, err
	}
	return s.repo.Save(ctx, order)
}

func (s *Service) GetAllOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	return orders, nil
}

// StatusSummary counts orders per status; every known status is present.
func (s *Service) StatusSummary(ctx context.Context) (map[domain.Status]int, error) {
	orders, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make(map[domain.Status]int, len(domain.Statuses()))
	for _, status := range domain.Statuses() {
		result[status] = 0
	}
	for _, order := range orders {
		result[order.Status]++
	}
	return result, nil
}

var _ ports.Service = (*Service)(nil)
