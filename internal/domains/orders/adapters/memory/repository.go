package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Apurer/order-mgmt-service/internal/domains/orders/domain"
	"github.com/Apurer/order-mgmt-service/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter. It stores and hands
// out copies so callers never share state with the map.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewRepository() *Repository {
	return &Repository{orders: map[string]*domain.Order{}}
}

func (r *Repository) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := order.Clone()
	r.mu.Lock()
	r.orders[clone.ID] = clone
	r.mu.Unlock()
	return clone.Clone(), nil
}

func (r *Repository) FindByID(_ context.Context, id string) (*domain.Order, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, false, nil
	}
	return order.Clone(), true, nil
}

func (r *Repository) FindAll(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		list = append(list, order.Clone())
	}
	return list, nil
}
