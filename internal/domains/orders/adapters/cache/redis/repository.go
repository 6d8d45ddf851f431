package redis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/Apurer/order-mgmt-service/internal/domains/orders/domain"
	"github.com/Apurer/order-mgmt-service/internal/domains/orders/ports"
)

const (
	keyPrefix  = "orders:order:"
	DefaultTTL = 5 * time.Minute
)

var _ ports.Repository = (*Repository)(nil)

// Repository caches single-order reads in Redis in front of another repository.
// The inner repository stays authoritative; cache failures are logged and skipped.
type Repository struct {
	inner  ports.Repository
	client goredis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

type Option func(*Repository)

func WithTTL(ttl time.Duration) Option {
	return func(r *Repository) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRepository decorates inner with a read-through, write-through cache.
func NewRepository(inner ports.Repository, client goredis.Cmdable, opts ...Option) *Repository {
	r := &Repository{
		inner:  inner,
		client: client,
		ttl:    DefaultTTL,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

type cachedOrder struct {
	OrderID      string          `json:"orderId"`
	CustomerName string          `json:"customerName"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
}

// Save evicts the cached entry before writing so a failed or partial write
// never leaves the previous status readable from the cache.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order != nil {
		r.evict(ctx, order.ID)
	}
	saved, err := r.inner.Save(ctx, order)
	if err != nil {
		return nil, err
	}
	r.store(ctx, saved)
	return saved, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Order, bool, error) {
	raw, err := r.client.Get(ctx, cacheKey(id)).Bytes()
	switch {
	case err == nil:
		var entry cachedOrder
		decodeErr := json.Unmarshal(raw, &entry)
		if decodeErr == nil {
			return entry.toDomain(), true, nil
		}
		r.logger.LogAttrs(ctx, slog.LevelWarn, "discarding undecodable cache entry",
			slog.String("order.id", id), slog.String("error", decodeErr.Error()))
	case errors.Is(err, goredis.Nil):
	default:
		r.logger.LogAttrs(ctx, slog.LevelWarn, "order cache read failed",
			slog.String("order.id", id), slog.String("error", err.Error()))
	}

	order, found, err := r.inner.FindByID(ctx, id)
	if err != nil || !found {
		return order, found, err
	}
	r.store(ctx, order)
	return order, true, nil
}

// FindAll always reads the inner repository so listings never miss uncached orders.
func (r *Repository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	return r.inner.FindAll(ctx)
}

func (r *Repository) store(ctx context.Context, order *domain.Order) {
	if order == nil {
		return
	}
	payload, err := json.Marshal(cachedOrder{
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		Amount:       order.Amount,
		Status:       string(order.Status),
	})
	if err != nil {
		r.logger.LogAttrs(ctx, slog.LevelWarn, "failed to encode order for cache",
			slog.String("order.id", order.ID), slog.String("error", err.Error()))
		return
	}
	if err := r.client.Set(ctx, cacheKey(order.ID), payload, r.ttl).Err(); err != nil {
		r.logger.LogAttrs(ctx, slog.LevelWarn, "order cache write failed",
			slog.String("order.id", order.ID), slog.String("error", err.Error()))
		r.evict(ctx, order.ID)
	}
}

func (r *Repository) evict(ctx context.Context, id string) {
	if err := r.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		r.logger.LogAttrs(ctx, slog.LevelError, "order cache eviction failed, entry may be stale until ttl",
			slog.String("order.id", id), slog.Duration("ttl", r.ttl), slog.String("error", err.Error()))
	}
}

func (c cachedOrder) toDomain() *domain.Order {
	return &domain.Order{
		ID:           c.OrderID,
		CustomerName: c.CustomerName,
		Amount:       c.Amount,
		Status:       domain.Status(c.Status),
	}
}

func cacheKey(id string) string {
	return keyPrefix + id
}
