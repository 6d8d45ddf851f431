package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/order-mgmt-service/internal/domains/orders/domain"
	"github.com/Apurer/order-mgmt-service/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. The schema is owned by
// the migrations package.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate to a relational table.
type orderRecord struct {
	OrderID       string          `gorm:"primaryKey;column:order_id;size:64"`
	CustomerName  string          `gorm:"column:customer_name"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric"`
	Status        string          `gorm:"column:status;type:varchar(32);index"`
	StatusHistory pq.StringArray  `gorm:"column:status_history;type:text[]"`
	CreatedAt     time.Time       `gorm:"column:created_at;index"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Save inserts or overwrites an order. A status change appends the new status
// to status_history.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"customer_name": record.CustomerName,
				"amount":        record.Amount,
				"status":        record.Status,
				"status_history": gorm.Expr(
					"CASE WHEN orders.status <> EXCLUDED.status THEN array_append(orders.status_history, EXCLUDED.status::text) ELSE orders.status_history END",
				),
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	saved, found, err := r.FindByID(ctx, record.OrderID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("order vanished after save")
	}
	return saved, nil
}

// FindByID fetches an order by identifier.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Order, bool, error) {
	if err := r.ensureDB(); err != nil {
		return nil, false, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).Take(&record, "order_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return record.toDomain(), true, nil
}

// FindAll returns all orders, oldest first.
func (r *Repository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("created_at").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		OrderID:       order.ID,
		CustomerName:  order.CustomerName,
		Amount:        order.Amount,
		Status:        string(order.Status),
		StatusHistory: pq.StringArray{string(order.Status)},
	}
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:           r.OrderID,
		CustomerName: r.CustomerName,
		Amount:       r.Amount,
		Status:       domain.Status(r.Status),
	}
}
