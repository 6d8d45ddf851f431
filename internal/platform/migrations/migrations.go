package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the orders bounded context.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(&orderRecord{})
}

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	OrderID       string          `gorm:"primaryKey;column:order_id;size:64"`
	CustomerName  string          `gorm:"column:customer_name;not null"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric;not null"`
	Status        string          `gorm:"column:status;type:varchar(32);index;not null"`
	StatusHistory pq.StringArray  `gorm:"column:status_history;type:text[]"`
	CreatedAt     time.Time       `gorm:"column:created_at;index"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }
