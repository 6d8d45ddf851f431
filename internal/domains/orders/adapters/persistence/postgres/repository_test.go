package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/Apurer/order-mgmt-service/internal/domains/orders/domain"
)

var orderColumns = []string{"order_id", "customer_name", "amount", "status", "status_history", "created_at", "updated_at"}

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewRepository(db), mock
}

func TestRepository_SaveUpsertsAndReloads(t *testing.T) {
	repo, mock := newMockRepository(t)
	order, err := domain.NewOrder("Vishal", decimal.RequireFromString("1000.0"))
	require.NoError(t, err)
	now := time.Now()

	mock.ExpectExec(`INSERT INTO "orders".*ON CONFLICT`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE order_id = \$1`).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow(order.ID, "Vishal", "1000.0000", "NEW", "{NEW}", now, now))

	saved, err := repo.Save(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, order.ID, saved.ID)
	assert.Equal(t, "Vishal", saved.CustomerName)
	assert.True(t, saved.Amount.Equal(order.Amount))
	assert.Equal(t, domain.StatusNew, saved.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SavePropagatesWriteError(t *testing.T) {
	repo, mock := newMockRepository(t)
	order, err := domain.NewOrder("Vishal", decimal.NewFromInt(1))
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO "orders"`).WillReturnError(errors.New("connection reset"))

	_, err = repo.Save(context.Background(), order)
	require.EqualError(t, err, "connection reset")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByIDMiss(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE order_id = \$1`).
		WillReturnRows(sqlmock.NewRows(orderColumns))

	order, found, err := repo.FindByID(context.Background(), "invalid-id")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, order)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByIDError(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT \* FROM "orders"`).WillReturnError(errors.New("timeout"))

	_, found, err := repo.FindByID(context.Background(), "ORD-1")
	require.EqualError(t, err, "timeout")
	assert.False(t, found)
}

func TestRepository_FindAll(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "orders" ORDER BY created_at`).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow("ORD-a", "A", "1.5", "NEW", "{NEW}", now, now).
			AddRow("ORD-b", "B", "20", "COMPLETED", "{NEW,PROCESSING,COMPLETED}", now, now))

	orders, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-a", orders[0].ID)
	assert.Equal(t, domain.StatusCompleted, orders[1].Status)
	assert.True(t, orders[0].Amount.Equal(decimal.RequireFromString("1.5")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_NotConfigured(t *testing.T) {
	var repo *Repository
	_, _, err := repo.FindByID(context.Background(), "ORD-1")
	require.Error(t, err)

	_, err = NewRepository(nil).FindAll(context.Background())
	require.Error(t, err)
}

func TestOrderRecord_AmountColumnMatchesMigration(t *testing.T) {
	parsed, err := schema.Parse(&orderRecord{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	assert.Equal(t, schema.DataType("numeric"), parsed.LookUpField("amount").DataType)

	record := toRecord(&domain.Order{ID: "ORD-1", CustomerName: "Vishal", Amount: decimal.RequireFromString("0.123456789"), Status: domain.StatusNew})
	assert.Equal(t, "0.123456789", record.Amount.String())
}
