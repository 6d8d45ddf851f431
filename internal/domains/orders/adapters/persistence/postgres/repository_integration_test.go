//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/order-mgmt-service/internal/domains/orders/domain"
	"github.com/Apurer/order-mgmt-service/internal/platform/migrations"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("orders_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestRepository_SaveAndFindByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order, err := domain.NewOrder("Vishal", decimal.RequireFromString("1000.0"))
	require.NoError(t, err)

	saved, err := repo.Save(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, order.ID, saved.ID)
	assert.Equal(t, domain.StatusNew, saved.Status)

	fetched, found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, order.CustomerName, fetched.CustomerName)
	assert.True(t, order.Amount.Equal(fetched.Amount))

	_, found, err = repo.FindByID(ctx, "invalid-id")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRepository_KeepsAmountsExactly(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	for _, raw := range []string{"0.123456789", "1000000000000000000000.5", "19.99"} {
		order, err := domain.NewOrder("Vishal", decimal.RequireFromString(raw))
		require.NoError(t, err)
		_, err = repo.Save(ctx, order)
		require.NoError(t, err, raw)

		fetched, found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.True(t, order.Amount.Equal(fetched.Amount), "stored %s, read %s", raw, fetched.Amount)
	}
}

func TestRepository_StatusChangesAppendHistory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order, err := domain.NewOrder("Vishal", decimal.NewFromInt(5))
	require.NoError(t, err)
	_, err = repo.Save(ctx, order)
	require.NoError(t, err)

	require.NoError(t, order.TransitionTo(domain.StatusProcessing))
	updated, err := repo.Save(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, updated.Status)

	// re-saving an unchanged status must not grow the history
	_, err = repo.Save(ctx, order)
	require.NoError(t, err)

	require.NoError(t, order.TransitionTo(domain.StatusCompleted))
	_, err = repo.Save(ctx, order)
	require.NoError(t, err)

	var history pq.StringArray
	err = db.Raw("SELECT status_history FROM orders WHERE order_id = ?", order.ID).Row().Scan(&history)
	require.NoError(t, err)
	assert.Equal(t, pq.StringArray{"NEW", "PROCESSING", "COMPLETED"}, history)
}

func TestRepository_FindAll(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		order, err := domain.NewOrder("Customer", decimal.NewFromInt(i*10))
		require.NoError(t, err)
		_, err = repo.Save(ctx, order)
		require.NoError(t, err)
	}

	list, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
