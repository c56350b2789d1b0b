package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-pedidos/internal/application/analytics"
	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/infrastructure/memory"
)

var now = time.Date(2026, 10, 14, 16, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seed(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p-1", SKU: "A", Name: "Alicate", Quantity: 2, ReorderLevel: 10, CostPrice: dec("5"), IsActive: true}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p-2", SKU: "B", Name: "Broca", Quantity: 50, ReorderLevel: 10, CostPrice: dec("1.5"), IsActive: true}))
	require.NoError(t, store.Clients().Create(ctx, &entity.Client{ID: "c-1", Name: "Cliente"}))

	orders := []struct {
		id string
		at time.Time
	}{
		{"o-1", now.Add(-2 * time.Hour)},
		{"o-2", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)},
		{"o-3", time.Date(2026, 9, 30, 23, 59, 0, 0, time.UTC)},
	}
	for _, o := range orders {
		require.NoError(t, store.Orders().Create(ctx, &entity.Order{ID: o.id, Number: "N-" + o.id, ClientID: "c-1", Status: entity.OrderPending, CreatedAt: o.at}))
	}
	require.NoError(t, store.Invoices().Create(ctx, &entity.Invoice{ID: "i-1", Number: "INV-1", OrderID: "o-1", Status: entity.InvoicePending}))

	payments := []struct {
		amount string
		at     time.Time
	}{
		{"100", now.Add(-time.Hour)},
		{"40.50", time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC)},
		{"7", time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)},
		{"99", time.Date(2025, 10, 14, 9, 0, 0, 0, time.UTC)},
	}
	for i, p := range payments {
		require.NoError(t, store.Payments().Create(ctx, &entity.Payment{
			ID: "pay-" + string(rune('a'+i)), InvoiceID: "i-1", Amount: dec(p.amount), Method: entity.PaymentCash, PaymentDate: p.at,
		}))
	}
	return store
}

func TestGetStats(t *testing.T) {
	store := seed(t)
	uc := analytics.NewDashboardUseCase(store.Dashboard(), store.Products()).WithClock(func() time.Time { return now })

	stats, err := uc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalProducts)
	assert.Equal(t, 1, stats.LowStockCount)
	assert.True(t, stats.StockValue.Equal(dec("85")), "2x5 + 50x1.5")
	assert.Equal(t, 1, stats.TodayOrders)
	assert.Equal(t, 2, stats.OrdersThisMonth, "el 30 de septiembre queda fuera del mes")
	assert.True(t, stats.TodaySales.Equal(dec("100")))
	assert.True(t, stats.MonthlySales.Equal(dec("140.50")))
	require.Len(t, stats.LowStockProducts, 1)
	assert.Equal(t, "p-1", stats.LowStockProducts[0].ID)
	assert.Equal(t, "Octubre 2026", stats.DateLabel)
}

func TestGetMonthlySales(t *testing.T) {
	store := seed(t)
	uc := analytics.NewDashboardUseCase(store.Dashboard(), store.Products()).WithClock(func() time.Time { return now })

	out, err := uc.GetMonthlySales(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2026, out.Year)
	require.Len(t, out.Months, 12)
	assert.Equal(t, "Marzo", out.Months[2].Label)
	assert.True(t, out.Months[2].Total.Equal(dec("7")))
	assert.True(t, out.Months[9].Total.Equal(dec("140.50")))
	assert.True(t, out.Total.Equal(dec("147.50")), "los pagos de 2025 no cuentan")

	_, err = uc.GetMonthlySales(context.Background(), 1999)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
