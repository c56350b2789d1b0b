package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// InventoryStats agregados de inventario para el dashboard.
type InventoryStats struct {
	TotalProducts int
	LowStockCount int
	StockValue    decimal.Decimal
}

// DashboardRepository consultas de solo lectura para el dashboard.
// Las ventas se miden como pagos recibidos en el rango [from, to).
type DashboardRepository interface {
	InventoryStats(ctx context.Context) (*InventoryStats, error)
	CountOrders(ctx context.Context, from, to time.Time) (int, error)
	SumPayments(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	// MonthlyPayments índice 0 = enero.
	MonthlyPayments(ctx context.Context, year int) ([12]decimal.Decimal, error)
}
