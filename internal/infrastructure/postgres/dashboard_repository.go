package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas agregadas de solo lectura.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

func (r *DashboardRepo) InventoryStats(ctx context.Context) (*repository.InventoryStats, error) {
	var s repository.InventoryStats
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE quantity <= reorder_level),
		       COALESCE(SUM(quantity * cost_price), 0)
		FROM products`).Scan(&s.TotalProducts, &s.LowStockCount, &s.StockValue)
	if err != nil {
		return nil, fmt.Errorf("inventory stats: %w", err)
	}
	return &s, nil
}

func (r *DashboardRepo) CountOrders(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE created_at >= $1 AND created_at < $2`, from, to,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

func (r *DashboardRepo) SumPayments(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE payment_date >= $1 AND payment_date < $2`, from, to,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum payments: %w", err)
	}
	return sum, nil
}

// MonthlyPayments suma por mes del año indicado; los meses sin pagos quedan en cero.
func (r *DashboardRepo) MonthlyPayments(ctx context.Context, year int) ([12]decimal.Decimal, error) {
	var out [12]decimal.Decimal
	for i := range out {
		out[i] = decimal.Zero
	}
	rows, err := r.q.Query(ctx, `
		SELECT EXTRACT(MONTH FROM payment_date)::int AS month, SUM(amount)
		FROM payments
		WHERE EXTRACT(YEAR FROM payment_date)::int = $1
		GROUP BY month`, year)
	if err != nil {
		return out, fmt.Errorf("monthly payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var month int
		var sum decimal.Decimal
		if err := rows.Scan(&month, &sum); err != nil {
			return out, fmt.Errorf("scan monthly payments: %w", err)
		}
		if month >= 1 && month <= 12 {
			out[month-1] = sum
		}
	}
	return out, rows.Err()
}
