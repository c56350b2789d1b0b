package memory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo agregados del dashboard sobre el estado en memoria.
type DashboardRepo struct {
	v view
}

func (r *DashboardRepo) InventoryStats(_ context.Context) (*repository.InventoryStats, error) {
	out := &repository.InventoryStats{StockValue: decimal.Zero}
	err := r.v.do(func(st *state) error {
		for _, p := range st.products {
			out.TotalProducts++
			if p.IsLowStock() {
				out.LowStockCount++
			}
			out.StockValue = out.StockValue.Add(p.StockValue())
		}
		return nil
	})
	return out, err
}

func (r *DashboardRepo) CountOrders(_ context.Context, from, to time.Time) (int, error) {
	var n int
	err := r.v.do(func(st *state) error {
		for _, o := range st.orders {
			if inRange(o.CreatedAt, from, to) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *DashboardRepo) SumPayments(_ context.Context, from, to time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.v.do(func(st *state) error {
		for _, p := range st.payments {
			if inRange(p.PaymentDate, from, to) {
				sum = sum.Add(p.Amount)
			}
		}
		return nil
	})
	return sum, err
}

func (r *DashboardRepo) MonthlyPayments(_ context.Context, year int) ([12]decimal.Decimal, error) {
	var out [12]decimal.Decimal
	for i := range out {
		out[i] = decimal.Zero
	}
	err := r.v.do(func(st *state) error {
		for _, p := range st.payments {
			if p.PaymentDate.Year() != year {
				continue
			}
			m := p.PaymentDate.Month() - 1
			out[m] = out[m].Add(p.Amount)
		}
		return nil
	})
	return out, err
}

// inRange intervalo semiabierto [from, to).
func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}
