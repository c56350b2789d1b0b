package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.InvoiceRepository = (*InvoiceRepo)(nil)
	_ repository.PaymentRepository = (*PaymentRepo)(nil)
)

// InvoiceRepo facturas en memoria. Número y pedido son únicos.
type InvoiceRepo struct {
	v view
}

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.invoices[inv.ID]; ok {
			return domain.ErrDuplicate
		}
		if _, ok := st.orders[inv.OrderID]; !ok {
			return domain.ErrNotFound
		}
		for _, other := range st.invoices {
			if other.Number == inv.Number {
				return domain.ErrUniquenessConflict
			}
			if other.OrderID == inv.OrderID {
				return domain.ErrDuplicate
			}
		}
		row := *inv
		row.Order = nil
		st.invoices[inv.ID] = row
		st.track(inv.ID)
		return nil
	})
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.v.do(func(st *state) error {
		if inv, ok := st.invoices[id]; ok {
			out = &inv
		}
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *InvoiceRepo) GetByOrderID(_ context.Context, orderID string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.v.do(func(st *state) error {
		for _, inv := range st.invoices {
			if inv.OrderID == orderID {
				inv := inv
				out = &inv
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) UpdateStatus(_ context.Context, id string, status entity.InvoiceStatus, updatedAt time.Time) error {
	return r.v.do(func(st *state) error {
		inv, ok := st.invoices[id]
		if !ok {
			return domain.ErrNotFound
		}
		inv.Status = status
		inv.UpdatedAt = updatedAt
		st.invoices[id] = inv
		return nil
	})
}

func (r *InvoiceRepo) List(_ context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	var out []*entity.Invoice
	var total int
	err := r.v.do(func(st *state) error {
		list := make([]*entity.Invoice, 0)
		for _, inv := range st.invoices {
			if f.Status != "" && inv.Status != f.Status {
				continue
			}
			inv := inv
			list = append(list, &inv)
		}
		sort.Slice(list, func(i, j int) bool {
			if !list[i].IssueDate.Equal(list[j].IssueDate) {
				return list[i].IssueDate.After(list[j].IssueDate)
			}
			return st.rank[list[i].ID] > st.rank[list[j].ID]
		})
		total = len(list)
		out = page(list, f.Limit, f.Offset)
		return nil
	})
	return out, total, err
}

// PaymentRepo pagos en memoria.
type PaymentRepo struct {
	v view
}

func (r *PaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.payments[p.ID]; ok {
			return domain.ErrDuplicate
		}
		if _, ok := st.invoices[p.InvoiceID]; !ok {
			return domain.ErrNotFound
		}
		st.payments[p.ID] = *p
		st.track(p.ID)
		return nil
	})
}

func (r *PaymentRepo) ListByInvoice(_ context.Context, invoiceID string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	err := r.v.do(func(st *state) error {
		out = make([]*entity.Payment, 0)
		for _, p := range st.payments {
			if p.InvoiceID == invoiceID {
				p := p
				out = append(out, &p)
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if !out[i].PaymentDate.Equal(out[j].PaymentDate) {
				return out[i].PaymentDate.After(out[j].PaymentDate)
			}
			return st.rank[out[i].ID] > st.rank[out[j].ID]
		})
		return nil
	})
	return out, err
}

func (r *PaymentRepo) SumByInvoice(_ context.Context, invoiceID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.v.do(func(st *state) error {
		for _, p := range st.payments {
			if p.InvoiceID == invoiceID {
				sum = sum.Add(p.Amount)
			}
		}
		return nil
	})
	return sum, err
}
