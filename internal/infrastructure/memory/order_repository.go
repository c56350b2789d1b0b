package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
)

var (
	_ repository.OrderRepository     = (*OrderRepo)(nil)
	_ repository.OrderItemRepository = (*OrderItemRepo)(nil)
)

// OrderRepo cabeceras de pedido en memoria.
type OrderRepo struct {
	v view
}

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.orders[o.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range st.orders {
			if other.Number == o.Number {
				return domain.ErrUniquenessConflict
			}
		}
		if _, ok := st.clients[o.ClientID]; !ok {
			return domain.ErrNotFound
		}
		row := *o
		row.Items = nil
		st.orders[o.ID] = row
		st.track(o.ID)
		return nil
	})
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.v.do(func(st *state) error {
		if o, ok := st.orders[id]; ok {
			out = &o
		}
		return nil
	})
	return out, err
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) UpdateStatus(_ context.Context, id string, status entity.OrderStatus, updatedAt time.Time) error {
	return r.v.do(func(st *state) error {
		o, ok := st.orders[id]
		if !ok {
			return domain.ErrNotFound
		}
		o.Status = status
		o.UpdatedAt = updatedAt
		st.orders[id] = o
		return nil
	})
}

func (r *OrderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, int, error) {
	var out []*entity.Order
	var total int
	err := r.v.do(func(st *state) error {
		list := make([]*entity.Order, 0)
		for _, o := range st.orders {
			if f.Status != "" && o.Status != f.Status {
				continue
			}
			if f.ClientID != "" && o.ClientID != f.ClientID {
				continue
			}
			o := o
			list = append(list, &o)
		}
		sort.Slice(list, func(i, j int) bool {
			if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
				return list[i].CreatedAt.After(list[j].CreatedAt)
			}
			return st.rank[list[i].ID] > st.rank[list[j].ID]
		})
		total = len(list)
		out = page(list, f.Limit, f.Offset)
		return nil
	})
	return out, total, err
}

// OrderItemRepo líneas de pedido en memoria. (order_id, product_id) es único.
type OrderItemRepo struct {
	v view
}

func (r *OrderItemRepo) Create(_ context.Context, it *entity.OrderItem) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.items[it.ID]; ok {
			return domain.ErrDuplicate
		}
		if _, ok := st.orders[it.OrderID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.products[it.ProductID]; !ok {
			return domain.ErrNotFound
		}
		for _, other := range st.items {
			if other.OrderID == it.OrderID && other.ProductID == it.ProductID {
				return domain.ErrDuplicateLineItem
			}
		}
		st.items[it.ID] = *it
		st.track(it.ID)
		return nil
	})
}

func (r *OrderItemRepo) GetByID(_ context.Context, id string) (*entity.OrderItem, error) {
	var out *entity.OrderItem
	err := r.v.do(func(st *state) error {
		if it, ok := st.items[id]; ok {
			out = &it
		}
		return nil
	})
	return out, err
}

func (r *OrderItemRepo) GetByOrderAndProduct(_ context.Context, orderID, productID string) (*entity.OrderItem, error) {
	var out *entity.OrderItem
	err := r.v.do(func(st *state) error {
		for _, it := range st.items {
			if it.OrderID == orderID && it.ProductID == productID {
				it := it
				out = &it
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *OrderItemRepo) ListByOrder(_ context.Context, orderID string) ([]*entity.OrderItem, error) {
	var out []*entity.OrderItem
	err := r.v.do(func(st *state) error {
		out = itemsOf(st, map[string]bool{orderID: true})[orderID]
		return nil
	})
	return out, err
}

func (r *OrderItemRepo) ListByOrders(_ context.Context, orderIDs []string) (map[string][]*entity.OrderItem, error) {
	want := make(map[string]bool, len(orderIDs))
	for _, id := range orderIDs {
		want[id] = true
	}
	var out map[string][]*entity.OrderItem
	err := r.v.do(func(st *state) error {
		out = itemsOf(st, want)
		return nil
	})
	return out, err
}

func (r *OrderItemRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.items[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.items, id)
		return nil
	})
}

// itemsOf agrupa por pedido en orden de inserción.
func itemsOf(st *state, orders map[string]bool) map[string][]*entity.OrderItem {
	out := make(map[string][]*entity.OrderItem, len(orders))
	for _, it := range st.items {
		if !orders[it.OrderID] {
			continue
		}
		it := it
		out[it.OrderID] = append(out[it.OrderID], &it)
	}
	for _, list := range out {
		sort.Slice(list, func(i, j int) bool { return st.rank[list[i].ID] < st.rank[list[j].ID] })
	}
	return out
}
