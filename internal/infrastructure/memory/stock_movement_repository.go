package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo movimientos de stock en memoria.
type StockMovementRepo struct {
	v view
}

func (r *StockMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.movements[m.ID]; ok {
			return domain.ErrDuplicate
		}
		if _, ok := st.products[m.ProductID]; !ok {
			return domain.ErrNotFound
		}
		st.movements[m.ID] = *m
		st.track(m.ID)
		return nil
	})
}

func (r *StockMovementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	var out *entity.StockMovement
	err := r.v.do(func(st *state) error {
		if m, ok := st.movements[id]; ok {
			out = &m
		}
		return nil
	})
	return out, err
}

func (r *StockMovementRepo) UpdateDetails(_ context.Context, m *entity.StockMovement) error {
	return r.v.do(func(st *state) error {
		cur, ok := st.movements[m.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Reference = m.Reference
		cur.Notes = m.Notes
		st.movements[m.ID] = cur
		return nil
	})
}

func (r *StockMovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	var out []*entity.StockMovement
	var total int
	err := r.v.do(func(st *state) error {
		list := make([]*entity.StockMovement, 0)
		for _, m := range st.movements {
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			if f.Type != "" && m.Type != f.Type {
				continue
			}
			m := m
			list = append(list, &m)
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
