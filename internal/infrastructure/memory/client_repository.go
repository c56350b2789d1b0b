package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo clientes en memoria.
type ClientRepo struct {
	v view
}

func (r *ClientRepo) Create(_ context.Context, c *entity.Client) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.clients[c.ID]; ok {
			return domain.ErrDuplicate
		}
		st.clients[c.ID] = *c
		st.track(c.ID)
		return nil
	})
}

func (r *ClientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	var out *entity.Client
	err := r.v.do(func(st *state) error {
		if c, ok := st.clients[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *ClientRepo) Update(_ context.Context, c *entity.Client) error {
	return r.v.do(func(st *state) error {
		cur, ok := st.clients[c.ID]
		if !ok {
			return domain.ErrNotFound
		}
		next := *c
		next.CreatedAt = cur.CreatedAt
		st.clients[c.ID] = next
		return nil
	})
}

func (r *ClientRepo) List(_ context.Context, search string, limit, offset int) ([]*entity.Client, int, error) {
	search = strings.ToLower(search)
	var out []*entity.Client
	var total int
	err := r.v.do(func(st *state) error {
		list := make([]*entity.Client, 0)
		for _, c := range st.clients {
			if search != "" &&
				!strings.Contains(strings.ToLower(c.Name), search) &&
				!strings.Contains(strings.ToLower(c.Email), search) {
				continue
			}
			c := c
			list = append(list, &c)
		}
		sort.Slice(list, func(i, j int) bool {
			if list[i].Name != list[j].Name {
				return list[i].Name < list[j].Name
			}
			return st.rank[list[i].ID] < st.rank[list[j].ID]
		})
		total = len(list)
		out = page(list, limit, offset)
		return nil
	})
	return out, total, err
}

// Delete con pedidos asociados devuelve ErrConflict.
func (r *ClientRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.clients[id]; !ok {
			return domain.ErrNotFound
		}
		for _, o := range st.orders {
			if o.ClientID == id {
				return domain.ErrConflict
			}
		}
		delete(st.clients, id)
		return nil
	})
}
