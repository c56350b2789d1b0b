package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo categorías en memoria. El nombre es único sin distinguir mayúsculas.
type CategoryRepo struct {
	v view
}

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.categories[c.ID]; ok || categoryNameTaken(st, c.Name, c.ID) {
			return domain.ErrDuplicate
		}
		st.categories[c.ID] = *c
		st.track(c.ID)
		return nil
	})
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.v.do(func(st *state) error {
		if c, ok := st.categories[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	return r.v.do(func(st *state) error {
		cur, ok := st.categories[c.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if categoryNameTaken(st, c.Name, c.ID) {
			return domain.ErrDuplicate
		}
		next := *c
		next.CreatedAt = cur.CreatedAt
		st.categories[c.ID] = next
		return nil
	})
}

func (r *CategoryRepo) List(_ context.Context) ([]*repository.CategoryWithCount, error) {
	var out []*repository.CategoryWithCount
	err := r.v.do(func(st *state) error {
		counts := map[string]int{}
		for _, p := range st.products {
			if p.CategoryID != "" {
				counts[p.CategoryID]++
			}
		}
		out = make([]*repository.CategoryWithCount, 0, len(st.categories))
		for _, c := range st.categories {
			c := c
			out = append(out, &repository.CategoryWithCount{Category: &c, ProductCount: counts[c.ID]})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Category.Name < out[j].Category.Name })
		return nil
	})
	return out, err
}

func (r *CategoryRepo) CountProducts(_ context.Context, id string) (int, error) {
	var n int
	err := r.v.do(func(st *state) error {
		for _, p := range st.products {
			if p.CategoryID == id {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.categories[id]; !ok {
			return domain.ErrNotFound
		}
		for _, p := range st.products {
			if p.CategoryID == id {
				return domain.ErrConflict
			}
		}
		delete(st.categories, id)
		return nil
	})
}

func categoryNameTaken(st *state, name, exceptID string) bool {
	for id, c := range st.categories {
		if id != exceptID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}
