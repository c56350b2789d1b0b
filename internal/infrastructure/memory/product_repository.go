package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct {
	v view
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		if skuTaken(st, p.SKU, p.ID) {
			return domain.ErrDuplicate
		}
		if p.CategoryID != "" {
			if _, ok := st.categories[p.CategoryID]; !ok {
				return domain.ErrNotFound
			}
		}
		st.products[p.ID] = *p
		st.track(p.ID)
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.do(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: la transacción en memoria ya es exclusiva.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.do(func(st *state) error {
		for _, p := range st.products {
			if p.SKU == sku {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.v.do(func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if skuTaken(st, p.SKU, p.ID) {
			return domain.ErrDuplicate
		}
		if p.CategoryID != "" {
			if _, ok := st.categories[p.CategoryID]; !ok {
				return domain.ErrNotFound
			}
		}
		next := *p
		next.Quantity = cur.Quantity
		next.CreatedAt = cur.CreatedAt
		st.products[p.ID] = next
		return nil
	})
}

func (r *ProductRepo) UpdateQuantity(_ context.Context, id string, quantity int, updatedAt time.Time) error {
	return r.v.do(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		if quantity < 0 {
			return domain.ErrInvalidInput
		}
		p.Quantity = quantity
		p.UpdatedAt = updatedAt
		st.products[id] = p
		return nil
	})
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	var out []*entity.Product
	var total int
	err := r.v.do(func(st *state) error {
		list := filterProducts(st, f)
		sortProducts(st, list, f.Sort)
		total = len(list)
		out = page(list, f.Limit, f.Offset)
		return nil
	})
	return out, total, err
}

func (r *ProductRepo) Summary(_ context.Context, f repository.ProductFilter) (*repository.ProductSummary, error) {
	out := &repository.ProductSummary{TotalStockValue: decimal.Zero}
	err := r.v.do(func(st *state) error {
		for _, p := range filterProducts(st, f) {
			out.TotalStockValue = out.TotalStockValue.Add(p.StockValue())
			if p.IsLowStock() {
				out.LowStockCount++
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) ListLowStock(_ context.Context, limit int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.v.do(func(st *state) error {
		list := filterProducts(st, repository.ProductFilter{ActiveOnly: true})
		low := list[:0]
		for _, p := range list {
			if p.IsLowStock() {
				low = append(low, p)
			}
		}
		sort.SliceStable(low, func(i, j int) bool {
			if low[i].Quantity != low[j].Quantity {
				return low[i].Quantity < low[j].Quantity
			}
			return low[i].Name < low[j].Name
		})
		out = page(low, limit, 0)
		return nil
	})
	return out, err
}

// Delete borra el producto. Con líneas de pedido o movimientos devuelve ErrConflict.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return domain.ErrNotFound
		}
		for _, it := range st.items {
			if it.ProductID == id {
				return domain.ErrConflict
			}
		}
		for _, m := range st.movements {
			if m.ProductID == id {
				return domain.ErrConflict
			}
		}
		delete(st.products, id)
		return nil
	})
}

func skuTaken(st *state, sku, exceptID string) bool {
	for id, p := range st.products {
		if id != exceptID && p.SKU == sku {
			return true
		}
	}
	return false
}

func filterProducts(st *state, f repository.ProductFilter) []*entity.Product {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]*entity.Product, 0, len(st.products))
	for _, p := range st.products {
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.ActiveOnly && !p.IsActive {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.SKU), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		p := p
		out = append(out, &p)
	}
	return out
}

// sortProducts ordena por el criterio pedido (por defecto nombre) y desempata por inserción.
func sortProducts(st *state, list []*entity.Product, by string) {
	less := func(a, b *entity.Product) int {
		switch by {
		case repository.ProductSortQuantity:
			return a.Quantity - b.Quantity
		case repository.ProductSortQuantityDesc:
			return b.Quantity - a.Quantity
		case repository.ProductSortPrice:
			return a.SellingPrice.Cmp(b.SellingPrice)
		case repository.ProductSortPriceDesc:
			return b.SellingPrice.Cmp(a.SellingPrice)
		case repository.ProductSortNameDesc:
			return strings.Compare(b.Name, a.Name)
		default:
			return strings.Compare(a.Name, b.Name)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if c := less(list[i], list[j]); c != 0 {
			return c < 0
		}
		return st.rank[list[i].ID] < st.rank[list[j].ID]
	})
}
