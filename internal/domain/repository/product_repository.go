package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Órdenes admitidos para el listado de productos (prefijo "-" = descendente).
const (
	ProductSortName         = "name"
	ProductSortNameDesc     = "-name"
	ProductSortQuantity     = "quantity"
	ProductSortQuantityDesc = "-quantity"
	ProductSortPrice        = "price"
	ProductSortPriceDesc    = "-price"
)

// ValidProductSort indica si el orden solicitado está en la lista blanca.
func ValidProductSort(s string) bool {
	switch s {
	case "", ProductSortName, ProductSortNameDesc, ProductSortQuantity, ProductSortQuantityDesc,
		ProductSortPrice, ProductSortPriceDesc:
		return true
	}
	return false
}

// ProductFilter criterios del listado de productos.
type ProductFilter struct {
	Search     string // nombre, sku o descripción (sin distinguir mayúsculas)
	CategoryID string
	ActiveOnly bool
	Sort       string
	Limit      int
	Offset     int
}

// ProductSummary agregados sobre el conjunto filtrado (sin paginar).
type ProductSummary struct {
	TotalStockValue decimal.Decimal // Σ quantity * cost_price
	LowStockCount   int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// Update modifica los datos descriptivos; nunca la cantidad.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateQuantity uso exclusivo del libro de stock.
	UpdateQuantity(ctx context.Context, id string, quantity int, updatedAt time.Time) error
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, int, error)
	Summary(ctx context.Context, f ProductFilter) (*ProductSummary, error)
	// ListLowStock productos activos con quantity <= reorder_level, por cantidad ascendente.
	ListLowStock(ctx context.Context, limit int) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
