package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultReorderLevel umbral de stock bajo cuando el producto no define otro.
const DefaultReorderLevel = 10

var hundred = decimal.NewFromInt(100)

// Product representa un producto del inventario.
// Quantity solo se modifica a través del libro de stock (movimientos IN/OUT/ADJUSTMENT).
type Product struct {
	ID           string
	CategoryID   string
	SKU          string // único
	Name         string
	Description  string
	Quantity     int
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
	ReorderLevel int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLowStock indica si la cantidad está en o por debajo del punto de reorden.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.ReorderLevel
}

// ProfitMargin devuelve (venta - costo) / costo * 100, o 0 si el costo es cero.
func (p *Product) ProfitMargin() decimal.Decimal {
	if p.CostPrice.IsZero() {
		return decimal.Zero
	}
	return p.SellingPrice.Sub(p.CostPrice).Div(p.CostPrice).Mul(hundred)
}

// StockValue valor de las existencias a precio de costo.
func (p *Product) StockValue() decimal.Decimal {
	return p.CostPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}
