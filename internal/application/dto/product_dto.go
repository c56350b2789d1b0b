package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// Quantity > 0 se registra como movimiento IN "Initial Stock".
type CreateProductRequest struct {
	CategoryID   string          `json:"category_id" validate:"omitempty,uuid"`
	SKU          string          `json:"sku" validate:"required,min=1,max=50"`
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Description  string          `json:"description"`
	Quantity     int             `json:"quantity" validate:"min=0"`
	CostPrice    decimal.Decimal `json:"cost_price" validate:"gte=0"`
	SellingPrice decimal.Decimal `json:"selling_price" validate:"gte=0"`
	ReorderLevel *int            `json:"reorder_level" validate:"omitempty,min=0"`
	IsActive     *bool           `json:"is_active"`
}

// UpdateProductRequest entrada para actualizar un producto.
// Un cambio de Quantity se registra como movimiento "Manual Adjustment".
type UpdateProductRequest struct {
	CategoryID   *string          `json:"category_id" validate:"omitempty,uuid"`
	SKU          *string          `json:"sku" validate:"omitempty,min=1,max=50"`
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description"`
	Quantity     *int             `json:"quantity" validate:"omitempty,min=0"`
	CostPrice    *decimal.Decimal `json:"cost_price" validate:"omitempty,gte=0"`
	SellingPrice *decimal.Decimal `json:"selling_price" validate:"omitempty,gte=0"`
	ReorderLevel *int             `json:"reorder_level" validate:"omitempty,min=0"`
	IsActive     *bool            `json:"is_active"`
}

// ProductListQuery filtros del listado de productos.
type ProductListQuery struct {
	PageRequest
	Search     string `query:"search"`
	CategoryID string `query:"category_id" validate:"omitempty,uuid"`
	ActiveOnly bool   `query:"active"`
	Sort       string `query:"sort"`
}

// ProductResponse salida de un producto con sus derivados.
type ProductResponse struct {
	ID           string          `json:"id"`
	CategoryID   string          `json:"category_id,omitempty"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Quantity     int             `json:"quantity"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	ReorderLevel int             `json:"reorder_level"`
	IsActive     bool            `json:"is_active"`
	IsLowStock   bool            `json:"is_low_stock"`
	ProfitMargin decimal.Decimal `json:"profit_margin"`
	StockValue   decimal.Decimal `json:"stock_value"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductSummaryResponse totales sobre el conjunto filtrado.
type ProductSummaryResponse struct {
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
	LowStockCount   int             `json:"low_stock_count"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items   []ProductResponse      `json:"items"`
	Page    PageResponse           `json:"page"`
	Summary ProductSummaryResponse `json:"summary"`
}

// ProductDetailResponse producto con sus últimos movimientos.
type ProductDetailResponse struct {
	ProductResponse
	RecentMovements []MovementResponse `json:"recent_movements"`
}
