package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea de pedido. Price omitido = precio de venta actual del producto.
type OrderItemRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  int              `json:"quantity" validate:"min=1"`
	Price     *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Notes     string           `json:"notes"`
}

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	ClientID    string             `json:"client_id" validate:"required,uuid"`
	OrderNumber string             `json:"order_number" validate:"max=50"`
	Notes       string             `json:"notes"`
	Items       []OrderItemRequest `json:"items" validate:"dive"`
}

// ChangeOrderStatusRequest body para PATCH /api/orders/:id/status.
type ChangeOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED REJECTED"`
}

// OrderListQuery filtros del listado de pedidos.
type OrderListQuery struct {
	PageRequest
	Status   string `query:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED REJECTED"`
	ClientID string `query:"client_id" validate:"omitempty,uuid"`
}

// OrderItemResponse línea de pedido con subtotal.
type OrderItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Notes     string          `json:"notes"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderResponse pedido con líneas y totales derivados.
type OrderResponse struct {
	ID          string              `json:"id"`
	OrderNumber string              `json:"order_number"`
	ClientID    string              `json:"client_id"`
	Status      string              `json:"status"`
	StatusLabel string              `json:"status_label"`
	Notes       string              `json:"notes"`
	CreatedBy   string              `json:"created_by"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	TotalItems  int                 `json:"total_items"`
	Items       []OrderItemResponse `json:"items"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
