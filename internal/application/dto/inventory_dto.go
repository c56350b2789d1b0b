package dto

import "time"

// RegisterMovementRequest body para POST /api/inventory/movements.
type RegisterMovementRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Type      string `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity  int    `json:"quantity" validate:"min=0"`
	Reference string `json:"reference" validate:"max=200"`
	Notes     string `json:"notes"`
}

// UpdateMovementRequest solo referencia y notas; la cantidad nunca se reaplica.
type UpdateMovementRequest struct {
	Reference *string `json:"reference" validate:"omitempty,max=200"`
	Notes     *string `json:"notes"`
}

// MovementListQuery filtros del listado de movimientos.
type MovementListQuery struct {
	PageRequest
	ProductID string `query:"product_id" validate:"omitempty,uuid"`
	Type      string `query:"type" validate:"omitempty,oneof=IN OUT ADJUSTMENT"`
}

// MovementResponse salida de un movimiento de stock.
type MovementResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Type      string    `json:"type"`
	TypeLabel string    `json:"type_label"`
	Quantity  int       `json:"quantity"`
	Reference string    `json:"reference"`
	Notes     string    `json:"notes"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ApplyMovementResponse producto resultante y movimiento registrado.
type ApplyMovementResponse struct {
	Product  ProductResponse  `json:"product"`
	Movement MovementResponse `json:"movement"`
}
