package repository

import (
	"context"

	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
)

// MovementFilter criterios del listado de movimientos (más recientes primero).
type MovementFilter struct {
	ProductID string
	Type      entity.MovementType
	Limit     int
	Offset    int
}

// StockMovementRepository define el puerto de persistencia para movimientos de stock (DIP).
// No existe borrado: los movimientos son inmutables salvo referencia y notas.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	// UpdateDetails actualiza solo Reference y Notes.
	UpdateDetails(ctx context.Context, movement *entity.StockMovement) error
	List(ctx context.Context, f MovementFilter) ([]*entity.StockMovement, int, error)
}
