package inventory

import (
	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
)

// NextQuantity aplica la regla del libro de stock (servicio de dominio):
//
//	IN         -> actual + cantidad
//	OUT        -> actual - cantidad, solo si actual >= cantidad
//	ADJUSTMENT -> cantidad (valor absoluto)
//
// No modifica el producto; el caller persiste el resultado junto con el movimiento.
func NextQuantity(p *entity.Product, t entity.MovementType, qty int) (int, error) {
	if qty < 0 {
		return 0, domain.ErrInvalidInput
	}
	switch t {
	case entity.MovementIn:
		return p.Quantity + qty, nil
	case entity.MovementOut:
		if p.Quantity < qty {
			return 0, &domain.InsufficientStockError{ProductID: p.ID, Available: p.Quantity, Requested: qty}
		}
		return p.Quantity - qty, nil
	case entity.MovementAdjustment:
		return qty, nil
	}
	return 0, domain.ErrInvalidInput
}

// Delta traduce un cambio manual de cantidad en el movimiento IN/OUT equivalente.
// ok es false si no hay diferencia.
func Delta(current, target int) (t entity.MovementType, qty int, ok bool) {
	switch {
	case target > current:
		return entity.MovementIn, target - current, true
	case target < current:
		return entity.MovementOut, current - target, true
	}
	return "", 0, false
}
