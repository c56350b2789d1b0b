package entity

import "time"

// MovementType tipo de movimiento del libro de stock.
type MovementType string

// Tipos de movimiento de inventario.
const (
	MovementIn         MovementType = "IN"         // entrada: suma
	MovementOut        MovementType = "OUT"        // salida: resta si hay existencias
	MovementAdjustment MovementType = "ADJUSTMENT" // ajuste: fija la cantidad absoluta
)

// Referencias usadas por los movimientos que genera el propio sistema.
const (
	ReferenceInitialStock     = "Initial Stock"
	ReferenceManualAdjustment = "Manual Adjustment"
)

// MovementTypes lista cerrada de tipos válidos.
var MovementTypes = []MovementType{MovementIn, MovementOut, MovementAdjustment}

// Valid indica si el tipo pertenece a la lista cerrada.
func (t MovementType) Valid() bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjustment:
		return true
	}
	return false
}

// StockMovement registro inmutable de un evento del libro de stock.
// Solo Reference y Notes pueden editarse después de creado; la cantidad nunca se reaplica.
type StockMovement struct {
	ID        string
	ProductID string
	Type      MovementType
	Quantity  int
	Reference string
	Notes     string
	CreatedBy string // UserID
	CreatedAt time.Time
}
