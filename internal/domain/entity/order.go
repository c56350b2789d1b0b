package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado de un pedido.
type OrderStatus string

// Estados de pedido.
const (
	OrderPending    OrderStatus = "PENDING"
	OrderInProgress OrderStatus = "IN_PROGRESS"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderCancelled  OrderStatus = "CANCELLED"
	OrderRejected   OrderStatus = "REJECTED"
)

// OrderStatuses lista cerrada de estados válidos.
var OrderStatuses = []OrderStatus{OrderPending, OrderInProgress, OrderCompleted, OrderCancelled, OrderRejected}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderInProgress, OrderCompleted, OrderCancelled, OrderRejected},
	OrderInProgress: {OrderCompleted, OrderCancelled, OrderRejected},
}

// Valid indica si el estado pertenece a la lista cerrada.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderInProgress, OrderCompleted, OrderCancelled, OrderRejected:
		return true
	}
	return false
}

// IsOpen indica si el pedido admite cambios en sus líneas.
func (s OrderStatus) IsOpen() bool {
	return s == OrderPending || s == OrderInProgress
}

// CanTransitionTo indica si el cambio de estado está permitido.
// COMPLETED, CANCELLED y REJECTED son terminales.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order cabecera de un pedido de cliente. Los totales se derivan de Items.
type Order struct {
	ID        string
	Number    string // único
	ClientID  string
	Status    OrderStatus
	Notes     string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
	Items     []*OrderItem
}

// TotalAmount suma de subtotales de las líneas.
func (o *Order) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// TotalItems suma de cantidades de las líneas.
func (o *Order) TotalItems() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// OrderItem línea de pedido. Price es una copia del precio de venta al crear la línea.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	Price     decimal.Decimal
	Notes     string
	CreatedAt time.Time
}

// Subtotal cantidad * precio.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
