package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus estado de una factura.
type InvoiceStatus string

// Estados de factura.
const (
	InvoicePending   InvoiceStatus = "PENDING"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// InvoiceStatuses lista cerrada de estados válidos.
var InvoiceStatuses = []InvoiceStatus{InvoicePending, InvoicePaid, InvoiceCancelled}

// DefaultDueDays días entre emisión y vencimiento cuando no se indica fecha.
const DefaultDueDays = 30

// Valid indica si el estado pertenece a la lista cerrada.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoicePending, InvoicePaid, InvoiceCancelled:
		return true
	}
	return false
}

// Invoice factura de un pedido (una por pedido).
// Order debe estar cargado con sus líneas para calcular los totales.
type Invoice struct {
	ID        string
	Number    string // único
	OrderID   string
	Status    InvoiceStatus
	IssueDate time.Time
	DueDate   time.Time
	TaxRate   decimal.Decimal // porcentaje, ej. 10 = 10%
	Discount  decimal.Decimal // monto
	Notes     string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
	Order     *Order
}

// DefaultDueDate fecha de vencimiento por defecto: emisión + 30 días.
func DefaultDueDate(issue time.Time) time.Time {
	return issue.AddDate(0, 0, DefaultDueDays)
}

// Subtotal total del pedido asociado.
func (i *Invoice) Subtotal() decimal.Decimal {
	if i.Order == nil {
		return decimal.Zero
	}
	return i.Order.TotalAmount()
}

// TaxAmount subtotal * tasa / 100.
func (i *Invoice) TaxAmount() decimal.Decimal {
	return i.Subtotal().Mul(i.TaxRate).Div(hundred)
}

// TotalAmount subtotal + impuesto - descuento.
func (i *Invoice) TotalAmount() decimal.Decimal {
	return i.Subtotal().Add(i.TaxAmount()).Sub(i.Discount)
}

// BalanceDue total menos lo pagado; negativo si hubo sobrepago.
func (i *Invoice) BalanceDue(totalPaid decimal.Decimal) decimal.Decimal {
	return i.TotalAmount().Sub(totalPaid)
}

// Settle marca la factura como pagada si totalPaid cubre el total.
// Devuelve true solo cuando hubo transición; solo una factura PENDING cambia.
func (i *Invoice) Settle(totalPaid decimal.Decimal) bool {
	if i.Status != InvoicePending {
		return false
	}
	if totalPaid.LessThan(i.TotalAmount()) {
		return false
	}
	i.Status = InvoicePaid
	return true
}
