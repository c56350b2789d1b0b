package dto

import (
	"strings"

	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Etiquetas de presentación; los códigos persistidos son los valores de los enums.
var (
	movementLabels = map[entity.MovementType]string{
		entity.MovementIn:         "Stock In",
		entity.MovementOut:        "Stock Out",
		entity.MovementAdjustment: "Stock Adjustment",
	}
	orderStatusLabels = map[entity.OrderStatus]string{
		entity.OrderPending:    "Pending",
		entity.OrderInProgress: "In Progress",
		entity.OrderCompleted:  "Completed",
		entity.OrderCancelled:  "Cancelled",
		entity.OrderRejected:   "Rejected",
	}
	invoiceStatusLabels = map[entity.InvoiceStatus]string{
		entity.InvoicePending:   "Pending",
		entity.InvoicePaid:      "Paid",
		entity.InvoiceCancelled: "Cancelled",
	}
	paymentMethodLabels = map[entity.PaymentMethod]string{
		entity.PaymentCash:         "Cash",
		entity.PaymentBankTransfer: "Bank Transfer",
		entity.PaymentCreditCard:   "Credit Card",
		entity.PaymentCheque:       "Cheque",
	}
)

// LabelDTO par código/etiqueta.
type LabelDTO struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// LabelsResponse respuesta de GET /api/meta/labels.
type LabelsResponse struct {
	MovementTypes   []LabelDTO `json:"movement_types"`
	OrderStatuses   []LabelDTO `json:"order_statuses"`
	InvoiceStatuses []LabelDTO `json:"invoice_statuses"`
	PaymentMethods  []LabelDTO `json:"payment_methods"`
}

// MovementLabel etiqueta de un tipo de movimiento.
func MovementLabel(t entity.MovementType) string {
	return lookup(movementLabels, t)
}

// OrderStatusLabel etiqueta de un estado de pedido.
func OrderStatusLabel(s entity.OrderStatus) string {
	return lookup(orderStatusLabels, s)
}

// InvoiceStatusLabel etiqueta de un estado de factura.
func InvoiceStatusLabel(s entity.InvoiceStatus) string {
	return lookup(invoiceStatusLabels, s)
}

// PaymentMethodLabel etiqueta de un método de pago.
func PaymentMethodLabel(m entity.PaymentMethod) string {
	return lookup(paymentMethodLabels, m)
}

// Labels todas las etiquetas en el orden de declaración de cada enum.
func Labels() LabelsResponse {
	out := LabelsResponse{}
	for _, t := range entity.MovementTypes {
		out.MovementTypes = append(out.MovementTypes, LabelDTO{Code: string(t), Label: MovementLabel(t)})
	}
	for _, s := range entity.OrderStatuses {
		out.OrderStatuses = append(out.OrderStatuses, LabelDTO{Code: string(s), Label: OrderStatusLabel(s)})
	}
	for _, s := range entity.InvoiceStatuses {
		out.InvoiceStatuses = append(out.InvoiceStatuses, LabelDTO{Code: string(s), Label: InvoiceStatusLabel(s)})
	}
	for _, m := range entity.PaymentMethods {
		out.PaymentMethods = append(out.PaymentMethods, LabelDTO{Code: string(m), Label: PaymentMethodLabel(m)})
	}
	return out
}

// lookup devuelve la etiqueta registrada o, si no existe, el código en formato título
// ("SOME_CODE" → "Some Code").
func lookup[K ~string](labels map[K]string, code K) string {
	if l, ok := labels[code]; ok {
		return l
	}
	words := strings.ToLower(strings.ReplaceAll(string(code), "_", " "))
	return cases.Title(language.English).String(words)
}
