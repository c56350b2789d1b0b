package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout formato de fechas de emisión, vencimiento y pago en el API.
const DateLayout = "2006-01-02"

// CreateInvoiceRequest body para POST /api/invoices.
// DueDate vacío = IssueDate + 30 días.
type CreateInvoiceRequest struct {
	OrderID       string          `json:"order_id" validate:"required,uuid"`
	InvoiceNumber string          `json:"invoice_number" validate:"max=50"`
	IssueDate     string          `json:"issue_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate       string          `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	TaxRate       decimal.Decimal `json:"tax_rate" validate:"gte=0,lte=100"`
	Discount      decimal.Decimal `json:"discount" validate:"gte=0"`
	Notes         string          `json:"notes"`
}

// RecordPaymentRequest body para POST /api/invoices/:id/payments. Se acepta sobrepago.
type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	Method      string          `json:"method" validate:"required,oneof=CASH BANK_TRANSFER CREDIT_CARD CHEQUE"`
	Reference   string          `json:"reference" validate:"max=100"`
	Notes       string          `json:"notes"`
	PaymentDate string          `json:"payment_date" validate:"omitempty,datetime=2006-01-02"`
}

// InvoiceListQuery filtros del listado de facturas.
type InvoiceListQuery struct {
	PageRequest
	Status string `query:"status" validate:"omitempty,oneof=PENDING PAID CANCELLED"`
}

// PaymentResponse salida de un pago.
type PaymentResponse struct {
	ID          string          `json:"id"`
	InvoiceID   string          `json:"invoice_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	MethodLabel string          `json:"method_label"`
	Reference   string          `json:"reference"`
	Notes       string          `json:"notes"`
	PaymentDate time.Time       `json:"payment_date"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// InvoiceResponse factura con totales, total pagado y saldo.
type InvoiceResponse struct {
	ID            string            `json:"id"`
	InvoiceNumber string            `json:"invoice_number"`
	OrderID       string            `json:"order_id"`
	OrderNumber   string            `json:"order_number,omitempty"`
	Status        string            `json:"status"`
	StatusLabel   string            `json:"status_label"`
	IssueDate     string            `json:"issue_date"`
	DueDate       string            `json:"due_date"`
	TaxRate       decimal.Decimal   `json:"tax_rate"`
	Discount      decimal.Decimal   `json:"discount"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	TaxAmount     decimal.Decimal   `json:"tax_amount"`
	TotalAmount   decimal.Decimal   `json:"total_amount"`
	TotalPaid     decimal.Decimal   `json:"total_paid"`
	BalanceDue    decimal.Decimal   `json:"balance_due"`
	Notes         string            `json:"notes"`
	CreatedBy     string            `json:"created_by"`
	Payments      []PaymentResponse `json:"payments,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// InvoiceListResponse lista paginada de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// RecordPaymentResponse pago registrado y estado resultante de la factura.
type RecordPaymentResponse struct {
	Payment PaymentResponse `json:"payment"`
	Invoice InvoiceResponse `json:"invoice"`
}
