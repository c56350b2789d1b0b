package billing

import (
	"context"

	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// BillingTxRunner ejecuta una función dentro de una transacción con los repos de facturación.
// orderRepo e itemRepo permiten cargar el pedido para calcular totales en la misma transacción.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
		orderRepo repository.OrderRepository,
		itemRepo repository.OrderItemRepository,
	) error) error
}

// InvoiceLine línea de factura para la representación gráfica.
type InvoiceLine struct {
	ProductName string
	SKU         string
	Quantity    int
	Price       decimal.Decimal
	Subtotal    decimal.Decimal
}

// InvoiceDocument datos completos para generar el PDF de una factura.
type InvoiceDocument struct {
	Invoice   *entity.Invoice
	Client    *entity.Client
	Lines     []InvoiceLine
	Payments  []*entity.Payment
	TotalPaid decimal.Decimal
}

// InvoicePDFGenerator genera el PDF de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}
