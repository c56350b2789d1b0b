package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// InvoiceFilter criterios del listado de facturas (emisión más reciente primero).
type InvoiceFilter struct {
	Status entity.InvoiceStatus
	Limit  int
	Offset int
}

// InvoiceRepository define el puerto de persistencia para Invoice (DIP). No carga Order.
type InvoiceRepository interface {
	// Create devuelve ErrUniquenessConflict si el número existe y ErrDuplicate si el pedido ya tiene factura.
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	GetByOrderID(ctx context.Context, orderID string) (*entity.Invoice, error)
	UpdateStatus(ctx context.Context, id string, status entity.InvoiceStatus, updatedAt time.Time) error
	List(ctx context.Context, f InvoiceFilter) ([]*entity.Invoice, int, error)
}

// PaymentRepository define el puerto de persistencia para Payment (DIP).
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	// ListByInvoice ordenado por fecha de pago descendente.
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Payment, error)
	SumByInvoice(ctx context.Context, invoiceID string) (decimal.Decimal, error)
}
