package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-pedidos/internal/application/ports"
	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/domain/numbering"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
	"github.com/jhoicas/inventario-pedidos/pkg/logger"
	"github.com/shopspring/decimal"
)

// DefaultPageSize tamaño de página del listado de facturas.
const DefaultPageSize = 20

var maxTaxRate = decimal.NewFromInt(100)

// CreateInvoiceInput entrada para facturar un pedido.
// Number vacío = INV{AAAAMMDDHHMM}; IssueDate cero = hoy; DueDate nil = emisión + 30 días.
type CreateInvoiceInput struct {
	OrderID   string
	Number    string
	IssueDate time.Time
	DueDate   *time.Time
	TaxRate   decimal.Decimal
	Discount  decimal.Decimal
	Notes     string
}

// InvoiceView factura con su pedido cargado, pagos y total pagado.
type InvoiceView struct {
	Invoice   *entity.Invoice
	Payments  []*entity.Payment
	TotalPaid decimal.Decimal
}

// BalanceDue saldo pendiente de la factura.
func (v *InvoiceView) BalanceDue() decimal.Decimal {
	return v.Invoice.BalanceDue(v.TotalPaid)
}

// InvoiceUseCase crea, consulta y anula facturas. El paso a PAID lo hace solo SettlementUseCase.
type InvoiceUseCase struct {
	txRunner    BillingTxRunner
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
	itemRepo    repository.OrderItemRepository
	locker      ports.Locker
	numbers     *numbering.Generator
	log         *logger.Logger
	now         func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	itemRepo repository.OrderItemRepository,
	locker ports.Locker,
	log *logger.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		itemRepo:    itemRepo,
		locker:      locker,
		numbers:     numbering.InvoiceNumbers(time.Now),
		log:         log.Component("invoices"),
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj usado para fechas y números (tests).
func (uc *InvoiceUseCase) WithClock(now func() time.Time) *InvoiceUseCase {
	uc.now = now
	uc.numbers = numbering.InvoiceNumbers(now)
	return uc
}

// Create factura un pedido. Un pedido admite una sola factura (ErrDuplicate)
// y un pedido cancelado o rechazado no se factura (ErrConflict).
func (uc *InvoiceUseCase) Create(ctx context.Context, actorID string, in CreateInvoiceInput) (*InvoiceView, error) {
	if actorID == "" || in.OrderID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidMoney(in.TaxRate) || in.TaxRate.GreaterThan(maxTaxRate) || !entity.ValidMoney(in.Discount) {
		return nil, domain.ErrInvalidInput
	}
	issue := in.IssueDate
	if issue.IsZero() {
		issue = truncateDay(uc.now())
	}
	due := entity.DefaultDueDate(issue)
	if in.DueDate != nil {
		due = *in.DueDate
	}
	if due.Before(issue) {
		return nil, domain.ErrInvalidInput
	}

	// Mismo bloqueo que los cambios de líneas: el total facturado sale de ellas.
	unlock, err := uc.locker.Acquire(ctx, ports.OrderKey(in.OrderID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var inv *entity.Invoice
	number, err := uc.numbers.Retry(in.Number, func(number string) error {
		return uc.txRunner.RunBilling(ctx, func(
			invoiceRepo repository.InvoiceRepository,
			_ repository.PaymentRepository,
			orderRepo repository.OrderRepository,
			itemRepo repository.OrderItemRepository,
		) error {
			locked, err := orderRepo.GetForUpdate(ctx, in.OrderID)
			if err != nil {
				return err
			}
			if locked == nil {
				return domain.ErrNotFound
			}
			order, err := loadOrder(ctx, orderRepo, itemRepo, in.OrderID)
			if err != nil {
				return err
			}
			if order.Status == entity.OrderCancelled || order.Status == entity.OrderRejected {
				return domain.ErrConflict
			}
			existing, err := invoiceRepo.GetByOrderID(ctx, in.OrderID)
			if err != nil {
				return err
			}
			if existing != nil {
				return domain.ErrDuplicate
			}
			now := uc.now()
			i := &entity.Invoice{
				ID:        uuid.New().String(),
				Number:    number,
				OrderID:   in.OrderID,
				Status:    entity.InvoicePending,
				IssueDate: issue,
				DueDate:   due,
				TaxRate:   in.TaxRate,
				Discount:  in.Discount,
				Notes:     in.Notes,
				CreatedBy: actorID,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := invoiceRepo.Create(ctx, i); err != nil {
				return err
			}
			i.Order = order
			inv = i
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("number", number).
		Str("order_id", in.OrderID).
		Str("total", inv.TotalAmount().StringFixed(2)).
		Msg("factura creada")
	return &InvoiceView{Invoice: inv, TotalPaid: decimal.Zero}, nil
}

// Get obtiene la factura con pedido, pagos y total pagado.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*InvoiceView, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	order, err := loadOrder(ctx, uc.orderRepo, uc.itemRepo, inv.OrderID)
	if err != nil {
		return nil, err
	}
	inv.Order = order
	payments, err := uc.paymentRepo.ListByInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	return &InvoiceView{Invoice: inv, Payments: payments, TotalPaid: paid}, nil
}

// List lista facturas con totales y total pagado (sin el detalle de pagos).
func (uc *InvoiceUseCase) List(ctx context.Context, f repository.InvoiceFilter) ([]*InvoiceView, int, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, domain.ErrInvalidInput
	}
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	list, total, err := uc.invoiceRepo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	orderIDs := make([]string, 0, len(list))
	for _, inv := range list {
		orderIDs = append(orderIDs, inv.OrderID)
	}
	items, err := uc.itemRepo.ListByOrders(ctx, orderIDs)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*InvoiceView, 0, len(list))
	for _, inv := range list {
		order, err := uc.orderRepo.GetByID(ctx, inv.OrderID)
		if err != nil {
			return nil, 0, err
		}
		if order != nil {
			order.Items = items[order.ID]
			inv.Order = order
		}
		paid, err := uc.paymentRepo.SumByInvoice(ctx, inv.ID)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, &InvoiceView{Invoice: inv, TotalPaid: paid})
	}
	return out, total, nil
}

// Cancel anula una factura PENDING. PAID y CANCELLED devuelven ErrConflict.
func (uc *InvoiceUseCase) Cancel(ctx context.Context, actorID, id string) (*entity.Invoice, error) {
	if actorID == "" || id == "" {
		return nil, domain.ErrInvalidInput
	}
	unlock, err := uc.locker.Acquire(ctx, ports.InvoiceKey(id))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var inv *entity.Invoice
	err = uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		_ repository.PaymentRepository,
		orderRepo repository.OrderRepository,
		itemRepo repository.OrderItemRepository,
	) error {
		i, err := invoiceRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if i == nil {
			return domain.ErrNotFound
		}
		if i.Status != entity.InvoicePending {
			return domain.ErrConflict
		}
		now := uc.now()
		if err := invoiceRepo.UpdateStatus(ctx, id, entity.InvoiceCancelled, now); err != nil {
			return err
		}
		i.Status = entity.InvoiceCancelled
		i.UpdatedAt = now
		if i.Order, err = loadOrder(ctx, orderRepo, itemRepo, i.OrderID); err != nil {
			return err
		}
		inv = i
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("invoice_id", id).Str("actor", actorID).Msg("factura anulada")
	return inv, nil
}

// loadOrder carga el pedido con sus líneas; nil se traduce a ErrNotFound.
func loadOrder(ctx context.Context, orderRepo repository.OrderRepository, itemRepo repository.OrderItemRepository, id string) (*entity.Order, error) {
	order, err := orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Items, err = itemRepo.ListByOrder(ctx, id); err != nil {
		return nil, err
	}
	return order, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
