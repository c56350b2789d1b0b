package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-pedidos/internal/application/ports"
	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
	"github.com/jhoicas/inventario-pedidos/pkg/logger"
	"github.com/shopspring/decimal"
)

// RecordPaymentInput pago a registrar. PaymentDate cero = ahora.
type RecordPaymentInput struct {
	Amount      decimal.Decimal
	Method      entity.PaymentMethod
	Reference   string
	Notes       string
	PaymentDate time.Time
}

// SettlementUseCase registra pagos y deriva el estado PAID de la factura.
// Es el único camino que marca una factura como pagada.
type SettlementUseCase struct {
	txRunner BillingTxRunner
	locker   ports.Locker
	log      *logger.Logger
	now      func() time.Time
}

// NewSettlementUseCase construye el caso de uso.
func NewSettlementUseCase(txRunner BillingTxRunner, locker ports.Locker, log *logger.Logger) *SettlementUseCase {
	return &SettlementUseCase{
		txRunner: txRunner,
		locker:   locker,
		log:      log.Component("settlement"),
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *SettlementUseCase) WithClock(now func() time.Time) *SettlementUseCase {
	uc.now = now
	return uc
}

// RecordPayment persiste el pago, recalcula el total pagado y, si cubre el total,
// pasa la factura a PAID. El sobrepago se acepta. Pagos sobre una factura anulada: ErrConflict.
// Un monto con más de dos decimales es ErrInvalidInput.
// La secuencia corre bajo el bloqueo invoice:<id> y con la fila de la factura bloqueada.
func (uc *SettlementUseCase) RecordPayment(ctx context.Context, actorID, invoiceID string, in RecordPaymentInput) (*entity.Payment, *entity.Invoice, error) {
	if actorID == "" || invoiceID == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	if !in.Amount.IsPositive() || !entity.ValidMoney(in.Amount) || !in.Method.Valid() {
		return nil, nil, domain.ErrInvalidInput
	}
	unlock, err := uc.locker.Acquire(ctx, ports.InvoiceKey(invoiceID))
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	var payment *entity.Payment
	var inv *entity.Invoice
	var settled bool
	var totalPaid decimal.Decimal
	err = uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
		orderRepo repository.OrderRepository,
		itemRepo repository.OrderItemRepository,
	) error {
		i, err := invoiceRepo.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if i == nil {
			return domain.ErrNotFound
		}
		if i.Status == entity.InvoiceCancelled {
			return domain.ErrConflict
		}
		if i.Order, err = loadOrder(ctx, orderRepo, itemRepo, i.OrderID); err != nil {
			return err
		}

		now := uc.now()
		paidAt := in.PaymentDate
		if paidAt.IsZero() {
			paidAt = now
		}
		p := &entity.Payment{
			ID:          uuid.New().String(),
			InvoiceID:   invoiceID,
			Amount:      in.Amount,
			Method:      in.Method,
			Reference:   in.Reference,
			Notes:       in.Notes,
			PaymentDate: paidAt,
			CreatedBy:   actorID,
			CreatedAt:   now,
		}
		if err := paymentRepo.Create(ctx, p); err != nil {
			return err
		}
		totalPaid, err = paymentRepo.SumByInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		if i.Settle(totalPaid) {
			if err := invoiceRepo.UpdateStatus(ctx, invoiceID, i.Status, now); err != nil {
				return err
			}
			i.UpdatedAt = now
			settled = true
		}
		payment = p
		inv = i
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	ev := uc.log.Info()
	if settled {
		ev = ev.Bool("settled", true)
	}
	ev.Str("invoice_id", invoiceID).
		Str("amount", payment.Amount.StringFixed(2)).
		Str("total_paid", totalPaid.StringFixed(2)).
		Str("status", string(inv.Status)).
		Str("actor", actorID).
		Msg("pago registrado")
	return payment, inv, nil
}
