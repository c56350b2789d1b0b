package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod medio de pago.
type PaymentMethod string

// Medios de pago.
const (
	PaymentCash         PaymentMethod = "CASH"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentCheque       PaymentMethod = "CHEQUE"
)

// PaymentMethods lista cerrada de medios válidos.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentBankTransfer, PaymentCreditCard, PaymentCheque}

// Valid indica si el medio pertenece a la lista cerrada.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentBankTransfer, PaymentCreditCard, PaymentCheque:
		return true
	}
	return false
}

// Payment abono registrado contra una factura. Se acepta sobrepago.
type Payment struct {
	ID          string
	InvoiceID   string
	Amount      decimal.Decimal
	Method      PaymentMethod
	Reference   string
	Notes       string
	PaymentDate time.Time
	CreatedBy   string
	CreatedAt   time.Time
}
