package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleOrder() *entity.Order {
	return &entity.Order{
		ID:     "o-1",
		Status: entity.OrderPending,
		Items: []*entity.OrderItem{
			{ProductID: "p-1", Quantity: 2, Price: dec("50.00")},
			{ProductID: "p-2", Quantity: 1, Price: dec("30.00")},
		},
	}
}

// Pedido (2 x 50.00) + (1 x 30.00), impuesto 10% y descuento 5.00.
func TestInvoice_TotalesDelPedido(t *testing.T) {
	order := sampleOrder()
	assert.True(t, order.TotalAmount().Equal(dec("130.00")), "total del pedido: %s", order.TotalAmount())
	assert.Equal(t, 3, order.TotalItems())

	inv := &entity.Invoice{Order: order, TaxRate: dec("10"), Discount: dec("5.00"), Status: entity.InvoicePending}
	assert.True(t, inv.Subtotal().Equal(dec("130.00")))
	assert.True(t, inv.TaxAmount().Equal(dec("13.00")))
	assert.True(t, inv.TotalAmount().Equal(dec("138.00")))
}

func TestInvoice_TotalesExactos(t *testing.T) {
	cases := []struct {
		name     string
		subtotal string
		taxRate  string
		discount string
	}{
		{"sin impuesto", "99.99", "0", "0"},
		{"tasa con decimales", "0.10", "19", "0"},
		{"descuento mayor al impuesto", "1000.00", "5.5", "60.00"},
		{"centavos periódicos", "33.33", "33.33", "0.01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inv := &entity.Invoice{
				Order:    &entity.Order{Items: []*entity.OrderItem{{Quantity: 1, Price: dec(tc.subtotal)}}},
				TaxRate:  dec(tc.taxRate),
				Discount: dec(tc.discount),
			}
			wantTax := dec(tc.subtotal).Mul(dec(tc.taxRate)).Div(decimal.NewFromInt(100))
			assert.True(t, inv.TaxAmount().Equal(wantTax))
			assert.True(t, inv.TotalAmount().Equal(inv.Subtotal().Add(wantTax).Sub(dec(tc.discount))))
		})
	}
}

func TestInvoice_SinPedidoSubtotalCero(t *testing.T) {
	inv := &entity.Invoice{TaxRate: dec("10")}
	assert.True(t, inv.Subtotal().IsZero())
	assert.True(t, inv.TotalAmount().IsZero())
}

func TestInvoice_Settle(t *testing.T) {
	inv := &entity.Invoice{Order: sampleOrder(), TaxRate: dec("10"), Discount: dec("5.00"), Status: entity.InvoicePending}

	assert.False(t, inv.Settle(decimal.Zero), "sin pagos no se liquida")
	assert.False(t, inv.Settle(dec("100.00")))
	assert.Equal(t, entity.InvoicePending, inv.Status)
	assert.True(t, inv.BalanceDue(dec("100.00")).Equal(dec("38.00")))

	assert.True(t, inv.Settle(dec("138.00")), "el total exacto liquida")
	assert.Equal(t, entity.InvoicePaid, inv.Status)
	assert.False(t, inv.Settle(dec("200.00")), "una factura pagada no vuelve a cambiar")
	assert.Equal(t, entity.InvoicePaid, inv.Status)
}

func TestInvoice_SettleSobrepagoYAnulada(t *testing.T) {
	inv := &entity.Invoice{Order: sampleOrder(), Status: entity.InvoicePending}
	assert.True(t, inv.Settle(dec("500")))
	assert.True(t, inv.BalanceDue(dec("500")).IsNegative(), "el sobrepago deja saldo negativo")

	cancelled := &entity.Invoice{Order: sampleOrder(), Status: entity.InvoiceCancelled}
	assert.False(t, cancelled.Settle(dec("1000")))
	assert.Equal(t, entity.InvoiceCancelled, cancelled.Status)
}
