package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/jhoicas/inventario-pedidos/internal/application/billing"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/infrastructure/pdf"
)

func TestGenerateInvoicePDF(t *testing.T) {
	issue := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	inv := &entity.Invoice{
		Number:    "INV202604010900",
		Status:    entity.InvoicePending,
		IssueDate: issue,
		DueDate:   entity.DefaultDueDate(issue),
		TaxRate:   decimal.RequireFromString("10"),
		Discount:  decimal.RequireFromString("5"),
		Notes:     "Entrega en bodega",
		Order: &entity.Order{
			Number: "ORD202603311200",
			Items: []*entity.OrderItem{
				{ProductID: "p-1", Quantity: 2, Price: decimal.RequireFromString("50")},
			},
		},
	}
	doc := appbilling.InvoiceDocument{
		Invoice: inv,
		Client:  &entity.Client{Name: "Ferretería Norte", Email: "compras@norte.test"},
		Lines: []appbilling.InvoiceLine{
			{ProductName: "Taladro", SKU: "TAL-1", Quantity: 2, Price: decimal.RequireFromString("50"), Subtotal: decimal.RequireFromString("100")},
		},
		TotalPaid: decimal.RequireFromString("20"),
	}

	out, err := pdf.NewMarotoPDFGenerator("Inventario Pedidos").GenerateInvoicePDF(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "la salida debe ser un PDF")
	assert.Greater(t, len(out), 500)
}

func TestGenerateInvoicePDF_SinFactura(t *testing.T) {
	_, err := pdf.NewMarotoPDFGenerator("x").GenerateInvoicePDF(context.Background(), appbilling.InvoiceDocument{})
	assert.Error(t, err)
}
