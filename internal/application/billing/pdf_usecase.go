package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de una factura.
type PDFUseCase struct {
	invoices    *InvoiceUseCase
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
	generator   InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoices *InvoiceUseCase,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoices:    invoices,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		generator:   generator,
	}
}

// DownloadInvoicePDF recupera factura, cliente y líneas y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	view, err := uc.invoices.Get(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}
	inv := view.Invoice

	client, err := uc.clientRepo.GetByID(ctx, inv.Order.ClientID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}

	lines := make([]InvoiceLine, 0, len(inv.Order.Items))
	for _, it := range inv.Order.Items {
		line := InvoiceLine{
			ProductName: "Producto " + it.ProductID, // fallback
			Quantity:    it.Quantity,
			Price:       it.Price,
			Subtotal:    it.Subtotal(),
		}
		if product, pErr := uc.productRepo.GetByID(ctx, it.ProductID); pErr == nil && product != nil {
			line.ProductName = product.Name
			line.SKU = product.SKU
		}
		lines = append(lines, line)
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, InvoiceDocument{
		Invoice:   inv,
		Client:    client,
		Lines:     lines,
		Payments:  view.Payments,
		TotalPaid: view.TotalPaid,
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("factura_%s.pdf", inv.Number)
	return pdfBytes, filename, nil
}
