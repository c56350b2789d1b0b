package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-pedidos/internal/application/billing"
	"github.com/jhoicas/inventario-pedidos/internal/application/dto"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
)

// InvoiceHandler maneja las peticiones HTTP de facturación (protegido).
type InvoiceHandler struct {
	invoices   *billing.InvoiceUseCase
	settlement *billing.SettlementUseCase
	pdf        *billing.PDFUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(invoices *billing.InvoiceUseCase, settlement *billing.SettlementUseCase, pdf *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, settlement: settlement, pdf: pdf}
}

func toInvoiceResponse(v *billing.InvoiceView) dto.InvoiceResponse {
	return dto.ToInvoiceResponse(v.Invoice, v.Payments, v.TotalPaid)
}

// parseDate interpreta AAAA-MM-DD; vacío devuelve el tiempo cero.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(dto.DateLayout, s, time.Local)
}

// Create godoc
// @Summary      Facturar un pedido
// @Description  Un pedido admite una sola factura. invoice_number vacío = INV{AAAAMMDDHHMM}; due_date vacío = emisión + 30 días.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "Factura"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateInvoiceRequest
	if !parseBody(c, &in) {
		return nil
	}
	issue, err := parseDate(in.IssueDate)
	if err != nil {
		return badRequest(c, "VALIDATION", "issue_date inválida")
	}
	var due *time.Time
	if in.DueDate != "" {
		d, err := parseDate(in.DueDate)
		if err != nil {
			return badRequest(c, "VALIDATION", "due_date inválida")
		}
		due = &d
	}
	view, err := h.invoices.Create(c.UserContext(), userID, billing.CreateInvoiceInput{
		OrderID:   in.OrderID,
		Number:    in.InvoiceNumber,
		IssueDate: issue,
		DueDate:   due,
		TaxRate:   in.TaxRate,
		Discount:  in.Discount,
		Notes:     in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toInvoiceResponse(view))
}

// GetByID godoc
// @Summary      Obtener factura con totales y pagos
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	view, err := h.invoices.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toInvoiceResponse(view))
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "PENDING|PAID|CANCELLED"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.InvoiceListResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var q dto.InvoiceListQuery
	if !parseQuery(c, &q) {
		return nil
	}
	q.DefaultPage(billing.DefaultPageSize)
	list, total, err := h.invoices.List(c.UserContext(), repository.InvoiceFilter{
		Status: entity.InvoiceStatus(q.Status),
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.InvoiceResponse, 0, len(list))
	for _, v := range list {
		items = append(items, toInvoiceResponse(v))
	}
	return c.JSON(dto.InvoiceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	})
}

// Cancel godoc
// @Summary      Anular factura pendiente
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/cancel [post]
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	id := c.Params("id")
	if _, err := h.invoices.Cancel(c.UserContext(), userID, id); err != nil {
		return respondError(c, err)
	}
	view, err := h.invoices.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toInvoiceResponse(view))
}

// RecordPayment godoc
// @Summary      Registrar pago
// @Description  Cuando el total pagado alcanza el total de la factura, pasa a PAID. Se acepta sobrepago.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la factura"
// @Param        body  body  dto.RecordPaymentRequest  true  "Pago"
// @Success      201   {object}  dto.RecordPaymentResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.RecordPaymentRequest
	if !parseBody(c, &in) {
		return nil
	}
	paidAt, err := parseDate(in.PaymentDate)
	if err != nil {
		return badRequest(c, "VALIDATION", "payment_date inválida")
	}
	invoiceID := c.Params("id")
	payment, _, err := h.settlement.RecordPayment(c.UserContext(), userID, invoiceID, billing.RecordPaymentInput{
		Amount:      in.Amount,
		Method:      entity.PaymentMethod(in.Method),
		Reference:   in.Reference,
		Notes:       in.Notes,
		PaymentDate: paidAt,
	})
	if err != nil {
		return respondError(c, err)
	}
	view, err := h.invoices.Get(c.UserContext(), invoiceID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.RecordPaymentResponse{
		Payment: dto.ToPaymentResponse(payment),
		Invoice: toInvoiceResponse(view),
	})
}

// ListPayments godoc
// @Summary      Pagos de una factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {array}  dto.PaymentResponse
// @Router       /api/invoices/{id}/payments [get]
func (h *InvoiceHandler) ListPayments(c *fiber.Ctx) error {
	view, err := h.invoices.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.PaymentResponse, 0, len(view.Payments))
	for _, p := range view.Payments {
		out = append(out, dto.ToPaymentResponse(p))
	}
	return c.JSON(out)
}

// DownloadPDF godoc
// @Summary      Descargar la factura en PDF
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdf.DownloadInvoicePDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
