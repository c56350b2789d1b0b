package dto

import (
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ToProductResponse traduce un producto a su salida con derivados.
func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		CategoryID:   p.CategoryID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		Quantity:     p.Quantity,
		CostPrice:    p.CostPrice,
		SellingPrice: p.SellingPrice,
		ReorderLevel: p.ReorderLevel,
		IsActive:     p.IsActive,
		IsLowStock:   p.IsLowStock(),
		ProfitMargin: p.ProfitMargin().Round(2),
		StockValue:   p.StockValue(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ToProductResponses traduce una lista de productos.
func ToProductResponses(list []*entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, ToProductResponse(p))
	}
	return out
}

// ToCategoryResponse traduce una categoría con su conteo de productos.
func ToCategoryResponse(c *entity.Category, productCount int) CategoryResponse {
	return CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		ProductCount: productCount,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// ToCategoryResponses traduce el listado de categorías.
func ToCategoryResponses(list []*repository.CategoryWithCount) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, ToCategoryResponse(c.Category, c.ProductCount))
	}
	return out
}

// ToMovementResponse traduce un movimiento de stock.
func ToMovementResponse(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Type:      string(m.Type),
		TypeLabel: MovementLabel(m.Type),
		Quantity:  m.Quantity,
		Reference: m.Reference,
		Notes:     m.Notes,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}
}

// ToMovementResponses traduce una lista de movimientos.
func ToMovementResponses(list []*entity.StockMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToMovementResponse(m))
	}
	return out
}

// ToOrderResponse traduce un pedido con líneas y totales.
func ToOrderResponse(o *entity.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Subtotal:  it.Subtotal(),
			Notes:     it.Notes,
			CreatedAt: it.CreatedAt,
		})
	}
	return OrderResponse{
		ID:          o.ID,
		OrderNumber: o.Number,
		ClientID:    o.ClientID,
		Status:      string(o.Status),
		StatusLabel: OrderStatusLabel(o.Status),
		Notes:       o.Notes,
		CreatedBy:   o.CreatedBy,
		TotalAmount: o.TotalAmount(),
		TotalItems:  o.TotalItems(),
		Items:       items,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// ToOrderItemResponse traduce una línea suelta (alta de línea).
func ToOrderItemResponse(it *entity.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:        it.ID,
		ProductID: it.ProductID,
		Quantity:  it.Quantity,
		Price:     it.Price,
		Subtotal:  it.Subtotal(),
		Notes:     it.Notes,
		CreatedAt: it.CreatedAt,
	}
}

// ToPaymentResponse traduce un pago.
func ToPaymentResponse(p *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		InvoiceID:   p.InvoiceID,
		Amount:      p.Amount,
		Method:      string(p.Method),
		MethodLabel: PaymentMethodLabel(p.Method),
		Reference:   p.Reference,
		Notes:       p.Notes,
		PaymentDate: p.PaymentDate,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
	}
}

// ToInvoiceResponse traduce una factura; inv.Order debe tener las líneas cargadas.
func ToInvoiceResponse(inv *entity.Invoice, payments []*entity.Payment, totalPaid decimal.Decimal) InvoiceResponse {
	out := InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.Number,
		OrderID:       inv.OrderID,
		Status:        string(inv.Status),
		StatusLabel:   InvoiceStatusLabel(inv.Status),
		IssueDate:     inv.IssueDate.Format(DateLayout),
		DueDate:       inv.DueDate.Format(DateLayout),
		TaxRate:       inv.TaxRate,
		Discount:      inv.Discount,
		Subtotal:      inv.Subtotal(),
		TaxAmount:     inv.TaxAmount(),
		TotalAmount:   inv.TotalAmount(),
		TotalPaid:     totalPaid,
		BalanceDue:    inv.BalanceDue(totalPaid),
		Notes:         inv.Notes,
		CreatedBy:     inv.CreatedBy,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
	if inv.Order != nil {
		out.OrderNumber = inv.Order.Number
	}
	for _, p := range payments {
		out.Payments = append(out.Payments, ToPaymentResponse(p))
	}
	return out
}

// ToClientResponse traduce un cliente.
func ToClientResponse(c *entity.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToUserResponse traduce un usuario sin el hash de password.
func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
