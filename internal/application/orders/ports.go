package orders

import (
	"context"

	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
)

// OrdersTxRunner ejecuta una función dentro de una transacción con repos de pedidos e inventario.
// El hook de pedido completado descuenta stock en la misma transacción del cambio de estado.
// invoiceRepo permite rechazar cambios de líneas en un pedido ya facturado.
type OrdersTxRunner interface {
	RunOrders(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		itemRepo repository.OrderItemRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}
