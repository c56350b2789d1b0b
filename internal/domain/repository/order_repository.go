package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
)

// OrderFilter criterios del listado de pedidos (más recientes primero).
type OrderFilter struct {
	Status   entity.OrderStatus
	ClientID string
	Limit    int
	Offset   int
}

// OrderRepository define el puerto de persistencia para la cabecera de Order (DIP).
// Los métodos no cargan Items; eso lo hace OrderItemRepository.
type OrderRepository interface {
	// Create devuelve domain.ErrUniquenessConflict si el número ya existe.
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus, updatedAt time.Time) error
	List(ctx context.Context, f OrderFilter) ([]*entity.Order, int, error)
}

// OrderItemRepository define el puerto de persistencia para OrderItem (DIP).
type OrderItemRepository interface {
	// Create devuelve domain.ErrDuplicateLineItem si el par (pedido, producto) ya existe.
	Create(ctx context.Context, item *entity.OrderItem) error
	GetByID(ctx context.Context, id string) (*entity.OrderItem, error)
	GetByOrderAndProduct(ctx context.Context, orderID, productID string) (*entity.OrderItem, error)
	ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderItem, error)
	ListByOrders(ctx context.Context, orderIDs []string) (map[string][]*entity.OrderItem, error)
	Delete(ctx context.Context, id string) error
}
