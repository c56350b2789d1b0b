package orders

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-pedidos/internal/application/inventory"
	"github.com/jhoicas/inventario-pedidos/internal/application/ports"
	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/domain/numbering"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
	"github.com/jhoicas/inventario-pedidos/pkg/logger"
	"github.com/shopspring/decimal"
)

// DefaultPageSize tamaño de página del listado de pedidos.
const DefaultPageSize = 20

// ItemInput línea de pedido a crear. Price nil = copia del precio de venta actual del producto.
type ItemInput struct {
	ProductID string
	Quantity  int
	Price     *decimal.Decimal
	Notes     string
}

// CreateOrderInput entrada para crear un pedido. Number vacío = se genera ORD{AAAAMMDDHHMM}.
type CreateOrderInput struct {
	ClientID string
	Number   string
	Notes    string
	Items    []ItemInput
}

// OrderUseCase gestiona pedidos, sus líneas y el ciclo de estados.
// Al pasar a COMPLETED registra una salida de stock por cada línea (una sola vez).
type OrderUseCase struct {
	txRunner   OrdersTxRunner
	orderRepo  repository.OrderRepository
	itemRepo   repository.OrderItemRepository
	clientRepo repository.ClientRepository
	ledger     *inventory.StockLedger
	locker     ports.Locker
	numbers    *numbering.Generator
	log        *logger.Logger
	now        func() time.Time
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	txRunner OrdersTxRunner,
	orderRepo repository.OrderRepository,
	itemRepo repository.OrderItemRepository,
	clientRepo repository.ClientRepository,
	ledger *inventory.StockLedger,
	locker ports.Locker,
	log *logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		txRunner:   txRunner,
		orderRepo:  orderRepo,
		itemRepo:   itemRepo,
		clientRepo: clientRepo,
		ledger:     ledger,
		locker:     locker,
		numbers:    numbering.OrderNumbers(time.Now),
		log:        log.Component("orders"),
		now:        time.Now,
	}
}

// WithClock reemplaza el reloj usado para fechas y números (tests).
func (uc *OrderUseCase) WithClock(now func() time.Time) *OrderUseCase {
	uc.now = now
	uc.numbers = numbering.OrderNumbers(now)
	return uc
}

// Create crea el pedido en PENDING junto con sus líneas iniciales.
// Reintenta con un número nuevo si el generado ya existe.
func (uc *OrderUseCase) Create(ctx context.Context, actorID string, in CreateOrderInput) (*entity.Order, error) {
	if actorID == "" || in.ClientID == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if err := validateItem(it); err != nil {
			return nil, err
		}
	}
	client, err := uc.clientRepo.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}

	var order *entity.Order
	number, err := uc.numbers.Retry(in.Number, func(number string) error {
		return uc.txRunner.RunOrders(ctx, func(
			orderRepo repository.OrderRepository,
			itemRepo repository.OrderItemRepository,
			productRepo repository.ProductRepository,
			_ repository.StockMovementRepository,
			_ repository.InvoiceRepository,
		) error {
			now := uc.now()
			o := &entity.Order{
				ID:        uuid.New().String(),
				Number:    number,
				ClientID:  in.ClientID,
				Status:    entity.OrderPending,
				Notes:     in.Notes,
				CreatedBy: actorID,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := orderRepo.Create(ctx, o); err != nil {
				return err
			}
			for _, it := range in.Items {
				item, err := addItemInTx(ctx, itemRepo, productRepo, o, it, now)
				if err != nil {
					return err
				}
				o.Items = append(o.Items, item)
			}
			order = o
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", order.ID).Str("number", number).Str("actor", actorID).Msg("pedido creado")
	return order, nil
}

// AddItem agrega una línea a un pedido abierto (PENDING o IN_PROGRESS) y sin factura vigente.
// Devuelve domain.ErrDuplicateLineItem si el producto ya está en el pedido.
func (uc *OrderUseCase) AddItem(ctx context.Context, actorID, orderID string, in ItemInput) (*entity.OrderItem, error) {
	if actorID == "" || orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := validateItem(in); err != nil {
		return nil, err
	}
	unlock, err := uc.locker.Acquire(ctx, ports.OrderKey(orderID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var item *entity.OrderItem
	err = uc.txRunner.RunOrders(ctx, func(
		orderRepo repository.OrderRepository,
		itemRepo repository.OrderItemRepository,
		productRepo repository.ProductRepository,
		_ repository.StockMovementRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		o, err := orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := checkEditable(ctx, invoiceRepo, o); err != nil {
			return err
		}
		item, err = addItemInTx(ctx, itemRepo, productRepo, o, in, uc.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem elimina una línea de un pedido abierto y sin factura vigente.
func (uc *OrderUseCase) RemoveItem(ctx context.Context, actorID, orderID, itemID string) error {
	if actorID == "" || orderID == "" || itemID == "" {
		return domain.ErrInvalidInput
	}
	unlock, err := uc.locker.Acquire(ctx, ports.OrderKey(orderID))
	if err != nil {
		return err
	}
	defer unlock()

	return uc.txRunner.RunOrders(ctx, func(
		orderRepo repository.OrderRepository,
		itemRepo repository.OrderItemRepository,
		_ repository.ProductRepository,
		_ repository.StockMovementRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		o, err := orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := checkEditable(ctx, invoiceRepo, o); err != nil {
			return err
		}
		item, err := itemRepo.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil || item.OrderID != orderID {
			return domain.ErrNotFound
		}
		return itemRepo.Delete(ctx, itemID)
	})
}

// ChangeStatus cambia el estado del pedido.
// Al entrar en COMPLETED aplica una salida (OUT) por línea en la misma transacción;
// si alguna no tiene existencias el cambio completo se revierte.
// Pedir el mismo estado actual no es una transición y no ejecuta el hook.
func (uc *OrderUseCase) ChangeStatus(ctx context.Context, actorID, orderID string, next entity.OrderStatus) (*entity.Order, error) {
	if actorID == "" || orderID == "" || !next.Valid() {
		return nil, domain.ErrInvalidInput
	}
	unlock, err := uc.locker.Acquire(ctx, ports.OrderKey(orderID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	if next == entity.OrderCompleted {
		// Las líneas no cambian mientras se tenga el bloqueo del pedido.
		items, err := uc.itemRepo.ListByOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		keys := make([]string, 0, len(items))
		for _, it := range items {
			keys = append(keys, ports.StockKey(it.ProductID))
		}
		unlockStock, err := ports.AcquireAll(ctx, uc.locker, keys...)
		if err != nil {
			return nil, err
		}
		defer unlockStock()
	}

	var order *entity.Order
	var from entity.OrderStatus
	err = uc.txRunner.RunOrders(ctx, func(
		orderRepo repository.OrderRepository,
		itemRepo repository.OrderItemRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		_ repository.InvoiceRepository,
	) error {
		o, err := orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		items, err := itemRepo.ListByOrder(ctx, orderID)
		if err != nil {
			return err
		}
		o.Items = items
		from = o.Status
		if o.Status == next {
			order = o
			return nil
		}
		if !o.Status.CanTransitionTo(next) {
			return domain.ErrConflict
		}
		if next == entity.OrderCompleted {
			if err := uc.onCompleted(ctx, productRepo, movRepo, actorID, o); err != nil {
				return err
			}
		}
		now := uc.now()
		if err := orderRepo.UpdateStatus(ctx, o.ID, next, now); err != nil {
			return err
		}
		o.Status = next
		o.UpdatedAt = now
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	if from != next {
		uc.log.Info().
			Str("order_id", order.ID).
			Str("from", string(from)).
			Str("to", string(next)).
			Str("actor", actorID).
			Msg("estado de pedido actualizado")
	}
	return order, nil
}

// onCompleted descuenta del stock la cantidad de cada línea, en orden de producto.
func (uc *OrderUseCase) onCompleted(
	ctx context.Context,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	actorID string,
	o *entity.Order,
) error {
	items := append([]*entity.OrderItem(nil), o.Items...)
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	for _, it := range items {
		_, _, err := uc.ledger.ApplyInTx(ctx, productRepo, movRepo, actorID, inventory.ApplyMovementInput{
			ProductID: it.ProductID,
			Type:      entity.MovementOut,
			Quantity:  it.Quantity,
			Reference: "Order #" + o.Number,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Get obtiene un pedido con sus líneas.
func (uc *OrderUseCase) Get(ctx context.Context, id string) (*entity.Order, error) {
	o, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.itemRepo.ListByOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

// List lista pedidos con sus líneas (para totales) filtrando por estado y cliente.
func (uc *OrderUseCase) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, int, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, domain.ErrInvalidInput
	}
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	list, total, err := uc.orderRepo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]string, 0, len(list))
	for _, o := range list {
		ids = append(ids, o.ID)
	}
	byOrder, err := uc.itemRepo.ListByOrders(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, o := range list {
		o.Items = byOrder[o.ID]
	}
	return list, total, nil
}

// checkEditable exige un pedido abierto y sin factura vigente: el total facturado
// se calcula sobre las líneas del pedido. Una factura anulada no bloquea.
func checkEditable(ctx context.Context, invoiceRepo repository.InvoiceRepository, o *entity.Order) error {
	if o == nil {
		return domain.ErrNotFound
	}
	if !o.Status.IsOpen() {
		return domain.ErrConflict
	}
	inv, err := invoiceRepo.GetByOrderID(ctx, o.ID)
	if err != nil {
		return err
	}
	if inv != nil && inv.Status != entity.InvoiceCancelled {
		return domain.ErrConflict
	}
	return nil
}

func validateItem(in ItemInput) error {
	if in.ProductID == "" || in.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if in.Price != nil && !entity.ValidMoney(*in.Price) {
		return domain.ErrInvalidInput
	}
	return nil
}

// addItemInTx valida unicidad (pedido, producto) antes de persistir y fija el precio.
func addItemInTx(
	ctx context.Context,
	itemRepo repository.OrderItemRepository,
	productRepo repository.ProductRepository,
	o *entity.Order,
	in ItemInput,
	now time.Time,
) (*entity.OrderItem, error) {
	existing, err := itemRepo.GetByOrderAndProduct(ctx, o.ID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateLineItem
	}
	product, err := productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	price := product.SellingPrice
	if in.Price != nil {
		price = *in.Price
	}
	item := &entity.OrderItem{
		ID:        uuid.New().String(),
		OrderID:   o.ID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Price:     price,
		Notes:     in.Notes,
		CreatedAt: now,
	}
	if err := itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}
