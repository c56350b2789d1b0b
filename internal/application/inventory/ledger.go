package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-pedidos/internal/application/ports"
	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-pedidos/internal/domain/inventory"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
	"github.com/jhoicas/inventario-pedidos/pkg/logger"
)

// DefaultMovementPageSize tamaño de página del listado de movimientos.
const DefaultMovementPageSize = 15

// ApplyMovementInput movimiento a aplicar sobre un producto.
type ApplyMovementInput struct {
	ProductID string
	Type      entity.MovementType
	Quantity  int
	Reference string
	Notes     string
}

// StockLedger es el único camino para modificar Product.Quantity.
// Cada aplicación bloquea el producto (clave stock:<id> y SELECT FOR UPDATE),
// calcula la nueva cantidad y persiste producto y movimiento en la misma transacción.
type StockLedger struct {
	txRunner TxRunner
	movRepo  repository.StockMovementRepository
	locker   ports.Locker
	log      *logger.Logger
	now      func() time.Time
}

// NewStockLedger construye el libro de stock.
func NewStockLedger(
	txRunner TxRunner,
	movRepo repository.StockMovementRepository,
	locker ports.Locker,
	log *logger.Logger,
) *StockLedger {
	return &StockLedger{
		txRunner: txRunner,
		movRepo:  movRepo,
		locker:   locker,
		log:      log.Component("stock_ledger"),
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (l *StockLedger) WithClock(now func() time.Time) *StockLedger {
	l.now = now
	return l
}

// Apply aplica un movimiento en su propia transacción.
// Con OUT sin existencias devuelve *domain.InsufficientStockError y no persiste nada.
func (l *StockLedger) Apply(ctx context.Context, actorID string, in ApplyMovementInput) (*entity.Product, *entity.StockMovement, error) {
	if err := validateMovement(actorID, in); err != nil {
		return nil, nil, err
	}
	unlock, err := l.locker.Acquire(ctx, ports.StockKey(in.ProductID))
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	var product *entity.Product
	var mov *entity.StockMovement
	err = l.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) error {
		var txErr error
		product, mov, txErr = l.ApplyInTx(ctx, productRepo, movRepo, actorID, in)
		return txErr
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			l.log.Debug().Err(err).Str("product_id", in.ProductID).Msg("salida rechazada")
		}
		return nil, nil, err
	}
	l.log.Info().
		Str("product_id", product.ID).
		Str("type", string(mov.Type)).
		Int("quantity", mov.Quantity).
		Int("stock", product.Quantity).
		Str("actor", actorID).
		Msg("movimiento aplicado")
	return product, mov, nil
}

// ApplyInTx aplica el movimiento con los repositorios de una transacción abierta por el caller.
// El caller es responsable del bloqueo por clave si lo necesita.
func (l *StockLedger) ApplyInTx(
	ctx context.Context,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	actorID string,
	in ApplyMovementInput,
) (*entity.Product, *entity.StockMovement, error) {
	if err := validateMovement(actorID, in); err != nil {
		return nil, nil, err
	}
	product, err := productRepo.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ErrNotFound
	}
	next, err := domaininv.NextQuantity(product, in.Type, in.Quantity)
	if err != nil {
		return nil, nil, err
	}
	now := l.now()
	if err := productRepo.UpdateQuantity(ctx, product.ID, next, now); err != nil {
		return nil, nil, err
	}
	product.Quantity = next
	product.UpdatedAt = now

	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		ProductID: product.ID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Reference: in.Reference,
		Notes:     in.Notes,
		CreatedBy: actorID,
		CreatedAt: now,
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, nil, err
	}
	return product, mov, nil
}

// UpdateMovementDetails edita referencia y notas de un movimiento existente.
// Nunca vuelve a aplicar la cantidad sobre el producto.
func (l *StockLedger) UpdateMovementDetails(ctx context.Context, actorID, id string, reference, notes *string) (*entity.StockMovement, error) {
	if actorID == "" || id == "" {
		return nil, domain.ErrInvalidInput
	}
	mov, err := l.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	if reference != nil {
		mov.Reference = *reference
	}
	if notes != nil {
		mov.Notes = *notes
	}
	if err := l.movRepo.UpdateDetails(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// GetMovement obtiene un movimiento por ID.
func (l *StockLedger) GetMovement(ctx context.Context, id string) (*entity.StockMovement, error) {
	mov, err := l.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	return mov, nil
}

// ListMovements lista movimientos filtrando por producto y tipo.
func (l *StockLedger) ListMovements(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, 0, domain.ErrInvalidInput
	}
	if f.Limit <= 0 {
		f.Limit = DefaultMovementPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return l.movRepo.List(ctx, f)
}

func validateMovement(actorID string, in ApplyMovementInput) error {
	if actorID == "" || in.ProductID == "" {
		return domain.ErrInvalidInput
	}
	if !in.Type.Valid() || in.Quantity < 0 {
		return domain.ErrInvalidInput
	}
	return nil
}
