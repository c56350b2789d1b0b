package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-pedidos/internal/application/dto"
	"github.com/jhoicas/inventario-pedidos/internal/application/inventory"
	"github.com/jhoicas/inventario-pedidos/internal/application/ports"
	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-pedidos/internal/domain/inventory"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
	"github.com/jhoicas/inventario-pedidos/pkg/logger"
)

const (
	// DefaultProductPageSize tamaño de página del listado de productos.
	DefaultProductPageSize = 10
	// RecentMovementsLimit movimientos mostrados en el detalle de producto.
	RecentMovementsLimit = 10
)

// ProductUseCase casos de uso CRUD para productos.
// Las existencias nunca se escriben directo: alta y ajustes pasan por el libro de stock.
type ProductUseCase struct {
	txRunner     inventory.TxRunner
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	ledger       *inventory.StockLedger
	locker       ports.Locker
	log          *logger.Logger
	now          func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	txRunner inventory.TxRunner,
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	ledger *inventory.StockLedger,
	locker ports.Locker,
	log *logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		txRunner:     txRunner,
		repo:         repo,
		categoryRepo: categoryRepo,
		ledger:       ledger,
		locker:       locker,
		log:          log.Component("products"),
		now:          time.Now,
	}
}

// Create crea un nuevo producto. Con quantity > 0 registra un IN "Initial Stock" en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, actorID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if actorID == "" || strings.TrimSpace(in.SKU) == "" || strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity < 0 || !entity.ValidMoney(in.CostPrice) || !entity.ValidMoney(in.SellingPrice) {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	now := uc.now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		CategoryID:   in.CategoryID,
		SKU:          strings.TrimSpace(in.SKU),
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		CostPrice:    in.CostPrice,
		SellingPrice: in.SellingPrice,
		ReorderLevel: entity.DefaultReorderLevel,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.ReorderLevel != nil {
		if *in.ReorderLevel < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.ReorderLevel = *in.ReorderLevel
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}

	err = uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) error {
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		if in.Quantity == 0 {
			return nil
		}
		updated, _, err := uc.ledger.ApplyInTx(ctx, productRepo, movRepo, actorID, inventory.ApplyMovementInput{
			ProductID: product.ID,
			Type:      entity.MovementIn,
			Quantity:  in.Quantity,
			Reference: entity.ReferenceInitialStock,
		})
		if err != nil {
			return err
		}
		product = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", product.ID).Str("sku", product.SKU).Int("stock", product.Quantity).Msg("producto creado")
	out := dto.ToProductResponse(product)
	return &out, nil
}

// Get obtiene un producto con sus últimos movimientos.
func (uc *ProductUseCase) Get(ctx context.Context, id string) (*dto.ProductDetailResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	movements, _, err := uc.ledger.ListMovements(ctx, repository.MovementFilter{ProductID: id, Limit: RecentMovementsLimit})
	if err != nil {
		return nil, err
	}
	return &dto.ProductDetailResponse{
		ProductResponse: dto.ToProductResponse(product),
		RecentMovements: dto.ToMovementResponses(movements),
	}, nil
}

// Update actualiza un producto. Un cambio de quantity se registra como
// IN u OUT "Manual Adjustment" por la diferencia.
func (uc *ProductUseCase) Update(ctx context.Context, actorID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if actorID == "" || id == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.CategoryID != nil {
		if err := uc.checkCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}
	if in.SKU != nil {
		other, err := uc.repo.GetBySKU(ctx, *in.SKU)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, domain.ErrDuplicate
		}
	}
	unlock, err := uc.locker.Acquire(ctx, ports.StockKey(id))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var product *entity.Product
	err = uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) error {
		p, err := productRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if err := applyProductChanges(p, in); err != nil {
			return err
		}
		p.UpdatedAt = uc.now()
		if err := productRepo.Update(ctx, p); err != nil {
			return err
		}
		product = p
		if in.Quantity == nil {
			return nil
		}
		t, qty, ok := domaininv.Delta(p.Quantity, *in.Quantity)
		if !ok {
			return nil
		}
		product, _, err = uc.ledger.ApplyInTx(ctx, productRepo, movRepo, actorID, inventory.ApplyMovementInput{
			ProductID: id,
			Type:      t,
			Quantity:  qty,
			Reference: entity.ReferenceManualAdjustment,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToProductResponse(product)
	return &out, nil
}

// List lista productos con búsqueda, filtros, orden y el resumen del conjunto filtrado.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	if !repository.ValidProductSort(q.Sort) {
		return nil, domain.ErrInvalidInput
	}
	q.DefaultPage(DefaultProductPageSize)
	f := repository.ProductFilter{
		Search:     strings.TrimSpace(q.Search),
		CategoryID: q.CategoryID,
		ActiveOnly: q.ActiveOnly,
		Sort:       q.Sort,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	summary, err := uc.repo.Summary(ctx, f)
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{
		Items: dto.ToProductResponses(list),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
		Summary: dto.ProductSummaryResponse{
			TotalStockValue: summary.TotalStockValue,
			LowStockCount:   summary.LowStockCount,
		},
	}, nil
}

// LowStock productos activos en o por debajo de su punto de reorden.
func (uc *ProductUseCase) LowStock(ctx context.Context, limit int) ([]dto.ProductResponse, error) {
	if limit <= 0 {
		limit = dto.DefaultLimit
	}
	list, err := uc.repo.ListLowStock(ctx, limit)
	if err != nil {
		return nil, err
	}
	return dto.ToProductResponses(list), nil
}

// Delete elimina un producto sin historial. Con líneas de pedido o movimientos devuelve ErrConflict;
// ese producto se desactiva con is_active=false.
func (uc *ProductUseCase) Delete(ctx context.Context, actorID, id string) error {
	if actorID == "" || id == "" {
		return domain.ErrInvalidInput
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("product_id", id).Str("actor", actorID).Msg("producto eliminado")
	return nil
}

func (uc *ProductUseCase) checkCategory(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	c, err := uc.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	return nil
}

func applyProductChanges(p *entity.Product, in dto.UpdateProductRequest) error {
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	if in.SKU != nil {
		sku := strings.TrimSpace(*in.SKU)
		if sku == "" {
			return domain.ErrInvalidInput
		}
		p.SKU = sku
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return domain.ErrInvalidInput
		}
		p.Name = name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.CostPrice != nil {
		if !entity.ValidMoney(*in.CostPrice) {
			return domain.ErrInvalidInput
		}
		p.CostPrice = *in.CostPrice
	}
	if in.SellingPrice != nil {
		if !entity.ValidMoney(*in.SellingPrice) {
			return domain.ErrInvalidInput
		}
		p.SellingPrice = *in.SellingPrice
	}
	if in.ReorderLevel != nil {
		if *in.ReorderLevel < 0 {
			return domain.ErrInvalidInput
		}
		p.ReorderLevel = *in.ReorderLevel
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	return nil
}
