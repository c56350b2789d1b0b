package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-pedidos/internal/application/dto"
	"github.com/jhoicas/inventario-pedidos/internal/application/inventory"
	"github.com/jhoicas/inventario-pedidos/internal/application/usecase"
	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
	"github.com/jhoicas/inventario-pedidos/internal/infrastructure/lock"
	"github.com/jhoicas/inventario-pedidos/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-pedidos/pkg/logger"
)

const actorID = "user-admin"

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

// ─── Helpers ──────────────────────────────────────────────────────────────────

func newProductUseCase(t *testing.T) (*usecase.ProductUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	locker := lock.NewLocalLocker()
	ledger := inventory.NewStockLedger(store, store.Movements(), locker, logger.Nop())
	uc := usecase.NewProductUseCase(store, store.Products(), store.Categories(), ledger, locker, logger.Nop())
	return uc, store
}

func createProduct(t *testing.T, uc *usecase.ProductUseCase, sku string, qty int) *dto.ProductResponse {
	t.Helper()
	p, err := uc.Create(context.Background(), actorID, dto.CreateProductRequest{
		SKU:          sku,
		Name:         "Producto " + sku,
		Quantity:     qty,
		CostPrice:    decimal.RequireFromString("8.00"),
		SellingPrice: decimal.RequireFromString("10.00"),
	})
	require.NoError(t, err)
	return p
}

func movementsOf(t *testing.T, store *memory.Store, productID string) []*entity.StockMovement {
	t.Helper()
	list, _, err := store.Movements().List(context.Background(), repository.MovementFilter{ProductID: productID, Limit: 50})
	require.NoError(t, err)
	return list
}

// ─── Create ───────────────────────────────────────────────────────────────────

func TestProductCreate_StockInicialComoMovimiento(t *testing.T) {
	uc, store := newProductUseCase(t)
	p := createProduct(t, uc, "SKU-1", 25)

	assert.Equal(t, 25, p.Quantity)
	assert.Equal(t, entity.DefaultReorderLevel, p.ReorderLevel)
	assert.True(t, p.IsActive)
	assert.True(t, p.ProfitMargin.Equal(decimal.RequireFromString("25")))

	movs := movementsOf(t, store, p.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementIn, movs[0].Type)
	assert.Equal(t, 25, movs[0].Quantity)
	assert.Equal(t, entity.ReferenceInitialStock, movs[0].Reference)
}

func TestProductCreate_SinStockNoRegistraMovimiento(t *testing.T) {
	uc, store := newProductUseCase(t)
	p := createProduct(t, uc, "SKU-1", 0)
	assert.Empty(t, movementsOf(t, store, p.ID))
	assert.True(t, p.IsLowStock)
}

func TestProductCreate_SKUDuplicado(t *testing.T) {
	uc, _ := newProductUseCase(t)
	createProduct(t, uc, "SKU-1", 0)
	_, err := uc.Create(context.Background(), actorID, dto.CreateProductRequest{SKU: "SKU-1", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductCreate_CategoriaInexistente(t *testing.T) {
	uc, _ := newProductUseCase(t)
	_, err := uc.Create(context.Background(), actorID, dto.CreateProductRequest{
		SKU: "SKU-1", Name: "Sin categoría", CategoryID: "00000000-0000-0000-0000-000000000001",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Update ───────────────────────────────────────────────────────────────────

func TestProductUpdate_CambioDeCantidadEsAjusteManual(t *testing.T) {
	uc, store := newProductUseCase(t)
	p := createProduct(t, uc, "SKU-1", 10)
	ctx := context.Background()

	up, err := uc.Update(ctx, actorID, p.ID, dto.UpdateProductRequest{Quantity: intPtr(4), Name: strPtr("Renombrado")})
	require.NoError(t, err)
	assert.Equal(t, 4, up.Quantity)
	assert.Equal(t, "Renombrado", up.Name)

	up, err = uc.Update(ctx, actorID, p.ID, dto.UpdateProductRequest{Quantity: intPtr(9)})
	require.NoError(t, err)
	assert.Equal(t, 9, up.Quantity)

	// Misma cantidad: no hay movimiento.
	_, err = uc.Update(ctx, actorID, p.ID, dto.UpdateProductRequest{Quantity: intPtr(9)})
	require.NoError(t, err)

	movs := movementsOf(t, store, p.ID)
	require.Len(t, movs, 3)
	byType := map[entity.MovementType]int{}
	for _, m := range movs {
		byType[m.Type] += m.Quantity
		if m.Reference != entity.ReferenceInitialStock {
			assert.Equal(t, entity.ReferenceManualAdjustment, m.Reference)
		}
	}
	assert.Equal(t, 10+5, byType[entity.MovementIn])
	assert.Equal(t, 6, byType[entity.MovementOut])
}

func TestProductUpdate_SinCantidadNoTocaStock(t *testing.T) {
	uc, store := newProductUseCase(t)
	p := createProduct(t, uc, "SKU-1", 7)

	price := decimal.RequireFromString("12.50")
	up, err := uc.Update(context.Background(), actorID, p.ID, dto.UpdateProductRequest{SellingPrice: &price})
	require.NoError(t, err)
	assert.Equal(t, 7, up.Quantity)
	assert.True(t, up.SellingPrice.Equal(price))
	assert.Len(t, movementsOf(t, store, p.ID), 1)
}

func TestProductUpdate_Errores(t *testing.T) {
	uc, _ := newProductUseCase(t)
	a := createProduct(t, uc, "SKU-A", 1)
	createProduct(t, uc, "SKU-B", 1)
	ctx := context.Background()

	_, err := uc.Update(ctx, actorID, a.ID, dto.UpdateProductRequest{SKU: strPtr("SKU-B")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Update(ctx, actorID, a.ID, dto.UpdateProductRequest{Name: strPtr("   ")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(ctx, actorID, "missing", dto.UpdateProductRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	price := decimal.RequireFromString("12.345")
	_, err = uc.Update(ctx, actorID, a.ID, dto.UpdateProductRequest{SellingPrice: &price})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio con tres decimales")
}

func TestProductCreate_PrecioConMasDeDosDecimales(t *testing.T) {
	uc, _ := newProductUseCase(t)
	_, err := uc.Create(context.Background(), actorID, dto.CreateProductRequest{
		SKU: "SKU-X", Name: "Brocha", CostPrice: decimal.RequireFromString("1.005"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─── Consultas ────────────────────────────────────────────────────────────────

func TestProductList_ResumenYBusqueda(t *testing.T) {
	uc, _ := newProductUseCase(t)
	createProduct(t, uc, "TOR-1", 100)
	createProduct(t, uc, "TOR-2", 2)
	createProduct(t, uc, "CLA-1", 50)

	out, err := uc.List(context.Background(), dto.ProductListQuery{Search: "tor"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Page.Total)
	assert.Equal(t, usecase.DefaultProductPageSize, out.Page.Limit)
	assert.True(t, out.Summary.TotalStockValue.Equal(decimal.RequireFromString("816")), "102 x 8.00")
	assert.Equal(t, 1, out.Summary.LowStockCount)

	_, err = uc.List(context.Background(), dto.ProductListQuery{Sort: "random"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductGet_IncluyeMovimientosRecientes(t *testing.T) {
	uc, _ := newProductUseCase(t)
	p := createProduct(t, uc, "SKU-1", 3)

	got, err := uc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Len(t, got.RecentMovements, 1)

	_, err = uc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductLowStock(t *testing.T) {
	uc, _ := newProductUseCase(t)
	createProduct(t, uc, "SKU-1", 3)
	createProduct(t, uc, "SKU-2", 1)
	createProduct(t, uc, "SKU-3", 80)

	low, err := uc.LowStock(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "SKU-2", low[0].SKU, "menor cantidad primero")
}

func TestProductDelete(t *testing.T) {
	uc, _ := newProductUseCase(t)
	p := createProduct(t, uc, "SKU-1", 0)
	ctx := context.Background()

	require.NoError(t, uc.Delete(ctx, actorID, p.ID))
	assert.ErrorIs(t, uc.Delete(ctx, actorID, p.ID), domain.ErrNotFound)
}

func TestProductDelete_ConMovimientosConservaHistorial(t *testing.T) {
	uc, store := newProductUseCase(t)
	p := createProduct(t, uc, "SKU-1", 3)
	ctx := context.Background()

	assert.ErrorIs(t, uc.Delete(ctx, actorID, p.ID), domain.ErrConflict)
	assert.Len(t, movementsOf(t, store, p.ID), 1, "el movimiento de stock inicial sigue registrado")

	got, err := uc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)
}

func TestProductDelete_ConLineasDePedido(t *testing.T) {
	uc, store := newProductUseCase(t)
	p := createProduct(t, uc, "SKU-1", 0)
	ctx := context.Background()
	require.NoError(t, store.Clients().Create(ctx, &entity.Client{ID: "c-1", Name: "Cliente"}))
	require.NoError(t, store.Orders().Create(ctx, &entity.Order{ID: "o-1", Number: "ORD-1", ClientID: "c-1", Status: entity.OrderPending, CreatedAt: time.Now()}))
	require.NoError(t, store.OrderItems().Create(ctx, &entity.OrderItem{ID: "i-1", OrderID: "o-1", ProductID: p.ID, Quantity: 1}))

	assert.ErrorIs(t, uc.Delete(ctx, actorID, p.ID), domain.ErrConflict)
}
