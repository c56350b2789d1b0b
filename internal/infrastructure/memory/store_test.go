package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
	"github.com/jhoicas/inventario-pedidos/internal/infrastructure/memory"
)

func product(id, sku, name string, qty int) *entity.Product {
	return &entity.Product{ID: id, SKU: sku, Name: name, Quantity: qty, ReorderLevel: 5, CostPrice: decimal.NewFromInt(2), IsActive: true}
}

func TestStore_TransaccionFallidaNoPublica(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Products().Create(ctx, product("p-1", "A", "Arandela", 3)))

	boom := errors.New("boom")
	err := store.Run(ctx, func(products repository.ProductRepository, movs repository.StockMovementRepository) error {
		require.NoError(t, products.UpdateQuantity(ctx, "p-1", 99, time.Now()))
		require.NoError(t, movs.Create(ctx, &entity.StockMovement{ID: "m-1", ProductID: "p-1", Type: entity.MovementIn, Quantity: 96}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := store.Products().GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Quantity, "el rollback descarta los cambios")
	m, err := store.Movements().GetByID(ctx, "m-1")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestStore_ContextoCancelado(t *testing.T) {
	store := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := store.Run(ctx, func(repository.ProductRepository, repository.StockMovementRepository) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProductRepo_RestriccionesYCopias(t *testing.T) {
	store := memory.NewStore()
	repo := store.Products()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, product("p-1", "A", "Arandela", 3)))

	assert.ErrorIs(t, repo.Create(ctx, product("p-2", "A", "Otra", 0)), domain.ErrDuplicate, "SKU único")
	bad := product("p-3", "C", "Con categoría", 0)
	bad.CategoryID = "missing"
	assert.ErrorIs(t, repo.Create(ctx, bad), domain.ErrNotFound, "FK de categoría")

	got, err := repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	got.Quantity = 1000
	again, err := repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 3, again.Quantity, "GetByID devuelve una copia")

	got.Name = "Arandela grande"
	require.NoError(t, repo.Update(ctx, got))
	again, err = repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Arandela grande", again.Name)
	assert.Equal(t, 3, again.Quantity, "Update nunca toca la cantidad")
}

func TestProductRepo_ListOrdenYResumen(t *testing.T) {
	store := memory.NewStore()
	repo := store.Products()
	ctx := context.Background()
	for _, p := range []*entity.Product{
		product("p-1", "B", "Broca", 10),
		product("p-2", "A", "Alicate", 1),
		product("p-3", "C", "Cepillo", 4),
	} {
		require.NoError(t, repo.Create(ctx, p))
	}

	list, total, err := repo.List(ctx, repository.ProductFilter{Sort: repository.ProductSortQuantityDesc, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, list, 2)
	assert.Equal(t, "p-1", list[0].ID)
	assert.Equal(t, "p-3", list[1].ID)

	list, _, err = repo.List(ctx, repository.ProductFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, "Alicate", list[0].Name, "por defecto ordena por nombre")

	sum, err := repo.Summary(ctx, repository.ProductFilter{})
	require.NoError(t, err)
	assert.True(t, sum.TotalStockValue.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, 2, sum.LowStockCount)
}

func TestOrderItemRepo_ProductoUnicoPorPedido(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Products().Create(ctx, product("p-1", "A", "Arandela", 3)))
	require.NoError(t, store.Clients().Create(ctx, &entity.Client{ID: "c-1", Name: "Cliente"}))
	require.NoError(t, store.Orders().Create(ctx, &entity.Order{ID: "o-1", Number: "ORD-1", ClientID: "c-1", Status: entity.OrderPending}))

	assert.ErrorIs(t, store.Orders().Create(ctx, &entity.Order{ID: "o-2", Number: "ORD-1", ClientID: "c-1"}), domain.ErrUniquenessConflict)

	items := store.OrderItems()
	require.NoError(t, items.Create(ctx, &entity.OrderItem{ID: "i-1", OrderID: "o-1", ProductID: "p-1", Quantity: 1}))
	assert.ErrorIs(t, items.Create(ctx, &entity.OrderItem{ID: "i-2", OrderID: "o-1", ProductID: "p-1", Quantity: 2}), domain.ErrDuplicateLineItem)

	byOrder, err := items.ListByOrders(ctx, []string{"o-1", "o-x"})
	require.NoError(t, err)
	assert.Len(t, byOrder["o-1"], 1)
	assert.Empty(t, byOrder["o-x"])
}
