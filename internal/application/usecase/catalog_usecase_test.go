package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-pedidos/internal/application/dto"
	"github.com/jhoicas/inventario-pedidos/internal/application/usecase"
	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/infrastructure/memory"
)

// ─── Categorías ───────────────────────────────────────────────────────────────

func TestCategoryCreate_NombreUnicoSinMayusculas(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCategoryUseCase(memory.NewStore().Categories())

	c, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: "  Herramientas "})
	require.NoError(t, err)
	assert.Equal(t, "Herramientas", c.Name, "el nombre se guarda sin espacios")

	_, err = uc.Create(ctx, dto.CreateCategoryRequest{Name: "herramientas"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateCategoryRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCategory_ConteoDeProductosYBorrado(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := usecase.NewCategoryUseCase(store.Categories())

	withProducts, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: "Tornillería"})
	require.NoError(t, err)
	empty, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: "Adhesivos"})
	require.NoError(t, err)
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: "p-1", SKU: "TOR-1", Name: "Tornillo", CategoryID: withProducts.ID, IsActive: true,
	}))

	got, err := uc.Get(ctx, withProducts.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ProductCount)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Adhesivos", list[0].Name, "ordenado por nombre")
	assert.Equal(t, 0, list[0].ProductCount)
	assert.Equal(t, 1, list[1].ProductCount)

	assert.ErrorIs(t, uc.Delete(ctx, withProducts.ID), domain.ErrConflict, "no se borra una categoría con productos")
	require.NoError(t, uc.Delete(ctx, empty.ID))
	assert.ErrorIs(t, uc.Delete(ctx, empty.ID), domain.ErrNotFound)
}

func TestCategoryUpdate(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCategoryUseCase(memory.NewStore().Categories())
	a, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: "Pinturas"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateCategoryRequest{Name: "Eléctricos"})
	require.NoError(t, err)

	updated, err := uc.Update(ctx, a.ID, dto.UpdateCategoryRequest{Description: strPtr("Vinilos y esmaltes")})
	require.NoError(t, err)
	assert.Equal(t, "Pinturas", updated.Name)
	assert.Equal(t, "Vinilos y esmaltes", updated.Description)

	_, err = uc.Update(ctx, a.ID, dto.UpdateCategoryRequest{Name: strPtr("ELÉCTRICOS")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Update(ctx, "no-existe", dto.UpdateCategoryRequest{Name: strPtr("X")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Clientes ─────────────────────────────────────────────────────────────────

func TestClient_CRUDYBusqueda(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewClientUseCase(memory.NewStore().Clients())

	ana, err := uc.Create(ctx, dto.CreateClientRequest{Name: "Ana Ruiz", Email: " ana@example.com ", Phone: "300 123"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", ana.Email)
	_, err = uc.Create(ctx, dto.CreateClientRequest{Name: "Bodega Norte", Email: "compras@norte.co"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateClientRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	all, err := uc.List(ctx, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Page.Total)
	assert.Equal(t, dto.DefaultLimit, all.Page.Limit)
	assert.Equal(t, "Ana Ruiz", all.Items[0].Name)

	found, err := uc.List(ctx, "NORTE", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, found.Items, 1, "busca por nombre o email sin distinguir mayúsculas")
	assert.Equal(t, "Bodega Norte", found.Items[0].Name)

	updated, err := uc.Update(ctx, ana.ID, dto.UpdateClientRequest{Address: strPtr("Calle 10 #5-20")})
	require.NoError(t, err)
	assert.Equal(t, "Ana Ruiz", updated.Name)
	assert.Equal(t, "Calle 10 #5-20", updated.Address)

	_, err = uc.Get(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClientDelete_ConPedidosEsConflicto(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := usecase.NewClientUseCase(store.Clients())

	c, err := uc.Create(ctx, dto.CreateClientRequest{Name: "Ferretería Sur"})
	require.NoError(t, err)
	free, err := uc.Create(ctx, dto.CreateClientRequest{Name: "Sin pedidos"})
	require.NoError(t, err)
	require.NoError(t, store.Orders().Create(ctx, &entity.Order{
		ID: "o-1", Number: "ORD202605201430", ClientID: c.ID, Status: entity.OrderPending,
		CreatedBy: actorID, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))

	assert.ErrorIs(t, uc.Delete(ctx, c.ID), domain.ErrConflict)
	require.NoError(t, uc.Delete(ctx, free.ID))
	_, err = uc.Get(ctx, free.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
