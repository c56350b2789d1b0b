//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/inventario-pedidos/internal/application/billing"
	"github.com/jhoicas/inventario-pedidos/internal/application/inventory"
	"github.com/jhoicas/inventario-pedidos/internal/application/orders"
	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
	"github.com/jhoicas/inventario-pedidos/internal/infrastructure/lock"
	"github.com/jhoicas/inventario-pedidos/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-pedidos/pkg/config"
	"github.com/jhoicas/inventario-pedidos/pkg/logger"
)

const actorID = "integration"

// newTestPool levanta PostgreSQL, aplica las migraciones embebidas y devuelve el pool.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("inventario_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "no se pudo iniciar PostgreSQL")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminar contenedor: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := postgres.NewMigrator(dsn, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func seedProduct(t *testing.T, repo repository.ProductRepository, sku string, qty int, price string) *entity.Product {
	t.Helper()
	now := time.Now().UTC()
	p := &entity.Product{
		ID:           uuid.NewString(),
		SKU:          sku,
		Name:         "Producto " + sku,
		Quantity:     qty,
		SellingPrice: decimal.RequireFromString(price),
		ReorderLevel: 10,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestPostgres_FlujoCompleto(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	locker := lock.NewLocalLocker()
	runner := postgres.NewTxRunner(pool)

	productRepo := postgres.NewProductRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	itemRepo := postgres.NewOrderItemRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)

	ledger := inventory.NewStockLedger(runner, movRepo, locker, logger.Nop())
	orderUC := orders.NewOrderUseCase(runner, orderRepo, itemRepo, clientRepo, ledger, locker, logger.Nop())
	invoiceUC := billing.NewInvoiceUseCase(runner, invoiceRepo, paymentRepo, orderRepo, itemRepo, locker, logger.Nop())
	settlement := billing.NewSettlementUseCase(runner, locker, logger.Nop())

	a := seedProduct(t, productRepo, "A-1", 0, "50.00")
	b := seedProduct(t, productRepo, "B-1", 0, "30.00")

	// Libro de stock: IN 15 y luego OUT 20 rechazado.
	got, _, err := ledger.Apply(ctx, actorID, inventory.ApplyMovementInput{ProductID: a.ID, Type: entity.MovementIn, Quantity: 15})
	require.NoError(t, err)
	assert.Equal(t, 15, got.Quantity)
	_, _, err = ledger.Apply(ctx, actorID, inventory.ApplyMovementInput{ProductID: a.ID, Type: entity.MovementOut, Quantity: 20})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	_, _, err = ledger.Apply(ctx, actorID, inventory.ApplyMovementInput{ProductID: b.ID, Type: entity.MovementIn, Quantity: 3})
	require.NoError(t, err)

	client := &entity.Client{ID: uuid.NewString(), Name: "Cliente integración", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, clientRepo.Create(ctx, client))

	order, err := orderUC.Create(ctx, actorID, orders.CreateOrderInput{
		ClientID: client.ID,
		Items: []orders.ItemInput{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.True(t, order.TotalAmount().Equal(decimal.RequireFromString("130")))

	_, err = orderUC.AddItem(ctx, actorID, order.ID, orders.ItemInput{ProductID: a.ID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrDuplicateLineItem)

	_, err = orderUC.ChangeStatus(ctx, actorID, order.ID, entity.OrderCompleted)
	require.NoError(t, err)
	pa, err := productRepo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 13, pa.Quantity)

	view, err := invoiceUC.Create(ctx, actorID, billing.CreateInvoiceInput{
		OrderID: order.ID, TaxRate: decimal.RequireFromString("10"), Discount: decimal.RequireFromString("5"),
	})
	require.NoError(t, err)
	assert.True(t, view.Invoice.TotalAmount().Equal(decimal.RequireFromString("138")))

	_, err = invoiceUC.Create(ctx, actorID, billing.CreateInvoiceInput{OrderID: order.ID})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, _, err = settlement.RecordPayment(ctx, actorID, view.Invoice.ID, billing.RecordPaymentInput{Amount: decimal.RequireFromString("0.001"), Method: entity.PaymentCash})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "NUMERIC(12,2) no guarda tres decimales")

	_, inv, err := settlement.RecordPayment(ctx, actorID, view.Invoice.ID, billing.RecordPaymentInput{Amount: decimal.RequireFromString("100"), Method: entity.PaymentCash})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoicePending, inv.Status)
	_, inv, err = settlement.RecordPayment(ctx, actorID, view.Invoice.ID, billing.RecordPaymentInput{Amount: decimal.RequireFromString("38"), Method: entity.PaymentCreditCard})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoicePaid, inv.Status)

	dash := postgres.NewDashboardRepository(pool)
	now := time.Now()
	sales, err := dash.SumPayments(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, sales.Equal(decimal.RequireFromString("138")))
}

func TestPostgres_SalidasConcurrentes(t *testing.T) {
	pool := newTestPool(t)
	runner := postgres.NewTxRunner(pool)
	productRepo := postgres.NewProductRepository(pool)
	// Bloqueo en proceso distinto por goroutine: solo queda el FOR UPDATE de la fila.
	p := seedProduct(t, productRepo, "C-1", 8, "1.00")

	var wg sync.WaitGroup
	var mu sync.Mutex
	okCount := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ledger := inventory.NewStockLedger(runner, postgres.NewStockMovementRepository(pool), lock.NewLocalLocker(), logger.Nop())
			_, _, err := ledger.Apply(context.Background(), actorID, inventory.ApplyMovementInput{ProductID: p.ID, Type: entity.MovementOut, Quantity: 1})
			if err != nil && !errors.Is(err, domain.ErrInsufficientStock) {
				t.Errorf("error inesperado: %v", err)
				return
			}
			if err == nil {
				mu.Lock()
				okCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, okCount)
	got, err := productRepo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)
}

func TestPostgres_RestriccionesMapeadas(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	productRepo := postgres.NewProductRepository(pool)
	seedProduct(t, productRepo, "D-1", 0, "1.00")

	dup := &entity.Product{ID: uuid.NewString(), SKU: "D-1", Name: "Otro", IsActive: true, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	assert.ErrorIs(t, productRepo.Create(ctx, dup), domain.ErrDuplicate)

	orderRepo := postgres.NewOrderRepository(pool)
	err := orderRepo.Create(ctx, &entity.Order{ID: uuid.NewString(), Number: "ORD-X", ClientID: uuid.NewString(), Status: entity.OrderPending, CreatedBy: actorID, CreatedAt: time.Now(), UpdatedAt: time.Now()})
	assert.ErrorIs(t, err, domain.ErrNotFound, "cliente inexistente viola la FK")

	missing, err := productRepo.GetByID(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)

	malformed, err := productRepo.GetByID(ctx, "abc")
	require.NoError(t, err, "un id que no es UUID se lee como inexistente")
	assert.Nil(t, malformed)
	assert.ErrorIs(t, productRepo.Delete(ctx, "abc"), domain.ErrNotFound)

	// El historial de movimientos impide borrar el producto.
	withHistory := seedProduct(t, productRepo, "D-2", 0, "1.00")
	ledger := inventory.NewStockLedger(postgres.NewTxRunner(pool), postgres.NewStockMovementRepository(pool), lock.NewLocalLocker(), logger.Nop())
	_, _, err = ledger.Apply(ctx, actorID, inventory.ApplyMovementInput{ProductID: withHistory.ID, Type: entity.MovementIn, Quantity: 2})
	require.NoError(t, err)
	assert.ErrorIs(t, productRepo.Delete(ctx, withHistory.ID), domain.ErrConflict)
}
