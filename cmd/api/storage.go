package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-pedidos/internal/application/billing"
	"github.com/jhoicas/inventario-pedidos/internal/application/inventory"
	"github.com/jhoicas/inventario-pedidos/internal/application/orders"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
	"github.com/jhoicas/inventario-pedidos/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-pedidos/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-pedidos/pkg/config"
	"github.com/jhoicas/inventario-pedidos/pkg/logger"
)

// storage repositorios y runners de transacción del adaptador elegido.
type storage struct {
	products    repository.ProductRepository
	categories  repository.CategoryRepository
	movements   repository.StockMovementRepository
	clients     repository.ClientRepository
	orders      repository.OrderRepository
	items       repository.OrderItemRepository
	invoices    repository.InvoiceRepository
	payments    repository.PaymentRepository
	users       repository.UserRepository
	dashboard   repository.DashboardRepository
	inventoryTx inventory.TxRunner
	ordersTx    orders.OrdersTxRunner
	billingTx   billing.BillingTxRunner
	close       func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{
			products:    s.Products(),
			categories:  s.Categories(),
			movements:   s.Movements(),
			clients:     s.Clients(),
			orders:      s.Orders(),
			items:       s.OrderItems(),
			invoices:    s.Invoices(),
			payments:    s.Payments(),
			users:       s.Users(),
			dashboard:   s.Dashboard(),
			inventoryTx: s,
			ordersTx:    s,
			billingTx:   s,
			close:       func() {},
		}, nil
	}

	if cfg.DB.AutoMigrate {
		m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log)
		if err != nil {
			return nil, fmt.Errorf("migrator: %w", err)
		}
		err = m.Up()
		if cerr := m.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("cerrar migrator")
		}
		if err != nil {
			return nil, fmt.Errorf("migraciones: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	tx := postgres.NewTxRunner(pool)
	return &storage{
		products:    postgres.NewProductRepository(pool),
		categories:  postgres.NewCategoryRepository(pool),
		movements:   postgres.NewStockMovementRepository(pool),
		clients:     postgres.NewClientRepository(pool),
		orders:      postgres.NewOrderRepository(pool),
		items:       postgres.NewOrderItemRepository(pool),
		invoices:    postgres.NewInvoiceRepository(pool),
		payments:    postgres.NewPaymentRepository(pool),
		users:       postgres.NewUserRepository(pool),
		dashboard:   postgres.NewDashboardRepository(pool),
		inventoryTx: tx,
		ordersTx:    tx,
		billingTx:   tx,
		close:       pool.Close,
	}, nil
}
