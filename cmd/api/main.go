package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	appanalytics "github.com/jhoicas/inventario-pedidos/internal/application/analytics"
	"github.com/jhoicas/inventario-pedidos/internal/application/auth"
	"github.com/jhoicas/inventario-pedidos/internal/application/billing"
	"github.com/jhoicas/inventario-pedidos/internal/application/inventory"
	"github.com/jhoicas/inventario-pedidos/internal/application/orders"
	"github.com/jhoicas/inventario-pedidos/internal/application/ports"
	"github.com/jhoicas/inventario-pedidos/internal/application/usecase"
	"github.com/jhoicas/inventario-pedidos/internal/infrastructure/lock"
	infrapdf "github.com/jhoicas/inventario-pedidos/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/inventario-pedidos/internal/interfaces/http"
	"github.com/jhoicas/inventario-pedidos/pkg/config"
	"github.com/jhoicas/inventario-pedidos/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	locker, closeLocker := newLocker(ctx, cfg, log)
	defer closeLocker()

	ledger := inventory.NewStockLedger(st.inventoryTx, st.movements, locker, log)
	productUC := usecase.NewProductUseCase(st.inventoryTx, st.products, st.categories, ledger, locker, log)
	categoryUC := usecase.NewCategoryUseCase(st.categories)
	clientUC := usecase.NewClientUseCase(st.clients)
	userUC := usecase.NewUserUseCase(st.users)
	orderUC := orders.NewOrderUseCase(st.ordersTx, st.orders, st.items, st.clients, ledger, locker, log)
	invoiceUC := billing.NewInvoiceUseCase(st.billingTx, st.invoices, st.payments, st.orders, st.items, locker, log)
	settlementUC := billing.NewSettlementUseCase(st.billingTx, locker, log)
	pdfUC := billing.NewPDFUseCase(invoiceUC, st.clients, st.products, infrapdf.NewMarotoPDFGenerator(cfg.App.Name))
	dashboardUC := appanalytics.NewDashboardUseCase(st.dashboard, st.products)
	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs (solo si se generó docs/swagger.json)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Inventario y Pedidos API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      userUC,
		ProductUC:   productUC,
		CategoryUC:  categoryUC,
		ClientUC:    clientUC,
		Ledger:      ledger,
		OrderUC:     orderUC,
		InvoiceUC:   invoiceUC,
		Settlement:  settlementUC,
		PDFUC:       pdfUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// newLocker usa Redis si está habilitado y accesible; si no, un bloqueo en proceso.
func newLocker(ctx context.Context, cfg *config.Config, log *logger.Logger) (ports.Locker, func()) {
	if !cfg.Redis.Enabled {
		return lock.NewLocalLocker(), func() {}
	}
	rdb, err := lock.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, usando bloqueo local")
		return lock.NewLocalLocker(), func() {}
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("bloqueo distribuido con redis")
	return lock.NewRedisLocker(rdb, cfg.App.Name, cfg.Redis.LockTTL, log), func() { _ = rdb.Close() }
}
