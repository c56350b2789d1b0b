package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-pedidos/internal/application/analytics"
	"github.com/jhoicas/inventario-pedidos/internal/application/auth"
	"github.com/jhoicas/inventario-pedidos/internal/application/billing"
	"github.com/jhoicas/inventario-pedidos/internal/application/inventory"
	"github.com/jhoicas/inventario-pedidos/internal/application/orders"
	"github.com/jhoicas/inventario-pedidos/internal/application/usecase"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	ProductUC   *usecase.ProductUseCase
	CategoryUC  *usecase.CategoryUseCase
	ClientUC    *usecase.ClientUseCase
	Ledger      *inventory.StockLedger
	OrderUC     *orders.OrderUseCase
	InvoiceUC   *billing.InvoiceUseCase
	Settlement  *billing.SettlementUseCase
	PDFUC       *billing.PDFUseCase
	DashboardUC *analytics.DashboardUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
//
// Roles: admin accede a todo; bodeguero gestiona productos y movimientos;
// vendedor gestiona clientes, pedidos, facturas y pagos. Las lecturas quedan abiertas a cualquier rol.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	api.Get("/meta/labels", GetLabels)

	// Auth (público; register acepta token opcional para asignar roles)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", OptionalAuth(deps.JWTSecret), authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))

	stock := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	sales := RequireRole(entity.RoleAdmin, entity.RoleVendedor)
	adminOnly := RequireRole(entity.RoleAdmin)
	byID := uuidParams("id")

	userHandler := NewUserHandler(deps.UserUC)
	protected.Get("/users/me", userHandler.Me)
	protected.Get("/users", adminOnly, userHandler.List)

	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := protected.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", byID, categoryHandler.GetByID)
	categories.Post("/", stock, categoryHandler.Create)
	categories.Put("/:id", stock, byID, categoryHandler.Update)
	categories.Delete("/:id", stock, byID, categoryHandler.Delete)

	productHandler := NewProductHandler(deps.ProductUC)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/:id", byID, productHandler.GetByID)
	products.Post("/", stock, productHandler.Create)
	products.Put("/:id", stock, byID, productHandler.Update)
	products.Delete("/:id", adminOnly, byID, productHandler.Delete)

	inventoryHandler := NewInventoryHandler(deps.Ledger)
	movements := protected.Group("/inventory/movements")
	movements.Get("/", inventoryHandler.ListMovements)
	movements.Get("/:id", byID, inventoryHandler.GetMovement)
	movements.Post("/", stock, inventoryHandler.RegisterMovement)
	movements.Put("/:id", stock, byID, inventoryHandler.UpdateMovement)

	clientHandler := NewClientHandler(deps.ClientUC)
	clients := protected.Group("/clients")
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", byID, clientHandler.GetByID)
	clients.Post("/", sales, clientHandler.Create)
	clients.Put("/:id", sales, byID, clientHandler.Update)
	clients.Delete("/:id", sales, byID, clientHandler.Delete)

	orderHandler := NewOrderHandler(deps.OrderUC)
	ordersGroup := protected.Group("/orders")
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", byID, orderHandler.GetByID)
	ordersGroup.Post("/", sales, orderHandler.Create)
	ordersGroup.Post("/:id/items", sales, byID, orderHandler.AddItem)
	ordersGroup.Delete("/:id/items/:itemId", sales, uuidParams("id", "itemId"), orderHandler.RemoveItem)
	ordersGroup.Patch("/:id/status", sales, byID, orderHandler.ChangeStatus)

	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.Settlement, deps.PDFUC)
	invoices := protected.Group("/invoices")
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", byID, invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", byID, invoiceHandler.DownloadPDF)
	invoices.Get("/:id/payments", byID, invoiceHandler.ListPayments)
	invoices.Post("/", sales, invoiceHandler.Create)
	invoices.Post("/:id/cancel", sales, byID, invoiceHandler.Cancel)
	invoices.Post("/:id/payments", sales, byID, invoiceHandler.RecordPayment)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/stats", dashboardHandler.GetStats)
	protected.Get("/dashboard/monthly-sales", dashboardHandler.GetMonthlySales)
}
