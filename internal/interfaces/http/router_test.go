package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-pedidos/internal/application/analytics"
	"github.com/jhoicas/inventario-pedidos/internal/application/auth"
	"github.com/jhoicas/inventario-pedidos/internal/application/billing"
	"github.com/jhoicas/inventario-pedidos/internal/application/dto"
	"github.com/jhoicas/inventario-pedidos/internal/application/inventory"
	"github.com/jhoicas/inventario-pedidos/internal/application/orders"
	"github.com/jhoicas/inventario-pedidos/internal/application/usecase"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/infrastructure/lock"
	"github.com/jhoicas/inventario-pedidos/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/inventario-pedidos/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/inventario-pedidos/internal/interfaces/http"
	"github.com/jhoicas/inventario-pedidos/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// App completa sobre el almacenamiento en memoria
// ──────────────────────────────────────────────────────────────────────────────

const testClientID = "5b0c1d2e-0000-4000-8000-000000000001"

func buildApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Clients().Create(context.Background(), &entity.Client{
		ID: testClientID, Name: "Ferretería Central", CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))

	log := logger.Nop()
	locker := lock.NewLocalLocker()
	ledger := inventory.NewStockLedger(store, store.Movements(), locker, log)
	invoiceUC := billing.NewInvoiceUseCase(store, store.Invoices(), store.Payments(), store.Orders(), store.OrderItems(), locker, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		UserUC:      usecase.NewUserUseCase(store.Users()),
		ProductUC:   usecase.NewProductUseCase(store, store.Products(), store.Categories(), ledger, locker, log),
		CategoryUC:  usecase.NewCategoryUseCase(store.Categories()),
		ClientUC:    usecase.NewClientUseCase(store.Clients()),
		Ledger:      ledger,
		OrderUC:     orders.NewOrderUseCase(store, store.Orders(), store.OrderItems(), store.Clients(), ledger, locker, log),
		InvoiceUC:   invoiceUC,
		Settlement:  billing.NewSettlementUseCase(store, locker, log),
		PDFUC:       billing.NewPDFUseCase(invoiceUC, store.Clients(), store.Products(), infrapdf.NewMarotoPDFGenerator("Inventario Test")),
		DashboardUC: analytics.NewDashboardUseCase(store.Dashboard(), store.Products()),
		JWTSecret:   testJWTSecret,
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, authHeader string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createProduct(t *testing.T, app *fiber.App, token string, qty int) dto.ProductResponse {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/products", token, fiber.Map{
		"sku": "TOR-1", "name": "Tornillo", "quantity": qty, "cost_price": 10, "selling_price": 50,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody[dto.ProductResponse](t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rutas públicas
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_HealthSinToken(t *testing.T) {
	resp := doJSON(t, buildApp(t), http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_LabelsPublicas(t *testing.T) {
	resp := doJSON(t, buildApp(t), http.MethodGet, "/api/meta/labels", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	labels := decodeBody[dto.LabelsResponse](t, resp)
	assert.Len(t, labels.MovementTypes, len(entity.MovementTypes))
	assert.Len(t, labels.OrderStatuses, len(entity.OrderStatuses))
}

func TestRouter_RegistroYLogin(t *testing.T) {
	app := buildApp(t)
	creds := fiber.Map{"email": "Ana@Example.com", "password": "secreto123", "name": "Ana"}

	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := decodeBody[dto.UserResponse](t, resp)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, entity.RoleAdmin, user.Role, "el primer usuario es admin")

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decodeBody[dto.LoginResponse](t, resp)
	assert.NotEmpty(t, login.Token)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "ana@example.com", "password": "otra-clave"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación y errores de dominio
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_ValidacionDevuelveCampos(t *testing.T) {
	app := buildApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/inventory/movements", tokenForRole(t, entity.RoleBodeguero), fiber.Map{
		"type": "FOO", "quantity": 3,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody[dto.ValidationErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Equal(t, "es requerido", body.Fields["product_id"])
	assert.Equal(t, "debe ser uno de: IN OUT ADJUSTMENT", body.Fields["type"])
}

func TestRouter_CuerpoInvalido(t *testing.T) {
	app := buildApp(t)
	req := httptest.NewRequest(http.MethodPost, "/api/inventory/movements", bytes.NewBufferString("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleAdmin))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decodeBody[dto.ErrorResponse](t, resp).Code)
}

func TestRouter_SalidaSinStockDevuelve409(t *testing.T) {
	app := buildApp(t)
	token := tokenForRole(t, entity.RoleBodeguero)
	product := createProduct(t, app, token, 10)

	resp := doJSON(t, app, http.MethodPost, "/api/inventory/movements", token, fiber.Map{
		"product_id": product.ID, "type": "OUT", "quantity": 11,
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decodeBody[dto.ErrorResponse](t, resp).Code)

	resp = doJSON(t, app, http.MethodGet, "/api/products/"+product.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decodeBody[dto.ProductDetailResponse](t, resp)
	assert.Equal(t, 10, detail.Quantity, "un OUT rechazado no modifica existencias")
	assert.Len(t, detail.RecentMovements, 1, "solo existe el movimiento de stock inicial")
}

func TestRouter_MovimientoProductoInexistente(t *testing.T) {
	resp := doJSON(t, buildApp(t), http.MethodPost, "/api/inventory/movements", tokenForRole(t, entity.RoleAdmin), fiber.Map{
		"product_id": uuid.NewString(), "type": "IN", "quantity": 1,
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeBody[dto.ErrorResponse](t, resp).Code)
}

func TestRouter_IdMalFormado(t *testing.T) {
	app := buildApp(t)
	admin := tokenForRole(t, entity.RoleAdmin)

	resp := doJSON(t, app, http.MethodPost, "/api/inventory/movements", admin, fiber.Map{
		"product_id": "abc", "type": "IN", "quantity": 1,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "debe ser un UUID válido", decodeBody[dto.ValidationErrorResponse](t, resp).Fields["product_id"])

	resp = doJSON(t, app, http.MethodPost, "/api/orders", admin, fiber.Map{"client_id": "c-1"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeBody[dto.ValidationErrorResponse](t, resp).Fields, "client_id")

	for _, path := range []string{"/api/products/abc", "/api/orders/abc", "/api/invoices/abc/payments", "/api/inventory/movements/1"} {
		resp = doJSON(t, app, http.MethodGet, path, admin, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, "NOT_FOUND", decodeBody[dto.ErrorResponse](t, resp).Code, path)
	}

	resp = doJSON(t, app, http.MethodDelete, "/api/orders/"+uuid.NewString()+"/items/abc", admin, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_SkuDuplicado(t *testing.T) {
	app := buildApp(t)
	token := tokenForRole(t, entity.RoleAdmin)
	createProduct(t, app, token, 0)

	resp := doJSON(t, app, http.MethodPost, "/api/products", token, fiber.Map{"sku": "TOR-1", "name": "Otro"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", decodeBody[dto.ErrorResponse](t, resp).Code)
}

func TestRouter_RolesPorGrupo(t *testing.T) {
	app := buildApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/products", tokenForRole(t, entity.RoleVendedor), fiber.Map{"sku": "X", "name": "X"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "vendedor no gestiona productos")

	resp = doJSON(t, app, http.MethodPost, "/api/orders", tokenForRole(t, entity.RoleBodeguero), fiber.Map{"client_id": testClientID})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "bodeguero no crea pedidos")

	resp = doJSON(t, app, http.MethodGet, "/api/products", tokenForRole(t, entity.RoleVendedor), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "las lecturas quedan abiertas a cualquier rol")

	resp = doJSON(t, app, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo pedido → factura → pago
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_FlujoPedidoFacturaPago(t *testing.T) {
	app := buildApp(t)
	admin := tokenForRole(t, entity.RoleAdmin)
	product := createProduct(t, app, admin, 10)

	// Pedido con precio tomado del producto.
	resp := doJSON(t, app, http.MethodPost, "/api/orders", admin, fiber.Map{
		"client_id": testClientID,
		"items":     []fiber.Map{{"product_id": product.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order := decodeBody[dto.OrderResponse](t, resp)
	assert.Equal(t, "PENDING", order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(100)), "2 × 50 = 100, got %s", order.TotalAmount)

	// Completar descuenta stock.
	resp = doJSON(t, app, http.MethodPatch, "/api/orders/"+order.ID+"/status", admin, fiber.Map{"status": "COMPLETED"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "COMPLETED", decodeBody[dto.OrderResponse](t, resp).Status)

	resp = doJSON(t, app, http.MethodGet, "/api/products/"+product.ID, admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 8, decodeBody[dto.ProductDetailResponse](t, resp).Quantity)

	// Un pedido completado no vuelve a PENDING.
	resp = doJSON(t, app, http.MethodPatch, "/api/orders/"+order.ID+"/status", admin, fiber.Map{"status": "PENDING"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Factura sin impuesto ni descuento.
	resp = doJSON(t, app, http.MethodPost, "/api/invoices", admin, fiber.Map{"order_id": order.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	inv := decodeBody[dto.InvoiceResponse](t, resp)
	assert.Equal(t, "PENDING", inv.Status)
	assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(100)))

	resp = doJSON(t, app, http.MethodPost, "/api/invoices", admin, fiber.Map{"order_id": order.ID})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "un pedido admite una sola factura")

	// Pago parcial y luego el resto.
	resp = doJSON(t, app, http.MethodPost, "/api/invoices/"+inv.ID+"/payments", admin, fiber.Map{"amount": 40, "method": "CASH"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	partial := decodeBody[dto.RecordPaymentResponse](t, resp)
	assert.Equal(t, "PENDING", partial.Invoice.Status)
	assert.True(t, partial.Invoice.BalanceDue.Equal(decimal.NewFromInt(60)))

	resp = doJSON(t, app, http.MethodPost, "/api/invoices/"+inv.ID+"/payments", admin, fiber.Map{"amount": 60, "method": "BANK_TRANSFER"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	paid := decodeBody[dto.RecordPaymentResponse](t, resp)
	assert.Equal(t, "PAID", paid.Invoice.Status)
	assert.True(t, paid.Invoice.BalanceDue.IsZero())
	assert.Len(t, paid.Invoice.Payments, 2)

	// Una factura pagada no se anula.
	resp = doJSON(t, app, http.MethodPost, "/api/invoices/"+inv.ID+"/cancel", admin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/invoices/"+inv.ID+"/pdf", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}

func TestRouter_PagoConMetodoInvalido(t *testing.T) {
	resp := doJSON(t, buildApp(t), http.MethodPost, "/api/invoices/"+uuid.NewString()+"/payments", tokenForRole(t, entity.RoleVendedor), fiber.Map{
		"amount": 0, "method": "BITCOIN",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody[dto.ValidationErrorResponse](t, resp)
	assert.Contains(t, body.Fields, "amount")
	assert.Contains(t, body.Fields, "method")
}

func TestRouter_PagoConTresDecimales(t *testing.T) {
	resp := doJSON(t, buildApp(t), http.MethodPost, "/api/invoices/"+uuid.NewString()+"/payments", tokenForRole(t, entity.RoleVendedor), fiber.Map{
		"amount": 0.001, "method": "CASH",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeBody[dto.ErrorResponse](t, resp).Code)
}

func TestRouter_LineaDuplicadaEnPedido(t *testing.T) {
	app := buildApp(t)
	admin := tokenForRole(t, entity.RoleAdmin)
	product := createProduct(t, app, admin, 5)

	resp := doJSON(t, app, http.MethodPost, "/api/orders", admin, fiber.Map{
		"client_id": testClientID,
		"items": []fiber.Map{
			{"product_id": product.ID, "quantity": 1},
			{"product_id": product.ID, "quantity": 2},
		},
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_LINE_ITEM", decodeBody[dto.ErrorResponse](t, resp).Code)
}
