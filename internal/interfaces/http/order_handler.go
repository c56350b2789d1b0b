package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-pedidos/internal/application/dto"
	"github.com/jhoicas/inventario-pedidos/internal/application/orders"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
)

// OrderHandler maneja pedidos y sus líneas (protegido).
type OrderHandler struct {
	uc *orders.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func toItemInput(r dto.OrderItemRequest) orders.ItemInput {
	return orders.ItemInput{
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		Price:     r.Price,
		Notes:     r.Notes,
	}
}

// Create godoc
// @Summary      Crear pedido
// @Description  order_number vacío = ORD{AAAAMMDDHHMM}. Sin price, la línea toma el precio de venta actual.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Pedido"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateOrderRequest
	if !parseBody(c, &in) {
		return nil
	}
	items := make([]orders.ItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, toItemInput(it))
	}
	order, err := h.uc.Create(c.UserContext(), userID, orders.CreateOrderInput{
		ClientID: in.ClientID,
		Number:   in.OrderNumber,
		Notes:    in.Notes,
		Items:    items,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToOrderResponse(order))
}

// GetByID godoc
// @Summary      Obtener pedido con líneas y totales
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.OrderResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToOrderResponse(order))
}

// List godoc
// @Summary      Listar pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status     query  string  false  "Estado"
// @Param        client_id  query  string  false  "Cliente"
// @Param        limit      query  int     false  "Límite"  default(20)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var q dto.OrderListQuery
	if !parseQuery(c, &q) {
		return nil
	}
	q.DefaultPage(orders.DefaultPageSize)
	list, total, err := h.uc.List(c.UserContext(), repository.OrderFilter{
		Status:   entity.OrderStatus(q.Status),
		ClientID: q.ClientID,
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, dto.ToOrderResponse(o))
	}
	return c.JSON(dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	})
}

// AddItem godoc
// @Summary      Agregar línea a un pedido abierto
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.OrderItemRequest  true  "Línea"
// @Success      201   {object}  dto.OrderItemResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/items [post]
func (h *OrderHandler) AddItem(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.OrderItemRequest
	if !parseBody(c, &in) {
		return nil
	}
	item, err := h.uc.AddItem(c.UserContext(), userID, c.Params("id"), toItemInput(in))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToOrderItemResponse(item))
}

// RemoveItem godoc
// @Summary      Quitar línea de un pedido abierto
// @Tags         orders
// @Security     Bearer
// @Param        id      path  string  true  "ID del pedido"
// @Param        itemId  path  string  true  "ID de la línea"
// @Success      204
// @Router       /api/orders/{id}/items/{itemId} [delete]
func (h *OrderHandler) RemoveItem(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	if err := h.uc.RemoveItem(c.UserContext(), userID, c.Params("id"), c.Params("itemId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ChangeStatus godoc
// @Summary      Cambiar estado del pedido
// @Description  Al pasar a COMPLETED descuenta el stock de cada línea (salida "Order #<número>").
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.ChangeOrderStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [patch]
func (h *OrderHandler) ChangeStatus(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.ChangeOrderStatusRequest
	if !parseBody(c, &in) {
		return nil
	}
	order, err := h.uc.ChangeStatus(c.UserContext(), userID, c.Params("id"), entity.OrderStatus(in.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToOrderResponse(order))
}
