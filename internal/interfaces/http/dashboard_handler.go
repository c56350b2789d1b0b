package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/inventario-pedidos/internal/application/analytics"
	"github.com/jhoicas/inventario-pedidos/internal/application/dto"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetStats godoc
// @Summary      Indicadores del día y del mes
// @Description  Ventas = pagos recibidos en el período.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardStatsDTO
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.uc.GetStats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// GetMonthlySales godoc
// @Summary      Ventas por mes de un año
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        year  query  int  false  "Año (por defecto el actual)"
// @Success      200  {object}  dto.MonthlySalesDTO
// @Router       /api/dashboard/monthly-sales [get]
func (h *DashboardHandler) GetMonthlySales(c *fiber.Ctx) error {
	out, err := h.uc.GetMonthlySales(c.UserContext(), c.QueryInt("year", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetLabels godoc
// @Summary      Etiquetas de los códigos de estado, tipo y método
// @Tags         meta
// @Produce      json
// @Success      200  {object}  dto.LabelsResponse
// @Router       /api/meta/labels [get]
func GetLabels(c *fiber.Ctx) error {
	return c.JSON(dto.Labels())
}
