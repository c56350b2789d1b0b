// Package analytics contiene los casos de uso del dashboard.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-pedidos/internal/application/dto"
	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const dashboardLowStock = 5 // productos en el widget de stock bajo

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// DashboardUseCase genera los indicadores de inventario, pedidos y ventas.
//
// Fuente de datos: DashboardRepository y ProductRepository (consultas read-only).
// Ventas = pagos recibidos en el período.
type DashboardUseCase struct {
	dashRepo    repository.DashboardRepository
	productRepo repository.ProductRepository
	now         func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(dashRepo repository.DashboardRepository, productRepo repository.ProductRepository) *DashboardUseCase {
	return &DashboardUseCase{dashRepo: dashRepo, productRepo: productRepo, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetStats construye el DashboardStatsDTO.
//
// Consultas en paralelo:
//  1. InventoryStats            → TotalProducts, LowStockCount, StockValue
//  2. CountOrders(hoy / mes)    → TodayOrders, OrdersThisMonth
//  3. SumPayments(hoy / mes)    → TodaySales, MonthlySales
//  4. ListLowStock(top 5)       → LowStockProducts
func (uc *DashboardUseCase) GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	now := uc.now()

	// Rangos semiabiertos [inicio, fin).
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	type invResult struct {
		stats *repository.InventoryStats
		err   error
	}
	type countResult struct {
		n   int
		err error
	}
	type sumResult struct {
		total decimal.Decimal
		err   error
	}
	type lowResult struct {
		products []dto.ProductResponse
		err      error
	}

	invCh := make(chan invResult, 1)
	todayOrdersCh := make(chan countResult, 1)
	monthOrdersCh := make(chan countResult, 1)
	todaySalesCh := make(chan sumResult, 1)
	monthSalesCh := make(chan sumResult, 1)
	lowCh := make(chan lowResult, 1)

	go func() {
		s, err := uc.dashRepo.InventoryStats(ctx)
		invCh <- invResult{s, err}
	}()
	go func() {
		n, err := uc.dashRepo.CountOrders(ctx, todayStart, todayEnd)
		todayOrdersCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.dashRepo.CountOrders(ctx, monthStart, monthEnd)
		monthOrdersCh <- countResult{n, err}
	}()
	go func() {
		t, err := uc.dashRepo.SumPayments(ctx, todayStart, todayEnd)
		todaySalesCh <- sumResult{t, err}
	}()
	go func() {
		t, err := uc.dashRepo.SumPayments(ctx, monthStart, monthEnd)
		monthSalesCh <- sumResult{t, err}
	}()
	go func() {
		list, err := uc.productRepo.ListLowStock(ctx, dashboardLowStock)
		if err != nil {
			lowCh <- lowResult{err: err}
			return
		}
		lowCh <- lowResult{products: dto.ToProductResponses(list)}
	}()

	inv := <-invCh
	todayOrders := <-todayOrdersCh
	monthOrders := <-monthOrdersCh
	todaySales := <-todaySalesCh
	monthSales := <-monthSalesCh
	low := <-lowCh

	if inv.err != nil {
		return nil, fmt.Errorf("dashboard: inventario: %w", inv.err)
	}
	if todayOrders.err != nil {
		return nil, fmt.Errorf("dashboard: pedidos de hoy: %w", todayOrders.err)
	}
	if monthOrders.err != nil {
		return nil, fmt.Errorf("dashboard: pedidos del mes: %w", monthOrders.err)
	}
	if todaySales.err != nil {
		return nil, fmt.Errorf("dashboard: ventas de hoy: %w", todaySales.err)
	}
	if monthSales.err != nil {
		return nil, fmt.Errorf("dashboard: ventas del mes: %w", monthSales.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}

	return &dto.DashboardStatsDTO{
		TotalProducts:    inv.stats.TotalProducts,
		LowStockCount:    inv.stats.LowStockCount,
		StockValue:       inv.stats.StockValue.Round(2),
		TodayOrders:      todayOrders.n,
		OrdersThisMonth:  monthOrders.n,
		TodaySales:       todaySales.total.Round(2),
		MonthlySales:     monthSales.total.Round(2),
		LowStockProducts: low.products,
		DateLabel:        monthLabel(now),
	}, nil
}

// GetMonthlySales serie de ventas (pagos) por mes del año indicado; year 0 = año en curso.
func (uc *DashboardUseCase) GetMonthlySales(ctx context.Context, year int) (*dto.MonthlySalesDTO, error) {
	if year == 0 {
		year = uc.now().Year()
	}
	if year < 2000 || year > 9999 {
		return nil, domain.ErrInvalidInput
	}
	months, err := uc.dashRepo.MonthlyPayments(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("dashboard: ventas mensuales: %w", err)
	}
	out := &dto.MonthlySalesDTO{Year: year, Months: make([]dto.MonthSalesDTO, 0, 12), Total: decimal.Zero}
	for i, total := range months {
		out.Months = append(out.Months, dto.MonthSalesDTO{
			Month: i + 1,
			Label: monthNames[i],
			Total: total.Round(2),
		})
		out.Total = out.Total.Add(total)
	}
	out.Total = out.Total.Round(2)
	return out, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", monthNames[t.Month()-1], t.Year())
}
